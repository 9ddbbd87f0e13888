package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/paisa/internal/account"
)

type accountFields struct {
	name    string
	typ     account.Type
	purpose account.Purpose
}

// AccountsModel lists accounts and classifies the placeholders the ingest
// pipeline creates for unknown cards.
type AccountsModel struct {
	svc Services

	table    table.Model
	accounts []*account.Account
	form     *huh.Form
	fields   *accountFields
	editing  bool

	loading bool
	err     error
	status  string
}

func NewAccountsModel(svc Services) AccountsModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Bank", Width: 18},
			{Title: "Last4", Width: 6},
			{Title: "Type", Width: 16},
			{Title: "Purpose", Width: 10},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return AccountsModel{svc: svc, table: t, loading: true}
}

func (m AccountsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m AccountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case accountSavedMsg:
		m.editing = false
		m.form = nil
		m.table.Focus()

		switch {
		case msg.err != nil:
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		case msg.typeChanged:
			m.status = fmt.Sprintf("Saved. Re-evaluated %d transactions.", msg.recomputed)
		default:
			m.status = "Saved."
		}

		return m, m.loadCmd()
	}

	if m.editing {
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			m.editing = false
			m.form = nil
			m.table.Focus()

			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State == huh.StateCompleted {
			return m, m.saveCmd()
		}

		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e", "enter":
			return m.enterEditMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m AccountsModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return m, nil
	}

	acc := m.accounts[idx]
	m.fields = &accountFields{name: acc.Name, typ: acc.Type, purpose: acc.Purpose}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&m.fields.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[account.Type]().
				Title("Type").
				Options(
					huh.NewOption("Savings account", account.TypeSavingsAccount),
					huh.NewOption("Credit card", account.TypeCreditCard),
					huh.NewOption("Wallet", account.TypeWallet),
					huh.NewOption("Unknown", account.TypeUnknown),
				).
				Value(&m.fields.typ),
			huh.NewSelect[account.Purpose]().
				Title("Purpose").
				Options(
					huh.NewOption("Personal", account.PurposePersonal),
					huh.NewOption("Business", account.PurposeBusiness),
				).
				Value(&m.fields.purpose),
		),
	).WithWidth(40).WithShowHelp(false)

	m.editing = true
	m.table.Blur()

	return m, m.form.Init()
}

func (m AccountsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading accounts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.table.View(),
		lipgloss.NewStyle().Faint(true).Render("Esc: back | e: edit | r: refresh"),
	)

	if m.editing && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render("Edit Account\n\n" + m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *AccountsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.accounts))
	for _, acc := range m.accounts {
		typ := string(acc.Type)
		if !acc.Classified() {
			typ += " !"
		}

		rows = append(rows, table.Row{acc.Name, acc.BankName, acc.Last4, typ, string(acc.Purpose)})
	}

	m.table.SetRows(rows)
}

type accountsLoadedMsg struct {
	accounts []*account.Account
	err      error
}

func (m AccountsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		accounts, err := m.svc.Accounts.List(ctx)

		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

type accountSavedMsg struct {
	typeChanged bool
	recomputed  int
	err         error
}

func (m AccountsModel) saveCmd() tea.Cmd {
	acc := m.accounts[m.table.Cursor()]
	f := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		name := strings.TrimSpace(f.name)

		_, typeChanged, err := m.svc.Accounts.Update(ctx, acc.ID, account.UpdateParams{
			Name:    &name,
			Type:    &f.typ,
			Purpose: &f.purpose,
		})
		if err != nil {
			return accountSavedMsg{err: err}
		}

		if !typeChanged {
			return accountSavedMsg{}
		}

		n, err := m.svc.Transactions.RecomputeForAccount(ctx, acc.ID)

		return accountSavedMsg{typeChanged: true, recomputed: n, err: err}
	}
}
