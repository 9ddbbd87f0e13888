package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

var (
	statusFilters = []*transaction.Status{
		nil,
		new(transaction.StatusPendingProcessing),
		new(transaction.StatusPendingAccountSelection),
		new(transaction.StatusPendingCategorization),
		new(transaction.StatusProcessed),
	}
	dateFilters = []Timeframe{TimeframeAll, TimeframeThisMonth, TimeframeLastMonth, TimeframeLast90Days}
)

// Select values for the reimbursable override.
const (
	reimbursableInherit = "inherit"
	reimbursableYes     = "yes"
	reimbursableNo      = "no"
)

type listFields struct {
	description  string
	linkedHash   string
	reimbursable string
}

type ListModel struct {
	svc Services

	state listState
	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	accounts map[uuid.UUID]*account.Account

	statusFilterIdx int
	dateFilterIdx   int

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string

	fields *listFields
}

func NewListModel(svc Services) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 17},
		{Title: "Status", Width: 26},
		{Title: "Amount", Width: 14},
		{Title: "Merchant", Width: 24},
		{Title: "Category", Width: 28},
		{Title: "Account", Width: 18},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		svc:     svc,
		table:   t,
		loading: true,
	}
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.txs = msg.txs
		m.accounts = msg.accounts
		m.refreshTable()

		return m, nil

	case listSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		} else {
			m.status = "Saved."
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.applyFilter()
			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilters)
			m.applyFilter()
			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return m, nil
	}

	tx := m.txs[idx]
	m.fields = &listFields{
		description:  tx.Description,
		reimbursable: reimbursableInherit,
	}

	if tx.LinkedTransactionHash != nil {
		m.fields.linkedHash = *tx.LinkedTransactionHash
	}

	if tx.OverrideReimbursable != nil {
		m.fields.reimbursable = reimbursableNo
		if *tx.OverrideReimbursable {
			m.fields.reimbursable = reimbursableYes
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&m.fields.description),
			huh.NewInput().
				Title("Linked transaction hash").
				Placeholder("optional").
				Value(&m.fields.linkedHash),
			huh.NewSelect[string]().
				Title("Reimbursable").
				Options(
					huh.NewOption("From subcategory", reimbursableInherit),
					huh.NewOption("Yes", reimbursableYes),
					huh.NewOption("No", reimbursableNo),
				).
				Value(&m.fields.reimbursable),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabel := "All"
	if st := statusFilters[m.statusFilterIdx]; st != nil {
		statusLabel = string(*st)
	}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] Date: %s | %d transactions",
		activeStyle(statusLabel),
		activeStyle(dateFilters[m.dateFilterIdx].String()),
		len(m.txs),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
		lipgloss.NewStyle().Faint(true).Render("Esc: back | e: edit | s: status | d: date | r: refresh"),
	)

	if m.state == listStateEdit && m.form != nil {
		raw := ""
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.txs) {
			raw = m.txs[idx].RawText
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Transaction\n\nSMS: %s\n\n%s", raw, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ListModel) applyFilter() {
	m.filter.Status = statusFilters[m.statusFilterIdx]

	tf := dateFilters[m.dateFilterIdx]
	if tf == TimeframeAll {
		m.filter.StartDate, m.filter.EndDate = nil, nil
		return
	}

	start, end := wholeDays(tf.Range(time.Now()))
	m.filter.StartDate, m.filter.EndDate = &start, &end
}

func (m *ListModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		category := "-"
		if sub, ok := m.svc.Taxonomy.Subcategory(tx.SubcategoryID); ok {
			category = sub.Path()
		}

		accountName := "-"
		if tx.AccountID != nil {
			if acc, ok := m.accounts[*tx.AccountID]; ok {
				accountName = acc.Name
			}
		}

		rows = append(rows, table.Row{
			FormatDate(tx.OccurredAt),
			string(tx.Status),
			FormatAmount(tx.Amount, tx.Currency),
			orDash(tx.Merchant),
			category,
			accountName,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs      []*transaction.Transaction
	accounts map[uuid.UUID]*account.Account
	err      error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.svc.Transactions.List(ctx, filter)
		if err != nil {
			return loadListMsg{err: err}
		}

		accounts, err := m.svc.Accounts.List(ctx)
		if err != nil {
			return loadListMsg{err: err}
		}

		byID := make(map[uuid.UUID]*account.Account, len(accounts))
		for _, acc := range accounts {
			byID[acc.ID] = acc
		}

		return loadListMsg{txs: txs, accounts: byID}
	}
}

type listSaveMsg struct {
	err error
}

func (m ListModel) saveCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	tx := m.txs[idx]
	params := m.fields.params(tx)

	if params.Empty() {
		return func() tea.Msg { return listSaveMsg{} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := m.svc.Transactions.Enrich(ctx, tx.ID, params)

		return listSaveMsg{err: err}
	}
}

func (f *listFields) params(tx *transaction.Transaction) transaction.UpdateParams {
	var params transaction.UpdateParams

	if desc := strings.TrimSpace(f.description); desc != tx.Description {
		params.Description = &desc
	}

	current := ""
	if tx.LinkedTransactionHash != nil {
		current = *tx.LinkedTransactionHash
	}

	if hash := strings.TrimSpace(f.linkedHash); hash != current {
		params.LinkedTransactionHash = &hash
	}

	switch f.reimbursable {
	case reimbursableYes:
		if tx.OverrideReimbursable == nil || !*tx.OverrideReimbursable {
			params.OverrideReimbursable = new(true)
		}
	case reimbursableNo:
		if tx.OverrideReimbursable == nil || *tx.OverrideReimbursable {
			params.OverrideReimbursable = new(false)
		}
	}

	return params
}
