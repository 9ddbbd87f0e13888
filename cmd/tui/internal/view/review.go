package view

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/rules"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateLoading
	reviewStateEditing
	reviewStateDone
)

// noAccount is the select value for leaving the account unresolved.
const noAccount = ""

// reviewFields lives on the heap so the form keeps writing to the same values
// while the model is copied between updates.
type reviewFields struct {
	accountID     string
	subcategoryID string
	description   string
	learn         bool
}

// ReviewModel walks through every transaction that is not yet processed and
// lets the user pick the account and subcategory.
type ReviewModel struct {
	svc Services

	state  reviewState
	picker TimeframePicker

	accounts []*account.Account
	queue    []*transaction.Transaction
	current  *transaction.Transaction
	total    int

	form   *huh.Form
	fields *reviewFields

	status string
}

func NewReviewModel(svc Services) ReviewModel {
	return ReviewModel{
		svc:    svc,
		state:  reviewStateTimeframe,
		picker: NewTimeframePicker(TimeframeToday),
	}
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateLoading
		return m, m.loadCmd(msg)

	case reviewLoadedMsg:
		if msg.err != nil {
			m.state = reviewStateDone
			m.status = fmt.Sprintf("Error loading transactions: %v", msg.err)
			return m, nil
		}

		m.accounts = msg.accounts
		m.queue = msg.txs
		m.total = len(msg.txs)

		return m.next()

	case reviewSavedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m.edit(m.current)
		}

		m.status = msg.note

		return m.next()

	case tea.KeyMsg:
		switch m.state {
		case reviewStateTimeframe:
			if msg.Type == tea.KeyEsc && m.picker.IsSelecting() {
				return m, Back
			}
		case reviewStateEditing:
			switch msg.String() {
			case "esc":
				return m, Back
			case "ctrl+n":
				m.status = "Skipped " + orDash(m.current.Merchant)
				return m.next()
			}
		case reviewStateDone:
			if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
				return m, Back
			}
		}
	}

	switch m.state {
	case reviewStateTimeframe:
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case reviewStateEditing:
		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}

		if m.form.State == huh.StateCompleted {
			m.state = reviewStateLoading
			return m, m.saveCmd()
		}

		return m, cmd
	}

	return m, nil
}

func (m ReviewModel) next() (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		m.current = nil
		m.form = nil
		m.state = reviewStateDone
		if m.total == 0 {
			m.status = "Nothing to review."
		} else {
			m.status = fmt.Sprintf("Reviewed %d transactions.", m.total)
		}

		return m, nil
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]

	return m.edit(tx)
}

func (m ReviewModel) edit(tx *transaction.Transaction) (tea.Model, tea.Cmd) {
	m.current = tx
	m.fields = &reviewFields{
		accountID:     noAccount,
		subcategoryID: tx.SubcategoryID.String(),
		description:   tx.Description,
	}

	if tx.AccountID != nil {
		m.fields.accountID = tx.AccountID.String()
	}

	accountOpts := []huh.Option[string]{huh.NewOption("(unresolved)", noAccount)}
	for _, acc := range m.accounts {
		label := fmt.Sprintf("%s · %s %s [%s]", acc.Name, acc.BankName, acc.Last4, acc.Type)
		accountOpts = append(accountOpts, huh.NewOption(label, acc.ID.String()))
	}

	var subOpts []huh.Option[string]
	for _, c := range m.svc.Taxonomy.Categories() {
		for _, sub := range c.Subcategories {
			subOpts = append(subOpts, huh.NewOption(sub.Path(), sub.ID.String()))
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Account").
				Options(accountOpts...).
				Value(&m.fields.accountID),
			huh.NewSelect[string]().
				Title("Subcategory").
				Options(subOpts...).
				Height(10).
				Value(&m.fields.subcategoryID),
			huh.NewInput().
				Title("Description").
				Value(&m.fields.description),
			huh.NewConfirm().
				Title("Remember this merchant's subcategory?").
				Value(&m.fields.learn),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = reviewStateEditing

	return m, m.form.Init()
}

func (m ReviewModel) View() string {
	var content string

	switch m.state {
	case reviewStateTimeframe:
		content = "Review pending transactions\n\n" + m.picker.View()
	case reviewStateLoading:
		content = "Working..."
	case reviewStateDone:
		content = m.status + "\n\n(Enter or Esc to go back)"
	case reviewStateEditing:
		tx := m.current
		info := fmt.Sprintf(
			"Reviewing %d/%d  %s\n\nDate:     %s\nAmount:   %s\nMerchant: %s\nBank:     %s\nChannel:  %s\nStatus:   %s\n\n%s",
			m.total-len(m.queue), m.total,
			lipgloss.NewStyle().Faint(true).Render(m.status),
			FormatDate(tx.OccurredAt),
			FormatAmount(tx.Amount, tx.Currency),
			orDash(tx.Merchant),
			orDash(tx.BankName),
			orDash(tx.Channel),
			activeStyle(string(tx.Status)),
			lipgloss.NewStyle().Faint(true).Width(60).Render(tx.RawText),
		)
		content = info + "\n\n" + m.form.View() + "\n\n(Ctrl+N: skip, Esc: back)"
	}

	return lipgloss.NewStyle().Padding(2).Render(content)
}

type reviewLoadedMsg struct {
	txs      []*transaction.Transaction
	accounts []*account.Account
	err      error
}

func (m ReviewModel) loadCmd(tf TimeframeSelectedMsg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var filter transaction.ListFilter
		tf.Apply(&filter)

		txs, err := m.svc.Transactions.List(ctx, filter)
		if err != nil {
			return reviewLoadedMsg{err: err}
		}

		accounts, err := m.svc.Accounts.List(ctx)
		if err != nil {
			return reviewLoadedMsg{err: err}
		}

		pending := txs[:0]
		for _, tx := range txs {
			if tx.Status != transaction.StatusProcessed {
				pending = append(pending, tx)
			}
		}

		return reviewLoadedMsg{txs: pending, accounts: accounts}
	}
}

type reviewSavedMsg struct {
	note string
	err  error
}

func (m ReviewModel) saveCmd() tea.Cmd {
	tx := m.current
	fields := *m.fields

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		params, err := fields.params(tx)
		if err != nil {
			return reviewSavedMsg{err: err}
		}

		if !params.Empty() {
			updated, err := m.svc.Transactions.Enrich(ctx, tx.ID, params)
			if err != nil {
				return reviewSavedMsg{err: err}
			}

			tx = updated
		}

		note := fmt.Sprintf("Saved %s as %s", orDash(tx.Merchant), tx.Status)

		if fields.learn && strings.TrimSpace(tx.Merchant) != "" && m.svc.Taxonomy.Meaningful(tx.SubcategoryID) {
			_, err := m.svc.Rules.Learn(ctx, tx.Merchant, tx.SubcategoryID)
			switch {
			case errors.Is(err, rules.ErrDuplicate):
				note += " (rule already known)"
			case err != nil:
				return reviewSavedMsg{err: fmt.Errorf("learning rule: %w", err)}
			default:
				note += " and learned the merchant"
			}
		}

		return reviewSavedMsg{note: note}
	}
}

// params returns only the fields the user actually changed.
func (f reviewFields) params(tx *transaction.Transaction) (transaction.UpdateParams, error) {
	var params transaction.UpdateParams

	if f.accountID != noAccount {
		id, err := uuid.Parse(f.accountID)
		if err != nil {
			return params, fmt.Errorf("account id: %w", err)
		}

		if tx.AccountID == nil || *tx.AccountID != id {
			params.AccountID = &id
		}
	}

	subID, err := uuid.Parse(f.subcategoryID)
	if err != nil {
		return params, fmt.Errorf("subcategory id: %w", err)
	}

	if subID != tx.SubcategoryID {
		params.SubcategoryID = &subID
	}

	if desc := strings.TrimSpace(f.description); desc != tx.Description {
		params.Description = &desc
	}

	return params, nil
}
