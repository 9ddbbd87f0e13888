package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/paisa/internal/app"
	"github.com/MrJamesThe3rd/paisa/internal/config"
	"github.com/MrJamesThe3rd/paisa/internal/observability"
)

type model struct {
	svc view.Services

	currentView View

	reviewView   view.ReviewModel
	listView     view.ListModel
	accountsView view.AccountsModel
}

type View int

const (
	ViewMenu     View = 0
	ViewReview   View = 1
	ViewList     View = 2
	ViewAccounts View = 3
)

func newModel(svc view.Services) model {
	return model{
		svc:         svc,
		currentView: ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.svc)

				return m, m.reviewView.Init()
			case "2":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.svc)

				return m, m.listView.Init()
			case "3":
				m.currentView = ViewAccounts
				m.accountsView = view.NewAccountsModel(m.svc)

				return m, m.accountsView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewAccounts:
		var newModel tea.Model
		newModel, cmd = m.accountsView.Update(msg)
		m.accountsView = newModel.(view.AccountsModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Paisa TUI\n\n" +
				"1. Review Pending Transactions\n" +
				"2. Browse Transactions\n" +
				"3. Manage Accounts\n\n" +
				"q. Quit",
		)
	case ViewReview:
		return m.reviewView.View()
	case ViewList:
		return m.listView.View()
	case ViewAccounts:
		return m.accountsView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal belongs to bubbletea; only warnings and errors are logged.
	logger, err := observability.NewLogger("warn")
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	a, err := app.Open(context.Background(), cfg, logger, observability.NewMetrics())
	if err != nil {
		logger.Error("failed to open app", zap.Error(err))
		return err
	}
	defer a.Close()

	svc := view.Services{
		Transactions: a.Transactions,
		Accounts:     a.Accounts,
		Rules:        a.Rules,
		Taxonomy:     a.Taxonomy,
	}

	if _, err := tea.NewProgram(newModel(svc), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
