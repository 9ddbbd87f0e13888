package view

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/category"
	"github.com/MrJamesThe3rd/paisa/internal/rules"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

const dbTimeout = 5 * time.Second

// Services are the domain services the views read and write through.
type Services struct {
	Transactions *transaction.Service
	Accounts     *account.Service
	Rules        *rules.Service
	Taxonomy     *category.Taxonomy
}

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// FormatAmount renders an amount with its currency, e.g. "INR 2475.94".
func FormatAmount(amount decimal.Decimal, currency string) string {
	return currency + " " + amount.StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD HH:MM.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
