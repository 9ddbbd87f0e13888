// Package notify tells the user about new and updated transactions through a chat bot.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type Kind int

const (
	KindNew Kind = iota
	KindUpdated
)

func (k Kind) Title() string {
	if k == KindUpdated {
		return "Transaction Updated"
	}

	return "New Transaction Captured"
}

// Message is one chat message. ButtonURL, when set, becomes an "Open in App" button.
type Message struct {
	Text      string
	ButtonURL string
}

// Sender delivers a message and returns the chat's id for it.
type Sender interface {
	Send(ctx context.Context, msg Message) (int64, error)
}

// Source loads the transaction being announced and records where it was announced.
type Source interface {
	Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error)
	Details(ctx context.Context, tx *transaction.Transaction) (*transaction.Details, error)
	SetChatMessageID(ctx context.Context, id uuid.UUID, messageID int64) error
}

type TokenIssuer interface {
	Issue(txnHash string) (string, error)
}

const notSet = "⚠️ Not set"

var statusEmoji = map[transaction.Status]string{
	transaction.StatusProcessed:               "✅",
	transaction.StatusPendingCategorization:   "🏷️",
	transaction.StatusPendingAccountSelection: "🏦",
	transaction.StatusPendingProcessing:       "🚧",
}

// Format renders the plain-text summary of a transaction.
func Format(d *transaction.Details, kind Kind) string {
	emoji, ok := statusEmoji[d.Status]
	if !ok {
		emoji = "⚙️"
	}

	merchant := d.Merchant
	if merchant == "" {
		merchant = "Unknown Merchant"
	}

	accountName := notSet
	if d.Account != nil {
		accountName = d.Account.Name
	}

	categoryName := notSet
	if d.Subcategory != nil {
		categoryName = fmt.Sprintf("%s (%s)", d.Subcategory.Name, d.Subcategory.CategoryName)
	}

	description := d.Description
	if description == "" {
		description = "No description"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n", emoji, kind.Title())
	fmt.Fprintf(&b, "Amount: %s %s\n", d.Amount.StringFixed(2), d.Currency)
	fmt.Fprintf(&b, "Merchant: %s\n", merchant)
	fmt.Fprintf(&b, "Account: %s\n", accountName)
	fmt.Fprintf(&b, "Category: %s\n", categoryName)
	fmt.Fprintf(&b, "Description: %s\n", description)
	fmt.Fprintf(&b, "Status: %s", statusLabel(d.Status))

	return b.String()
}

// statusLabel turns "pending_account_selection" into "Pending Account Selection".
func statusLabel(s transaction.Status) string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}

	return strings.Join(words, " ")
}
