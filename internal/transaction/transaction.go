package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("transaction not found")
	ErrDuplicate        = errors.New("transaction with this hash already exists")
	ErrInvalidReference = errors.New("referenced account or subcategory does not exist")
)

// Status is the enrichment state of a transaction. It is derived, never set directly.
type Status string

const (
	StatusPendingProcessing       Status = "pending_processing"
	StatusPendingAccountSelection Status = "pending_account_selection"
	StatusPendingCategorization   Status = "pending_categorization"
	StatusProcessed               Status = "processed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPendingProcessing, StatusPendingAccountSelection, StatusPendingCategorization, StatusProcessed:
		return true
	}

	return false
}

// Transaction is a single spend captured from a bank message.
type Transaction struct {
	ID         uuid.UUID
	UniqueHash string
	RawText    string
	Amount     decimal.Decimal
	Currency   string
	Merchant   string
	// Description is human-editable; it starts as the parser's summary.
	Description string
	Channel     string
	// BankName is kept even when the account is unresolved so it can be matched later.
	BankName   string
	OccurredAt time.Time

	AccountID     *uuid.UUID
	SubcategoryID uuid.UUID
	Status        Status

	LinkedTransactionHash *string
	OverrideReimbursable  *bool
	ChatMessageID         *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
