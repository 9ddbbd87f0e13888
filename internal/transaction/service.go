package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/category"
)

type Service struct {
	repo          Repository
	status        *StatusManager
	accounts      AccountGetter
	subcategories SubcategoryLookup
}

func NewService(repo Repository, accounts AccountGetter, subcategories SubcategoryLookup) *Service {
	return &Service{
		repo:          repo,
		status:        NewStatusManager(accounts, subcategories),
		accounts:      accounts,
		subcategories: subcategories,
	}
}

type CreateParams struct {
	UniqueHash    string
	RawText       string
	Amount        decimal.Decimal
	Currency      string
	Merchant      string
	Description   string
	Channel       string
	BankName      string
	OccurredAt    time.Time
	AccountID     *uuid.UUID
	SubcategoryID uuid.UUID
}

// UpdateParams carries an enrichment. Nil fields are left untouched.
type UpdateParams struct {
	AccountID             *uuid.UUID
	SubcategoryID         *uuid.UUID
	Description           *string
	LinkedTransactionHash *string
	OverrideReimbursable  *bool
}

func (p UpdateParams) Empty() bool {
	return p.AccountID == nil && p.SubcategoryID == nil && p.Description == nil &&
		p.LinkedTransactionHash == nil && p.OverrideReimbursable == nil
}

type ListFilter struct {
	Status    *Status
	AccountID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// Create stores a new transaction with its status derived from the referenced account and subcategory.
// It returns ErrDuplicate when another transaction already holds the hash.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	status, err := s.status.Initial(ctx, params.AccountID, params.SubcategoryID)
	if err != nil {
		return nil, fmt.Errorf("deriving status: %w", err)
	}

	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "INR"
	}

	tx := &Transaction{
		UniqueHash:    params.UniqueHash,
		RawText:       params.RawText,
		Amount:        params.Amount,
		Currency:      currency,
		Merchant:      params.Merchant,
		Description:   params.Description,
		Channel:       params.Channel,
		BankName:      params.BankName,
		OccurredAt:    params.OccurredAt,
		AccountID:     params.AccountID,
		SubcategoryID: params.SubcategoryID,
		Status:        status,
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) FindByHash(ctx context.Context, hash string) (*Transaction, error) {
	return s.repo.FindByHash(ctx, hash)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Enrich applies a human enrichment and recomputes the status over the merged values.
func (s *Service) Enrich(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, tx, params)
}

// EnrichByHash is Enrich addressed by the content hash carried in edit links.
func (s *Service) EnrichByHash(ctx context.Context, hash string, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.FindByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, tx, params)
}

func (s *Service) enrich(ctx context.Context, tx *Transaction, params UpdateParams) (*Transaction, error) {
	if err := s.validateReferences(ctx, params); err != nil {
		return nil, err
	}

	status, err := s.status.ForUpdate(ctx, tx, params)
	if err != nil {
		return nil, fmt.Errorf("deriving status: %w", err)
	}

	if params.AccountID != nil {
		tx.AccountID = params.AccountID
	}

	if params.SubcategoryID != nil {
		tx.SubcategoryID = *params.SubcategoryID
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.LinkedTransactionHash != nil {
		tx.LinkedTransactionHash = params.LinkedTransactionHash
		// An empty hash unlinks.
		if *params.LinkedTransactionHash == "" {
			tx.LinkedTransactionHash = nil
		}
	}

	if params.OverrideReimbursable != nil {
		tx.OverrideReimbursable = params.OverrideReimbursable
	}

	tx.Status = status

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) validateReferences(ctx context.Context, params UpdateParams) error {
	if params.SubcategoryID != nil {
		if _, ok := s.subcategories.Subcategory(*params.SubcategoryID); !ok {
			return fmt.Errorf("%w: subcategory %s", ErrInvalidReference, params.SubcategoryID)
		}
	}

	if params.AccountID != nil {
		_, err := s.accounts.Get(ctx, *params.AccountID)
		if errors.Is(err, account.ErrNotFound) {
			return fmt.Errorf("%w: account %s", ErrInvalidReference, params.AccountID)
		}

		if err != nil {
			return fmt.Errorf("looking up account: %w", err)
		}
	}

	return nil
}

// RecomputeForAccount re-derives the status of every transaction on the account and
// stores the ones that changed. It returns how many were updated.
func (s *Service) RecomputeForAccount(ctx context.Context, accountID uuid.UUID) (int, error) {
	txs, err := s.repo.ListTransactions(ctx, ListFilter{AccountID: &accountID})
	if err != nil {
		return 0, err
	}

	updated := 0

	for _, tx := range txs {
		status, err := s.status.Initial(ctx, tx.AccountID, tx.SubcategoryID)
		if err != nil {
			return updated, fmt.Errorf("deriving status: %w", err)
		}

		if status == tx.Status {
			continue
		}

		tx.Status = status
		if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
			return updated, err
		}

		updated++
	}

	return updated, nil
}

func (s *Service) SetChatMessageID(ctx context.Context, id uuid.UUID, messageID int64) error {
	return s.repo.SetChatMessageID(ctx, id, messageID)
}

// Details is a transaction with its account and subcategory resolved.
type Details struct {
	*Transaction
	Account     *account.Account
	Subcategory *category.Subcategory
}

func (s *Service) Details(ctx context.Context, tx *Transaction) (*Details, error) {
	d := &Details{Transaction: tx}

	if tx.AccountID != nil {
		acc, err := s.accounts.Get(ctx, *tx.AccountID)
		if err != nil && !errors.Is(err, account.ErrNotFound) {
			return nil, fmt.Errorf("looking up account: %w", err)
		}

		d.Account = acc
	}

	if sub, ok := s.subcategories.Subcategory(tx.SubcategoryID); ok {
		d.Subcategory = sub
	}

	return d, nil
}
