package transaction

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/category"
)

// DeriveStatus is the whole enrichment state machine.
//
//	account valid | subcategory meaningful | status
//	no            | no                     | pending_processing
//	no            | yes                    | pending_account_selection
//	yes           | no                     | pending_categorization
//	yes           | yes                    | processed
func DeriveStatus(accountValid, subcategoryMeaningful bool) Status {
	switch {
	case accountValid && subcategoryMeaningful:
		return StatusProcessed
	case accountValid:
		return StatusPendingCategorization
	case subcategoryMeaningful:
		return StatusPendingAccountSelection
	default:
		return StatusPendingProcessing
	}
}

type AccountGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

type SubcategoryLookup interface {
	Subcategory(id uuid.UUID) (*category.Subcategory, bool)
	Meaningful(id uuid.UUID) bool
}

// StatusManager looks up the referenced account and subcategory and feeds DeriveStatus.
type StatusManager struct {
	accounts      AccountGetter
	subcategories SubcategoryLookup
}

func NewStatusManager(accounts AccountGetter, subcategories SubcategoryLookup) *StatusManager {
	return &StatusManager{accounts: accounts, subcategories: subcategories}
}

// Initial is the status of a transaction about to be created.
func (m *StatusManager) Initial(ctx context.Context, accountID *uuid.UUID, subcategoryID uuid.UUID) (Status, error) {
	accountValid, err := m.accountValid(ctx, accountID)
	if err != nil {
		return "", err
	}

	return DeriveStatus(accountValid, m.subcategories.Meaningful(subcategoryID)), nil
}

// ForUpdate merges params over existing and derives the resulting status.
// Fields absent from params keep the stored value.
func (m *StatusManager) ForUpdate(ctx context.Context, existing *Transaction, params UpdateParams) (Status, error) {
	accountID := existing.AccountID
	if params.AccountID != nil {
		accountID = params.AccountID
	}

	subcategoryID := existing.SubcategoryID
	if params.SubcategoryID != nil {
		subcategoryID = *params.SubcategoryID
	}

	return m.Initial(ctx, accountID, subcategoryID)
}

func (m *StatusManager) accountValid(ctx context.Context, id *uuid.UUID) (bool, error) {
	if id == nil {
		return false, nil
	}

	acc, err := m.accounts.Get(ctx, *id)
	if errors.Is(err, account.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("looking up account %s: %w", id, err)
	}

	return acc.Classified(), nil
}
