package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/observability"
)

type Service struct {
	repo    Repository
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewService(repo Repository, logger *zap.Logger, metrics *observability.Metrics) *Service {
	return &Service{repo: repo, logger: logger, metrics: metrics}
}

// PlaceholderName is the display name given to accounts created on first sight.
func PlaceholderName(bankName, last4 string) string {
	return fmt.Sprintf("New Account - %s %s", bankName, last4)
}

// Resolve maps a bank name and last-four digits to an account id.
// It returns nil without error when last4 is empty: the message did not say which account was used.
// An unseen pair gets a placeholder of TypeUnknown so later messages resolve to the same row.
func (s *Service) Resolve(ctx context.Context, bankName, last4 string) (*uuid.UUID, error) {
	last4 = strings.TrimSpace(last4)
	if last4 == "" {
		return nil, nil
	}

	acc, err := s.repo.FindByBankAndLast4(ctx, bankName, last4)
	if err == nil {
		return &acc.ID, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	placeholder := &Account{
		Name:     PlaceholderName(bankName, last4),
		Type:     TypeUnknown,
		Purpose:  PurposePersonal,
		BankName: bankName,
		Last4:    last4,
	}

	err = s.repo.CreateAccount(ctx, placeholder)
	if errors.Is(err, ErrDuplicate) {
		// A concurrent request created it first.
		acc, err := s.repo.FindByBankAndLast4(ctx, bankName, last4)
		if err != nil {
			return nil, fmt.Errorf("re-reading account after conflict: %w", err)
		}

		return &acc.ID, nil
	}

	if err != nil {
		return nil, fmt.Errorf("creating placeholder account: %w", err)
	}

	s.metrics.IncrPlaceholderAccount(bankName)
	s.logger.Info("created placeholder account",
		zap.String("account_id", placeholder.ID.String()),
		zap.String("bank", bankName),
		zap.String("last4", last4),
	)

	return &placeholder.ID, nil
}

type CreateParams struct {
	Name     string
	Type     Type
	Purpose  Purpose
	BankName string
	Last4    string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if params.Type == "" {
		params.Type = TypeUnknown
	}

	if params.Purpose == "" {
		params.Purpose = PurposePersonal
	}

	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: type %q", ErrInvalid, params.Type)
	}

	if !params.Purpose.Valid() {
		return nil, fmt.Errorf("%w: purpose %q", ErrInvalid, params.Purpose)
	}

	acc := &Account{
		Name:     params.Name,
		Type:     params.Type,
		Purpose:  params.Purpose,
		BankName: params.BankName,
		Last4:    params.Last4,
	}

	if acc.Name == "" {
		acc.Name = PlaceholderName(acc.BankName, acc.Last4)
	}

	if err := s.repo.CreateAccount(ctx, acc); err != nil {
		return nil, err
	}

	return acc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.repo.GetAccount(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Account, error) {
	return s.repo.ListAccounts(ctx)
}

type UpdateParams struct {
	Name    *string
	Type    *Type
	Purpose *Purpose
}

// Update applies the present fields and reports whether the account type changed,
// which invalidates the cached status of the account's transactions.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Account, bool, error) {
	acc, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return nil, false, err
	}

	typeChanged := false

	if params.Name != nil {
		acc.Name = *params.Name
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, false, fmt.Errorf("%w: type %q", ErrInvalid, *params.Type)
		}

		typeChanged = acc.Type != *params.Type
		acc.Type = *params.Type
	}

	if params.Purpose != nil {
		if !params.Purpose.Valid() {
			return nil, false, fmt.Errorf("%w: purpose %q", ErrInvalid, *params.Purpose)
		}

		acc.Purpose = *params.Purpose
	}

	if err := s.repo.UpdateAccount(ctx, acc); err != nil {
		return nil, false, err
	}

	return acc, typeChanged, nil
}
