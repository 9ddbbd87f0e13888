package account

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=account
type Repository interface {
	FindByBankAndLast4(ctx context.Context, bankName, last4 string) (*Account, error)
	CreateAccount(ctx context.Context, acc *Account) error
	GetAccount(ctx context.Context, id uuid.UUID) (*Account, error)
	ListAccounts(ctx context.Context) ([]*Account, error)
	UpdateAccount(ctx context.Context, acc *Account) error
}
