package transaction

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=transaction
type Repository interface {
	FindByHash(ctx context.Context, hash string) (*Transaction, error)
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	SetChatMessageID(ctx context.Context, id uuid.UUID, messageID int64) error
}
