package rules

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=repository_mock.go -package=rules
type Repository interface {
	FindMatch(ctx context.Context, merchant string) (*uuid.UUID, error)
	CreateMapping(ctx context.Context, mapping *Mapping) error
	ListMappings(ctx context.Context) ([]*Mapping, error)
}
