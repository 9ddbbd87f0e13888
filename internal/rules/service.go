package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/category"
)

type Service struct {
	repo     Repository
	taxonomy *category.Taxonomy
}

func NewService(repo Repository, taxonomy *category.Taxonomy) *Service {
	return &Service{repo: repo, taxonomy: taxonomy}
}

// Learn remembers that merchants containing pattern belong to subcategoryID.
func (s *Service) Learn(ctx context.Context, pattern string, subcategoryID uuid.UUID) (*Mapping, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	if _, ok := s.taxonomy.Subcategory(subcategoryID); !ok {
		return nil, fmt.Errorf("%w: %s", category.ErrUnknownSubcategory, subcategoryID)
	}

	m := &Mapping{Pattern: pattern, SubcategoryID: subcategoryID}
	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]*Mapping, error) {
	return s.repo.ListMappings(ctx)
}
