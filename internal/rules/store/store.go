package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/database"
	"github.com/MrJamesThe3rd/paisa/internal/rules"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, merchant string) (*uuid.UUID, error) {
	query := `
		SELECT subcategory_id
		FROM merchant_rules
		WHERE $1 ILIKE '%' || pattern || '%'
		ORDER BY LENGTH(pattern) DESC, created_at DESC
		LIMIT 1
	`

	var subID uuid.UUID

	err := s.db.QueryRowContext(ctx, query, merchant).Scan(&subID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return &subID, nil
}

func (s *Store) CreateMapping(ctx context.Context, m *rules.Mapping) error {
	query := `
		INSERT INTO merchant_rules (pattern, subcategory_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, m.Pattern, m.SubcategoryID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return rules.ErrDuplicate
		}

		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func (s *Store) ListMappings(ctx context.Context) ([]*rules.Mapping, error) {
	query := `
		SELECT id, pattern, subcategory_id, created_at
		FROM merchant_rules
		ORDER BY pattern
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	var mappings []*rules.Mapping

	for rows.Next() {
		var m rules.Mapping
		if err := rows.Scan(&m.ID, &m.Pattern, &m.SubcategoryID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}

		mappings = append(mappings, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}

	return mappings, nil
}
