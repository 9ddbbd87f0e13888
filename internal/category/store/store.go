package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/category"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Seed inserts the given categories and subcategories, leaving existing rows untouched.
func (s *Store) Seed(ctx context.Context, categories []*category.Category) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning seed: %w", err)
	}
	defer dbTx.Rollback()

	for _, c := range categories {
		if _, err := dbTx.ExecContext(ctx,
			`INSERT INTO categories (id, name) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			c.ID, c.Name,
		); err != nil {
			return fmt.Errorf("seeding category %q: %w", c.Name, err)
		}

		for _, sub := range c.Subcategories {
			if _, err := dbTx.ExecContext(ctx, `
				INSERT INTO subcategories (id, category_id, name, is_reimbursable, exclude_from_budget)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT DO NOTHING`,
				sub.ID, c.ID, sub.Name, sub.IsReimbursable, sub.ExcludeFromBudget,
			); err != nil {
				return fmt.Errorf("seeding subcategory %q: %w", sub.Path(), err)
			}
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	return nil
}

// ListCategories returns the full tree ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*category.Category, error) {
	query := `
		SELECT c.id, c.name, sc.id, sc.name, sc.is_reimbursable, sc.exclude_from_budget
		FROM categories c
		LEFT JOIN subcategories sc ON sc.category_id = c.id
		ORDER BY c.name, sc.name
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category

	byID := make(map[uuid.UUID]*category.Category)

	for rows.Next() {
		var (
			catID             uuid.UUID
			catName           string
			subID             uuid.NullUUID
			subName           sql.NullString
			reimbursable      sql.NullBool
			excludeFromBudget sql.NullBool
		)

		if err := rows.Scan(&catID, &catName, &subID, &subName, &reimbursable, &excludeFromBudget); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		c, ok := byID[catID]
		if !ok {
			c = &category.Category{ID: catID, Name: catName}
			byID[catID] = c
			categories = append(categories, c)
		}

		if !subID.Valid {
			continue
		}

		c.Subcategories = append(c.Subcategories, &category.Subcategory{
			ID:                subID.UUID,
			CategoryID:        catID,
			CategoryName:      catName,
			Name:              subName.String,
			IsReimbursable:    reimbursable.Bool,
			ExcludeFromBudget: excludeFromBudget.Bool,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating categories: %w", err)
	}

	return categories, nil
}

// LoadTaxonomy seeds the defaults and reads back the whole tree.
func (s *Store) LoadTaxonomy(ctx context.Context) (*category.Taxonomy, error) {
	if err := s.Seed(ctx, category.Defaults()); err != nil {
		return nil, err
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	return category.NewTaxonomy(categories)
}
