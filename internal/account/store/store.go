package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/database"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectAccountColumns = `id, name, type, purpose, bank_name, last4, created_at, updated_at`

func scanAccount(s scanner) (*account.Account, error) {
	var acc account.Account

	var typeStr, purposeStr string

	if err := s.Scan(
		&acc.ID, &acc.Name, &typeStr, &purposeStr, &acc.BankName, &acc.Last4, &acc.CreatedAt, &acc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	acc.Type = account.Type(typeStr)
	acc.Purpose = account.Purpose(purposeStr)

	return &acc, nil
}

func (s *Store) FindByBankAndLast4(ctx context.Context, bankName, last4 string) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE bank_name = $1 AND last4 = $2`

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, bankName, last4))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("finding account: %w", err)
	}

	return acc, nil
}

func (s *Store) CreateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (name, type, purpose, bank_name, last4, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		acc.Name,
		acc.Type,
		acc.Purpose,
		acc.BankName,
		acc.Last4,
	).Scan(&acc.ID, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return account.ErrDuplicate
		}

		return fmt.Errorf("creating account: %w", err)
	}

	return nil
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, fmt.Errorf("getting account: %w", err)
	}

	return acc, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	query := `SELECT ` + selectAccountColumns + ` FROM accounts ORDER BY bank_name, last4`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account

	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}

		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating accounts: %w", err)
	}

	return accounts, nil
}

func (s *Store) UpdateAccount(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, type = $2, purpose = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query, acc.Name, acc.Type, acc.Purpose, acc.ID).Scan(&acc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.ErrNotFound
		}

		return fmt.Errorf("updating account: %w", err)
	}

	return nil
}
