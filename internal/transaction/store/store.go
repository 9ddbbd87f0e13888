package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/paisa/internal/database"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	id, unique_hash, raw_text, amount, currency, merchant, description, channel, bank_name, occurred_at,
	account_id, subcategory_id, status, linked_transaction_hash, override_reimbursable, chat_message_id,
	created_at, updated_at
`

// scanTransaction expects the column order of selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var (
		statusStr     string
		accountID     uuid.NullUUID
		linkedHash    sql.NullString
		overrideReimb sql.NullBool
		chatMessageID sql.NullInt64
	)

	if err := s.Scan(
		&tx.ID, &tx.UniqueHash, &tx.RawText, &tx.Amount, &tx.Currency, &tx.Merchant, &tx.Description,
		&tx.Channel, &tx.BankName, &tx.OccurredAt,
		&accountID, &tx.SubcategoryID, &statusStr, &linkedHash, &overrideReimb, &chatMessageID,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Status = transaction.Status(statusStr)

	if accountID.Valid {
		tx.AccountID = &accountID.UUID
	}

	if linkedHash.Valid {
		tx.LinkedTransactionHash = &linkedHash.String
	}

	if overrideReimb.Valid {
		tx.OverrideReimbursable = &overrideReimb.Bool
	}

	if chatMessageID.Valid {
		tx.ChatMessageID = &chatMessageID.Int64
	}

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			unique_hash, raw_text, amount, currency, merchant, description, channel, bank_name, occurred_at,
			account_id, subcategory_id, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.UniqueHash,
		tx.RawText,
		tx.Amount,
		tx.Currency,
		tx.Merchant,
		tx.Description,
		tx.Channel,
		tx.BankName,
		tx.OccurredAt,
		tx.AccountID,
		tx.SubcategoryID,
		tx.Status,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return transaction.ErrDuplicate
		}

		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) FindByHash(ctx context.Context, hash string) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE unique_hash = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("finding transaction by hash: %w", err)
	}

	return tx, nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.AccountID != nil {
		query += fmt.Sprintf(" AND account_id = $%d", argIdx)

		args = append(args, *filter.AccountID)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND occurred_at >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND occurred_at <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY occurred_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}

	return txs, nil
}

// UpdateTransaction writes the enrichable columns. Parsed fields and the hash are immutable.
func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	query := `
		UPDATE transactions
		SET description = $1, account_id = $2, subcategory_id = $3, status = $4,
			linked_transaction_hash = $5, override_reimbursable = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Description,
		tx.AccountID,
		tx.SubcategoryID,
		tx.Status,
		tx.LinkedTransactionHash,
		tx.OverrideReimbursable,
		tx.ID,
	).Scan(&tx.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transaction.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) SetChatMessageID(ctx context.Context, id uuid.UUID, messageID int64) error {
	query := `UPDATE transactions SET chat_message_id = $1 WHERE id = $2`

	if _, err := s.db.ExecContext(ctx, query, messageID, id); err != nil {
		return fmt.Errorf("setting chat message id: %w", err)
	}

	return nil
}
