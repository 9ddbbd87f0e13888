package database_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/paisa/internal/database"
)

func TestIsUniqueViolation(t *testing.T) {
	type testCase struct {
		name string
		err  error
		want bool
	}

	tests := []testCase{
		{name: "Nil", err: nil, want: false},
		{name: "PlainError", err: errors.New("boom"), want: false},
		{name: "UniqueViolation", err: &pgconn.PgError{Code: "23505"}, want: true},
		{name: "WrappedUniqueViolation", err: fmt.Errorf("creating account: %w", &pgconn.PgError{Code: "23505"}), want: true},
		{name: "ForeignKeyViolation", err: &pgconn.PgError{Code: "23503"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.IsUniqueViolation(tt.err))
		})
	}
}
