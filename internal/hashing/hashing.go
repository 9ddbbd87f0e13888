// Package hashing derives the content key that deduplicates transactions.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	timestampLayout = "2006-01-02T15:04:05"
	unknownBank     = "unknown bank"
	noMerchant      = "none"
	defaultCurrency = "INR"
)

// Input is everything that identifies one real-world spend.
type Input struct {
	OccurredAt time.Time
	Amount     decimal.NullDecimal
	AccountID  *uuid.UUID
	BankName   string
	Merchant   string
	Currency   string
}

// Canonical renders the input as "timestamp|amount|identifier|merchant|currency".
// The identifier is the account id when known, else the lowercased bank name.
// It returns false when the timestamp or amount is missing.
func Canonical(in Input) (string, bool) {
	if in.OccurredAt.IsZero() || !in.Amount.Valid {
		return "", false
	}

	identifier := unknownBank

	switch {
	case in.AccountID != nil:
		identifier = in.AccountID.String()
	case strings.TrimSpace(in.BankName) != "":
		identifier = strings.ToLower(strings.TrimSpace(in.BankName))
	}

	merchant := strings.ToLower(strings.TrimSpace(in.Merchant))
	if merchant == "" {
		merchant = noMerchant
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	return strings.Join([]string{
		in.OccurredAt.Format(timestampLayout),
		in.Amount.Decimal.StringFixed(2),
		identifier,
		merchant,
		currency,
	}, "|"), true
}

// Generate returns the 64-character hex SHA-256 of the canonical form.
func Generate(in Input) (string, bool) {
	canonical, ok := Canonical(in)
	if !ok {
		return "", false
	}

	sum := sha256.Sum256([]byte(canonical))

	return hex.EncodeToString(sum[:]), true
}
