package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("account not found")
	ErrDuplicate = errors.New("account already exists for bank and last4")
	ErrInvalid   = errors.New("invalid account")
)

// Type classifies an account. TypeUnknown marks a placeholder nobody has reviewed yet.
type Type string

const (
	TypeSavingsAccount Type = "savings_account"
	TypeCreditCard     Type = "credit_card"
	TypeWallet         Type = "wallet"
	TypeUnknown        Type = "unknown"
)

func (t Type) Valid() bool {
	switch t {
	case TypeSavingsAccount, TypeCreditCard, TypeWallet, TypeUnknown:
		return true
	}

	return false
}

type Purpose string

const (
	PurposePersonal Purpose = "personal"
	PurposeBusiness Purpose = "business"
)

func (p Purpose) Valid() bool {
	return p == PurposePersonal || p == PurposeBusiness
}

// Account is a bank account, card or wallet identified by bank name and the last four digits.
type Account struct {
	ID        uuid.UUID
	Name      string
	Type      Type
	Purpose   Purpose
	BankName  string
	Last4     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Classified reports whether the account is usable for a processed transaction.
func (a *Account) Classified() bool {
	return a != nil && a.Type != TypeUnknown
}
