package hashing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/paisa/internal/hashing"
)

func amount(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func baseInput() hashing.Input {
	return hashing.Input{
		OccurredAt: time.Date(2025, 6, 7, 19, 56, 35, 0, time.UTC),
		Amount:     amount("2475.94"),
		BankName:   "HDFC Bank",
		Merchant:   "PARAGON",
		Currency:   "INR",
	}
}

func TestCanonical(t *testing.T) {
	accountID := uuid.MustParse("3f1c2b9a-4d5e-4f60-8a7b-9c0d1e2f3a4b")

	type testCase struct {
		name   string
		mutate func(in *hashing.Input)
		want   string
	}

	tests := []testCase{
		{
			name:   "BankNameIdentifier",
			mutate: func(*hashing.Input) {},
			want:   "2025-06-07T19:56:35|2475.94|hdfc bank|paragon|INR",
		},
		{
			name:   "AccountIdentifierWins",
			mutate: func(in *hashing.Input) { in.AccountID = &accountID },
			want:   "2025-06-07T19:56:35|2475.94|3f1c2b9a-4d5e-4f60-8a7b-9c0d1e2f3a4b|paragon|INR",
		},
		{
			name: "UnknownBankNoMerchant",
			mutate: func(in *hashing.Input) {
				in.BankName = " "
				in.Merchant = ""
			},
			want: "2025-06-07T19:56:35|2475.94|unknown bank|none|INR",
		},
		{
			name: "AmountPaddedCurrencyDefaulted",
			mutate: func(in *hashing.Input) {
				in.Amount = amount("500")
				in.Currency = ""
				in.Merchant = "  Chai Point "
			},
			want: "2025-06-07T19:56:35|500.00|hdfc bank|chai point|INR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)

			got, ok := hashing.Canonical(in)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, ok := hashing.Generate(baseInput())
	require.True(t, ok)

	b, ok := hashing.Generate(baseInput())
	require.True(t, ok)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.Regexp(t, "^[0-9a-f]{64}$", a)
}

func TestGenerate_NormalizesCaseAndSpace(t *testing.T) {
	a, _ := hashing.Generate(baseInput())

	in := baseInput()
	in.Merchant = "  paragon  "
	in.BankName = "hdfc bank"
	in.Currency = "inr"

	b, _ := hashing.Generate(in)
	assert.Equal(t, a, b)
}

func TestGenerate_SensitiveToEveryComponent(t *testing.T) {
	base, _ := hashing.Generate(baseInput())

	mutations := map[string]func(in *hashing.Input){
		"Second":   func(in *hashing.Input) { in.OccurredAt = in.OccurredAt.Add(time.Second) },
		"Paisa":    func(in *hashing.Input) { in.Amount = amount("2475.95") },
		"Bank":     func(in *hashing.Input) { in.BankName = "ICICI Bank" },
		"Account":  func(in *hashing.Input) { in.AccountID = new(uuid.New()) },
		"Merchant": func(in *hashing.Input) { in.Merchant = "PARAGON 2" },
		"Currency": func(in *hashing.Input) { in.Currency = "USD" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			in := baseInput()
			mutate(&in)

			got, ok := hashing.Generate(in)
			require.True(t, ok)
			assert.NotEqual(t, base, got)
		})
	}
}

func TestGenerate_MissingFields(t *testing.T) {
	noTime := baseInput()
	noTime.OccurredAt = time.Time{}

	_, ok := hashing.Generate(noTime)
	assert.False(t, ok)

	noAmount := baseInput()
	noAmount.Amount = decimal.NullDecimal{}

	_, ok = hashing.Generate(noAmount)
	assert.False(t, ok)
}
