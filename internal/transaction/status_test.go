package transaction_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/category"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

// fakeAccounts serves accounts from a map; ids not in the map are not found.
type fakeAccounts struct {
	accounts map[uuid.UUID]*account.Account
	err      error
}

func (f *fakeAccounts) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	if f.err != nil {
		return nil, f.err
	}

	acc, ok := f.accounts[id]
	if !ok {
		return nil, account.ErrNotFound
	}

	return acc, nil
}

type fixture struct {
	taxonomy      *category.Taxonomy
	accounts      *fakeAccounts
	classified    uuid.UUID
	placeholder   uuid.UUID
	uncategorized uuid.UUID
	snacks        uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tax, err := category.NewTaxonomy(category.Defaults())
	require.NoError(t, err)

	snacks, err := tax.Lookup("Food & Drinks/Snacks")
	require.NoError(t, err)

	f := &fixture{
		taxonomy:      tax,
		classified:    uuid.New(),
		placeholder:   uuid.New(),
		uncategorized: tax.Uncategorized().ID,
		snacks:        snacks.ID,
	}

	f.accounts = &fakeAccounts{accounts: map[uuid.UUID]*account.Account{
		f.classified:  {ID: f.classified, Type: account.TypeCreditCard},
		f.placeholder: {ID: f.placeholder, Type: account.TypeUnknown},
	}}

	return f
}

func TestDeriveStatus(t *testing.T) {
	type testCase struct {
		accountValid          bool
		subcategoryMeaningful bool
		want                  transaction.Status
	}

	tests := []testCase{
		{false, false, transaction.StatusPendingProcessing},
		{false, true, transaction.StatusPendingAccountSelection},
		{true, false, transaction.StatusPendingCategorization},
		{true, true, transaction.StatusProcessed},
	}

	for _, tt := range tests {
		got := transaction.DeriveStatus(tt.accountValid, tt.subcategoryMeaningful)
		assert.Equal(t, tt.want, got, "account=%v subcategory=%v", tt.accountValid, tt.subcategoryMeaningful)
		assert.True(t, got.Valid())
	}
}

func TestStatusManager_Initial(t *testing.T) {
	f := newFixture(t)
	missing := uuid.New()

	type args struct {
		accountID     *uuid.UUID
		subcategoryID uuid.UUID
	}

	type testCase struct {
		name string
		args args
		want transaction.Status
	}

	tests := []testCase{
		{name: "NoAccountUncategorized", args: args{nil, f.uncategorized}, want: transaction.StatusPendingProcessing},
		{name: "PlaceholderAccount", args: args{&f.placeholder, f.uncategorized}, want: transaction.StatusPendingProcessing},
		{name: "PlaceholderAccountCategorized", args: args{&f.placeholder, f.snacks}, want: transaction.StatusPendingAccountSelection},
		{name: "MissingAccount", args: args{&missing, f.snacks}, want: transaction.StatusPendingAccountSelection},
		{name: "ClassifiedUncategorized", args: args{&f.classified, f.uncategorized}, want: transaction.StatusPendingCategorization},
		{name: "UnknownSubcategory", args: args{&f.classified, uuid.New()}, want: transaction.StatusPendingCategorization},
		{name: "Processed", args: args{&f.classified, f.snacks}, want: transaction.StatusProcessed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := transaction.NewStatusManager(f.accounts, f.taxonomy)

			got, err := m.Initial(context.Background(), tt.args.accountID, tt.args.subcategoryID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusManager_Initial_LookupError(t *testing.T) {
	f := newFixture(t)
	f.accounts.err = errors.New("connection refused")

	m := transaction.NewStatusManager(f.accounts, f.taxonomy)

	_, err := m.Initial(context.Background(), &f.classified, f.snacks)
	assert.Error(t, err)
}

func TestStatusManager_ForUpdate_MergesAbsentFields(t *testing.T) {
	f := newFixture(t)
	m := transaction.NewStatusManager(f.accounts, f.taxonomy)

	existing := &transaction.Transaction{
		AccountID:     &f.placeholder,
		SubcategoryID: f.snacks,
		Status:        transaction.StatusPendingAccountSelection,
	}

	type testCase struct {
		name   string
		params transaction.UpdateParams
		want   transaction.Status
	}

	tests := []testCase{
		{
			name:   "OnlyAccountKeepsSubcategory",
			params: transaction.UpdateParams{AccountID: &f.classified},
			want:   transaction.StatusProcessed,
		},
		{
			name:   "OnlySubcategoryKeepsAccount",
			params: transaction.UpdateParams{SubcategoryID: &f.uncategorized},
			want:   transaction.StatusPendingProcessing,
		},
		{
			name:   "NothingChanges",
			params: transaction.UpdateParams{Description: new("team lunch")},
			want:   transaction.StatusPendingAccountSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ForUpdate(context.Background(), existing, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
