package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

func TestService_Create(t *testing.T) {
	f := newFixture(t)

	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name       string
		args       args
		setupMock  func(m *transaction.MockRepository)
		wantStatus transaction.Status
		wantErr    error
	}

	tests := []testCase{
		{
			name: "PlaceholderAccountUncategorized",
			args: args{
				params: transaction.CreateParams{
					UniqueHash:    "abc",
					Amount:        decimal.RequireFromString("2475.94"),
					Merchant:      "PARAGON",
					OccurredAt:    time.Date(2025, 6, 7, 19, 56, 35, 0, time.UTC),
					AccountID:     &f.placeholder,
					SubcategoryID: f.uncategorized,
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, "INR", tx.Currency)
						tx.ID = uuid.New()

						return nil
					})
			},
			wantStatus: transaction.StatusPendingProcessing,
		},
		{
			name: "RuleCategorizedClassifiedAccount",
			args: args{
				params: transaction.CreateParams{
					UniqueHash:    "def",
					Currency:      "usd",
					AccountID:     &f.classified,
					SubcategoryID: f.snacks,
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, "USD", tx.Currency)
						return nil
					})
			},
			wantStatus: transaction.StatusProcessed,
		},
		{
			name: "Duplicate",
			args: args{
				params: transaction.CreateParams{UniqueHash: "abc", SubcategoryID: f.uncategorized},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(transaction.ErrDuplicate)
			},
			wantErr: transaction.ErrDuplicate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo, f.accounts, f.taxonomy)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestService_Enrich(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()

	stored := func() *transaction.Transaction {
		return &transaction.Transaction{
			ID:            id,
			UniqueHash:    "h",
			Description:   "Spent at PARAGON",
			AccountID:     &f.placeholder,
			SubcategoryID: f.snacks,
			Status:        transaction.StatusPendingAccountSelection,
		}
	}

	type testCase struct {
		name       string
		params     transaction.UpdateParams
		wantStatus transaction.Status
		verify     func(t *testing.T, tx *transaction.Transaction)
		wantErr    error
	}

	tests := []testCase{
		{
			name:       "AccountOnlyKeepsSubcategory",
			params:     transaction.UpdateParams{AccountID: &f.classified},
			wantStatus: transaction.StatusProcessed,
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, f.snacks, tx.SubcategoryID)
				assert.Equal(t, "Spent at PARAGON", tx.Description)
			},
		},
		{
			name: "DescriptionAndReimbursable",
			params: transaction.UpdateParams{
				Description:          new("Dinner with client"),
				OverrideReimbursable: new(true),
			},
			wantStatus: transaction.StatusPendingAccountSelection,
			verify: func(t *testing.T, tx *transaction.Transaction) {
				assert.Equal(t, "Dinner with client", tx.Description)
				require.NotNil(t, tx.OverrideReimbursable)
				assert.True(t, *tx.OverrideReimbursable)
			},
		},
		{
			name:    "UnknownSubcategory",
			params:  transaction.UpdateParams{SubcategoryID: new(uuid.New())},
			wantErr: transaction.ErrInvalidReference,
		},
		{
			name:    "UnknownAccount",
			params:  transaction.UpdateParams{AccountID: new(uuid.New())},
			wantErr: transaction.ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := transaction.NewMockRepository(ctrl)
			repo.EXPECT().GetTransaction(gomock.Any(), id).Return(stored(), nil)

			if tt.wantErr == nil {
				repo.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			}

			svc := transaction.NewService(repo, f.accounts, f.taxonomy)
			got, err := svc.Enrich(context.Background(), id, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestService_Enrich_NotFound(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)

	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().FindByHash(gomock.Any(), "missing").Return(nil, transaction.ErrNotFound)

	svc := transaction.NewService(repo, f.accounts, f.taxonomy)
	_, err := svc.EnrichByHash(context.Background(), "missing", transaction.UpdateParams{})
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_RecomputeForAccount(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)

	repo := transaction.NewMockRepository(ctrl)

	stale := &transaction.Transaction{
		ID: uuid.New(), AccountID: &f.classified, SubcategoryID: f.snacks,
		Status: transaction.StatusPendingAccountSelection,
	}
	current := &transaction.Transaction{
		ID: uuid.New(), AccountID: &f.classified, SubcategoryID: f.uncategorized,
		Status: transaction.StatusPendingCategorization,
	}

	repo.EXPECT().
		ListTransactions(gomock.Any(), transaction.ListFilter{AccountID: &f.classified}).
		Return([]*transaction.Transaction{stale, current}, nil)
	repo.EXPECT().
		UpdateTransaction(gomock.Any(), stale).
		Return(nil)

	svc := transaction.NewService(repo, f.accounts, f.taxonomy)
	n, err := svc.RecomputeForAccount(context.Background(), f.classified)
	require.NoError(t, err)

	assert.Equal(t, 1, n)
	assert.Equal(t, transaction.StatusProcessed, stale.Status)
}

func TestService_Details(t *testing.T) {
	f := newFixture(t)
	ctrl := gomock.NewController(t)

	svc := transaction.NewService(transaction.NewMockRepository(ctrl), f.accounts, f.taxonomy)

	d, err := svc.Details(context.Background(), &transaction.Transaction{
		AccountID:     &f.classified,
		SubcategoryID: f.snacks,
	})
	require.NoError(t, err)

	require.NotNil(t, d.Account)
	require.NotNil(t, d.Subcategory)
	assert.Equal(t, "Food & Drinks/Snacks", d.Subcategory.Path())

	f.accounts.err = errors.New("timeout")
	_, err = svc.Details(context.Background(), &transaction.Transaction{AccountID: &f.classified})
	assert.Error(t, err)
}
