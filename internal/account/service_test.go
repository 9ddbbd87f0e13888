package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/account"
)

func TestService_Resolve(t *testing.T) {
	existingID := uuid.New()
	createdID := uuid.New()
	racedID := uuid.New()

	type args struct {
		bank  string
		last4 string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *account.MockRepository)
		wantID    *uuid.UUID
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "AmbiguousWithoutLast4",
			args: args{bank: "Federal Bank", last4: ""},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().FindByBankAndLast4(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantID: nil,
		},
		{
			name: "ExistingAccount",
			args: args{bank: "HDFC Bank", last4: "2568"},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					FindByBankAndLast4(gomock.Any(), "HDFC Bank", "2568").
					Return(&account.Account{ID: existingID, Type: account.TypeCreditCard}, nil)
			},
			wantID: &existingID,
		},
		{
			name: "CreatesPlaceholder",
			args: args{bank: "HDFC Bank", last4: "2568"},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					FindByBankAndLast4(gomock.Any(), "HDFC Bank", "2568").
					Return(nil, account.ErrNotFound)
				m.EXPECT().
					CreateAccount(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, acc *account.Account) error {
						assert.Equal(t, "New Account - HDFC Bank 2568", acc.Name)
						assert.Equal(t, account.TypeUnknown, acc.Type)
						assert.Equal(t, account.PurposePersonal, acc.Purpose)
						acc.ID = createdID

						return nil
					})
			},
			wantID: &createdID,
		},
		{
			name: "LosesCreateRace",
			args: args{bank: "SBI", last4: "4609"},
			setupMock: func(m *account.MockRepository) {
				gomock.InOrder(
					m.EXPECT().
						FindByBankAndLast4(gomock.Any(), "SBI", "4609").
						Return(nil, account.ErrNotFound),
					m.EXPECT().
						CreateAccount(gomock.Any(), gomock.Any()).
						Return(account.ErrDuplicate),
					m.EXPECT().
						FindByBankAndLast4(gomock.Any(), "SBI", "4609").
						Return(&account.Account{ID: racedID}, nil),
				)
			},
			wantID: &racedID,
		},
		{
			name: "LookupError",
			args: args{bank: "SBI", last4: "4609"},
			setupMock: func(m *account.MockRepository) {
				m.EXPECT().
					FindByBankAndLast4(gomock.Any(), "SBI", "4609").
					Return(nil, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := account.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := account.NewService(repo, zap.NewNop(), nil)
			got, err := svc.Resolve(context.Background(), tt.args.bank, tt.args.last4)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got)
		})
	}
}

func TestService_Create_Defaults(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := account.NewMockRepository(ctrl)
	repo.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).Return(nil)

	svc := account.NewService(repo, zap.NewNop(), nil)
	acc, err := svc.Create(context.Background(), account.CreateParams{BankName: "AMEX", Last4: "1004"})
	require.NoError(t, err)

	assert.Equal(t, account.TypeUnknown, acc.Type)
	assert.Equal(t, account.PurposePersonal, acc.Purpose)
	assert.Equal(t, "New Account - AMEX 1004", acc.Name)
}

func TestService_Create_InvalidType(t *testing.T) {
	ctrl := gomock.NewController(t)

	svc := account.NewService(account.NewMockRepository(ctrl), zap.NewNop(), nil)
	_, err := svc.Create(context.Background(), account.CreateParams{Type: "loan"})
	assert.Error(t, err)
}

func TestService_Update(t *testing.T) {
	id := uuid.New()

	type testCase struct {
		name            string
		params          account.UpdateParams
		wantTypeChanged bool
		wantErr         bool
	}

	tests := []testCase{
		{
			name:            "ClassifiesPlaceholder",
			params:          account.UpdateParams{Type: new(account.TypeCreditCard)},
			wantTypeChanged: true,
		},
		{
			name:            "RenameOnly",
			params:          account.UpdateParams{Name: new("HDFC Regalia")},
			wantTypeChanged: false,
		},
		{
			name:    "InvalidPurpose",
			params:  account.UpdateParams{Purpose: new(account.Purpose("shared"))},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := account.NewMockRepository(ctrl)
			repo.EXPECT().
				GetAccount(gomock.Any(), id).
				Return(&account.Account{ID: id, Type: account.TypeUnknown, Purpose: account.PurposePersonal}, nil)

			if !tt.wantErr {
				repo.EXPECT().UpdateAccount(gomock.Any(), gomock.Any()).Return(nil)
			}

			svc := account.NewService(repo, zap.NewNop(), nil)
			acc, changed, err := svc.Update(context.Background(), id, tt.params)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTypeChanged, changed)
			assert.Equal(t, id, acc.ID)
		})
	}
}
