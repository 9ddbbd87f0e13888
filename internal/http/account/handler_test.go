package account_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	httpaccount "github.com/MrJamesThe3rd/paisa/internal/http/account"
)

type fakeService struct {
	accounts    map[uuid.UUID]*account.Account
	createErr   error
	typeChanged bool
}

func (f *fakeService) List(context.Context) ([]*account.Account, error) {
	out := make([]*account.Account, 0, len(f.accounts))
	for _, a := range f.accounts {
		out = append(out, a)
	}

	return out, nil
}

func (f *fakeService) Create(_ context.Context, p account.CreateParams) (*account.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}

	return &account.Account{ID: uuid.New(), Name: p.Name, Type: p.Type, BankName: p.BankName, Last4: p.Last4}, nil
}

func (f *fakeService) Update(_ context.Context, id uuid.UUID, p account.UpdateParams) (*account.Account, bool, error) {
	acc, ok := f.accounts[id]
	if !ok {
		return nil, false, account.ErrNotFound
	}

	if p.Type != nil {
		acc.Type = *p.Type
	}

	return acc, f.typeChanged, nil
}

type fakeRecomputer struct {
	calls []uuid.UUID
}

func (f *fakeRecomputer) RecomputeForAccount(_ context.Context, id uuid.UUID) (int, error) {
	f.calls = append(f.calls, id)
	return 3, nil
}

func serve(svc *fakeService, rc *fakeRecomputer, method, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/accounts", httpaccount.NewHandler(svc, rc, zap.NewNop()).Routes)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Create(t *testing.T) {
	type args struct {
		body      string
		createErr error
	}

	type testCase struct {
		name       string
		args       args
		wantStatus int
	}

	tests := []testCase{
		{
			name:       "Created",
			args:       args{body: `{"name": "Regalia", "type": "credit_card", "bank_name": "HDFC Bank", "last4": "2568"}`},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "MissingLast4",
			args:       args{body: `{"bank_name": "HDFC Bank"}`},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "Duplicate",
			args: args{
				body:      `{"bank_name": "HDFC Bank", "last4": "2568"}`,
				createErr: account.ErrDuplicate,
			},
			wantStatus: http.StatusConflict,
		},
		{
			name: "InvalidType",
			args: args{
				body:      `{"bank_name": "HDFC Bank", "last4": "2568", "type": "loan"}`,
				createErr: fmt.Errorf("%w: type %q", account.ErrInvalid, "loan"),
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{createErr: tt.args.createErr}

			rec := serve(svc, &fakeRecomputer{}, http.MethodPost, "/accounts", tt.args.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_UpdateTypeChangeRecomputes(t *testing.T) {
	acc := &account.Account{ID: uuid.New(), Type: account.TypeUnknown, BankName: "HDFC Bank", Last4: "2568"}

	for _, changed := range []bool{true, false} {
		t.Run(fmt.Sprintf("changed=%v", changed), func(t *testing.T) {
			svc := &fakeService{accounts: map[uuid.UUID]*account.Account{acc.ID: acc}, typeChanged: changed}
			rc := &fakeRecomputer{}

			rec := serve(svc, rc, http.MethodPatch, "/accounts/"+acc.ID.String(), `{"type": "credit_card"}`)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Type account.Type `json:"type"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, account.TypeCreditCard, resp.Type)

			if changed {
				assert.Equal(t, []uuid.UUID{acc.ID}, rc.calls)
			} else {
				assert.Empty(t, rc.calls)
			}
		})
	}
}

func TestHandler_UpdateNotFound(t *testing.T) {
	svc := &fakeService{accounts: map[uuid.UUID]*account.Account{}}

	rec := serve(svc, &fakeRecomputer{}, http.MethodPatch, "/accounts/"+uuid.NewString(), `{"name": "x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
