package transaction_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/account"
	"github.com/MrJamesThe3rd/paisa/internal/category"
	httptx "github.com/MrJamesThe3rd/paisa/internal/http/transaction"
	"github.com/MrJamesThe3rd/paisa/internal/notify"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type fakeService struct {
	txs        map[uuid.UUID]*transaction.Transaction
	lastFilter transaction.ListFilter
	lastParams transaction.UpdateParams
	enrichErr  error
}

func (f *fakeService) Get(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok {
		return nil, transaction.ErrNotFound
	}

	return tx, nil
}

func (f *fakeService) List(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	f.lastFilter = filter

	out := make([]*transaction.Transaction, 0, len(f.txs))
	for _, tx := range f.txs {
		out = append(out, tx)
	}

	return out, nil
}

func (f *fakeService) Enrich(ctx context.Context, id uuid.UUID, params transaction.UpdateParams) (*transaction.Transaction, error) {
	f.lastParams = params

	if f.enrichErr != nil {
		return nil, f.enrichErr
	}

	tx, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	tx.Status = transaction.StatusProcessed

	return tx, nil
}

func (f *fakeService) Details(_ context.Context, tx *transaction.Transaction) (*transaction.Details, error) {
	return &transaction.Details{
		Transaction: tx,
		Account:     &account.Account{Name: "HDFC Regalia", Type: account.TypeCreditCard},
		Subcategory: &category.Subcategory{CategoryName: "Food", Name: "Dining"},
	}, nil
}

type fakeNotifier struct {
	ids   []uuid.UUID
	kinds []notify.Kind
}

func (f *fakeNotifier) Dispatch(id uuid.UUID, kind notify.Kind) {
	f.ids = append(f.ids, id)
	f.kinds = append(f.kinds, kind)
}

func newTx() *transaction.Transaction {
	return &transaction.Transaction{
		ID:         uuid.New(),
		UniqueHash: "abc",
		Amount:     decimal.RequireFromString("2475.94"),
		Currency:   "INR",
		Merchant:   "PARAGON",
		OccurredAt: time.Date(2025, 6, 7, 19, 56, 35, 0, time.UTC),
		Status:     transaction.StatusPendingCategorization,
	}
}

func newServer(svc *fakeService, n *fakeNotifier) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/transactions", httptx.NewHandler(svc, n, zap.NewNop()).Routes)

	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Get(t *testing.T) {
	tx := newTx()
	svc := &fakeService{txs: map[uuid.UUID]*transaction.Transaction{tx.ID: tx}}
	r := newServer(svc, nil)

	rec := do(r, http.MethodGet, "/transactions/"+tx.ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp httptx.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, tx.ID, resp.ID)
	assert.True(t, tx.Amount.Equal(resp.Amount))
	require.NotNil(t, resp.Subcategory)
	assert.Equal(t, "Food/Dining", resp.Subcategory.Path)
	require.NotNil(t, resp.Account)
	assert.Equal(t, "HDFC Regalia", resp.Account.Name)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/transactions/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/transactions/nope", "").Code)
}

func TestHandler_ListFilters(t *testing.T) {
	svc := &fakeService{txs: map[uuid.UUID]*transaction.Transaction{}}
	r := newServer(svc, nil)
	accountID := uuid.New()

	rec := do(r, http.MethodGet,
		"/transactions?status=processed&account_id="+accountID.String()+"&start_date=2025-06-01&end_date=bad", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	require.NotNil(t, svc.lastFilter.Status)
	assert.Equal(t, transaction.StatusProcessed, *svc.lastFilter.Status)
	assert.Equal(t, &accountID, svc.lastFilter.AccountID)
	require.NotNil(t, svc.lastFilter.StartDate)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *svc.lastFilter.StartDate)
	assert.Nil(t, svc.lastFilter.EndDate)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/transactions?status=done", "").Code)
}

func TestHandler_Update(t *testing.T) {
	tx := newTx()
	svc := &fakeService{txs: map[uuid.UUID]*transaction.Transaction{tx.ID: tx}}
	n := &fakeNotifier{}
	r := newServer(svc, n)

	rec := do(r, http.MethodPatch, "/transactions/"+tx.ID.String(), `{"description": "team lunch"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.lastParams.Description)
	assert.Equal(t, "team lunch", *svc.lastParams.Description)
	assert.Equal(t, []uuid.UUID{tx.ID}, n.ids)
	assert.Equal(t, []notify.Kind{notify.KindUpdated}, n.kinds)

	var resp httptx.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, transaction.StatusProcessed, resp.Status)
}

func TestHandler_UpdateErrors(t *testing.T) {
	tx := newTx()

	type testCase struct {
		name       string
		id         string
		body       string
		enrichErr  error
		wantStatus int
	}

	tests := []testCase{
		{name: "EmptyBody", id: tx.ID.String(), body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "UnknownField", id: tx.ID.String(), body: `{"amount": 1}`, wantStatus: http.StatusBadRequest},
		{name: "NotFound", id: uuid.NewString(), body: `{"description": "x"}`, wantStatus: http.StatusNotFound},
		{
			name:       "InvalidReference",
			id:         tx.ID.String(),
			body:       `{"subcategory_id": "` + uuid.NewString() + `"}`,
			enrichErr:  transaction.ErrInvalidReference,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{txs: map[uuid.UUID]*transaction.Transaction{tx.ID: tx}, enrichErr: tt.enrichErr}
			n := &fakeNotifier{}

			rec := do(newServer(svc, n), http.MethodPatch, "/transactions/"+tt.id, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Empty(t, n.ids)
		})
	}
}
