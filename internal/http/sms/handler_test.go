package sms_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/http/sms"
	"github.com/MrJamesThe3rd/paisa/internal/ingest"
	"github.com/MrJamesThe3rd/paisa/internal/transaction"
)

type fakeIngester struct {
	got    string
	source string
	result *ingest.Result
	err    error
}

func (f *fakeIngester) Ingest(_ context.Context, raw, source string) (*ingest.Result, error) {
	f.got = raw
	f.source = source

	return f.result, f.err
}

func serve(t *testing.T, ing *fakeIngester, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()

	r := chi.NewRouter()
	r.Route("/sms", sms.NewHandler(ing, zap.NewNop()).Routes)

	req := httptest.NewRequest(http.MethodPost, "/sms", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestReceive(t *testing.T) {
	created := &transaction.Transaction{
		ID:     uuid.New(),
		Amount: decimal.RequireFromString("2475.94"),
		Status: transaction.StatusPendingCategorization,
	}

	type args struct {
		contentType string
		body        string
		result      *ingest.Result
		err         error
	}

	type testCase struct {
		name        string
		args        args
		wantStatus  int
		wantOutcome ingest.Outcome
		wantRaw     string
	}

	tests := []testCase{
		{
			name: "CreatedFromJSON",
			args: args{
				contentType: "application/json",
				body:        `{"sms_content": "Spent Rs.1 On HDFC Bank Card 2568"}`,
				result:      &ingest.Result{Outcome: ingest.OutcomeCreated, Parser: "hdfc_card", Transaction: created},
			},
			wantStatus:  http.StatusCreated,
			wantOutcome: ingest.OutcomeCreated,
			wantRaw:     "Spent Rs.1 On HDFC Bank Card 2568",
		},
		{
			name: "DuplicateFromPlainText",
			args: args{
				contentType: "text/plain; charset=utf-8",
				body:        "Spent Rs.1\nOn HDFC Bank Card 2568",
				result:      &ingest.Result{Outcome: ingest.OutcomeDuplicate, Transaction: created},
			},
			wantStatus:  http.StatusOK,
			wantOutcome: ingest.OutcomeDuplicate,
			wantRaw:     "Spent Rs.1\nOn HDFC Bank Card 2568",
		},
		{
			name: "RejectedOutcome",
			args: args{
				contentType: "application/json",
				body:        `{"sms_content": "Rs.500 credited to your account"}`,
				result:      &ingest.Result{Outcome: ingest.OutcomeCreditRejected},
			},
			wantStatus:  http.StatusUnprocessableEntity,
			wantOutcome: ingest.OutcomeCreditRejected,
			wantRaw:     "Rs.500 credited to your account",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ing := &fakeIngester{result: tt.args.result, err: tt.args.err}

			rec := serve(t, ing, tt.args.contentType, tt.args.body)
			require.Equal(t, tt.wantStatus, rec.Code)

			var resp struct {
				Outcome     ingest.Outcome `json:"outcome"`
				Transaction *struct {
					ID uuid.UUID `json:"id"`
				} `json:"transaction"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

			assert.Equal(t, tt.wantOutcome, resp.Outcome)
			assert.Equal(t, tt.wantRaw, ing.got)
			assert.Equal(t, "api", ing.source)

			if tt.args.result.Transaction != nil {
				require.NotNil(t, resp.Transaction)
				assert.Equal(t, created.ID, resp.Transaction.ID)
			}
		})
	}
}

func TestReceive_BadRequests(t *testing.T) {
	bodies := map[string]string{
		"Empty":        `{"sms_content": "  "}`,
		"Malformed":    `{"sms_content":`,
		"UnknownField": `{"text": "hi"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, &fakeIngester{}, "application/json", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestReceive_StoreError(t *testing.T) {
	rec := serve(t, &fakeIngester{err: errors.New("db down")}, "application/json", `{"sms_content": "Spent Rs.1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
