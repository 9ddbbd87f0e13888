package rules_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/category"
	httprules "github.com/MrJamesThe3rd/paisa/internal/http/rules"
	"github.com/MrJamesThe3rd/paisa/internal/rules"
)

type fakeService struct {
	learnErr error
	mappings []*rules.Mapping
}

func (f *fakeService) Learn(_ context.Context, pattern string, id uuid.UUID) (*rules.Mapping, error) {
	if f.learnErr != nil {
		return nil, f.learnErr
	}

	return &rules.Mapping{ID: uuid.New(), Pattern: pattern, SubcategoryID: id, CreatedAt: time.Now()}, nil
}

func (f *fakeService) List(context.Context) ([]*rules.Mapping, error) {
	return f.mappings, nil
}

func serve(svc *fakeService, method, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/rules", httprules.NewHandler(svc, zap.NewNop()).Routes)

	req := httptest.NewRequest(method, "/rules", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Learn(t *testing.T) {
	phone := category.SubcategoryID("Bill", "Phone").String()

	type testCase struct {
		name       string
		body       string
		learnErr   error
		wantStatus int
	}

	tests := []testCase{
		{name: "Created", body: `{"pattern": "airtel", "subcategory_id": "` + phone + `"}`, wantStatus: http.StatusCreated},
		{name: "MissingSubcategory", body: `{"pattern": "airtel"}`, wantStatus: http.StatusBadRequest},
		{name: "EmptyPattern", body: `{"pattern": "", "subcategory_id": "` + phone + `"}`, learnErr: rules.ErrEmptyPattern, wantStatus: http.StatusBadRequest},
		{name: "UnknownSubcategory", body: `{"pattern": "x", "subcategory_id": "` + uuid.NewString() + `"}`, learnErr: category.ErrUnknownSubcategory, wantStatus: http.StatusBadRequest},
		{name: "Duplicate", body: `{"pattern": "airtel", "subcategory_id": "` + phone + `"}`, learnErr: rules.ErrDuplicate, wantStatus: http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{learnErr: tt.learnErr}, http.MethodPost, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_List(t *testing.T) {
	id := uuid.MustParse("0b9a3c1e-7d2f-4e5a-9b8c-1d2e3f4a5b6c")
	sub := category.SubcategoryID("Bill", "Phone")
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	svc := &fakeService{mappings: []*rules.Mapping{{ID: id, Pattern: "airtel", SubcategoryID: sub, CreatedAt: created}}}

	rec := serve(svc, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id": "`+id.String()+`", "pattern": "airtel", "subcategory_id": "`+sub.String()+`", "created_at": "2025-06-01T10:00:00Z"}]`, rec.Body.String())
}
