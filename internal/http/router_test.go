package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/MrJamesThe3rd/paisa/internal/auth"
	"github.com/MrJamesThe3rd/paisa/internal/category"
	apphttp "github.com/MrJamesThe3rd/paisa/internal/http"
	httpcategory "github.com/MrJamesThe3rd/paisa/internal/http/category"
	"github.com/MrJamesThe3rd/paisa/internal/http/miniapp"
	"github.com/MrJamesThe3rd/paisa/internal/observability"
)

const apiKey = "shortcut-key"

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.MinCost)
	require.NoError(t, err)

	key, err := auth.NewAPIKey(string(hash))
	require.NoError(t, err)

	tokens, err := auth.NewTokens("s3cret", time.Hour)
	require.NoError(t, err)

	taxonomy, err := category.NewTaxonomy(category.Defaults())
	require.NoError(t, err)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	metrics.IncrUnparsed()

	return apphttp.New(apphttp.Handlers{
		Categories: httpcategory.NewHandler(taxonomy, logger),
		MiniApp:    miniapp.NewHandler(nil, nil, logger),
	}, apphttp.Security{
		APIKey:      key,
		Tokens:      tokens,
		CORSOrigins: []string{"https://web.telegram.org"},
	}, metrics, logger)
}

func TestRouter_Auth(t *testing.T) {
	router := newRouter(t)

	type testCase struct {
		name       string
		path       string
		headers    map[string]string
		wantStatus int
	}

	tests := []testCase{
		{name: "HealthIsOpen", path: "/healthz", wantStatus: http.StatusOK},
		{name: "MetricsIsOpen", path: "/metrics", wantStatus: http.StatusOK},
		{name: "MissingKey", path: "/api/v1/categories", wantStatus: http.StatusBadRequest},
		{name: "WrongKey", path: "/api/v1/categories", headers: map[string]string{auth.APIKeyHeader: "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "ValidKey", path: "/api/v1/categories", headers: map[string]string{auth.APIKeyHeader: apiKey}, wantStatus: http.StatusOK},
		{name: "StatsNeedsKey", path: "/api/v1/stats", wantStatus: http.StatusBadRequest},
		{name: "Stats", path: "/api/v1/stats", headers: map[string]string{auth.APIKeyHeader: apiKey}, wantStatus: http.StatusOK},
		{name: "MiniAppIgnoresAPIKey", path: "/api/v1/miniapp/transaction", headers: map[string]string{auth.APIKeyHeader: apiKey}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRouter_MetricsExposesPrivateRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Contains(t, rec.Body.String(), "paisa_unparsed_messages_total 1")
}

func TestRouter_StatsSnapshot(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	req.Header.Set(auth.APIKeyHeader, apiKey)

	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), `"unparsed_total":1`)
}
