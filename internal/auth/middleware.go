package auth

import (
	"context"
	"net/http"
	"strings"
)

const APIKeyHeader = "X-API-Key"

type ctxKey struct{}

// RequireAPIKey rejects requests without a matching X-API-Key header.
func RequireAPIKey(key *APIKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if got == "" {
				http.Error(w, APIKeyHeader+" header missing", http.StatusBadRequest)
				return
			}

			if !key.Check(got) {
				http.Error(w, "invalid API key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireToken accepts "Authorization: Bearer <token>" and stores the granted
// transaction hash in the request context.
func RequireToken(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "could not validate credentials", http.StatusUnauthorized)
				return
			}

			hash, err := tokens.Verify(strings.TrimSpace(raw))
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "could not validate credentials", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, hash)))
		})
	}
}

// TxnHash returns the hash stored by RequireToken.
func TxnHash(ctx context.Context) (string, bool) {
	hash, ok := ctx.Value(ctxKey{}).(string)
	return hash, ok
}
