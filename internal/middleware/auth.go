package middleware

import (
	"context"
	"net/http"

	"github.com/avishamehta/gatherly/backend/internal/auth"
)

// RequireAuth is middleware that resolves the bearer token to an account id
// and injects it into the request context as "account_id".
func RequireAuth(sessions *auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.BearerToken(r)
			if token == "" {
				http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
				return
			}

			accountID, err := sessions.Get(r.Context(), token)
			if err != nil || accountID == "" {
				http.Error(w, `{"error":"session expired"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), "account_id", accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
