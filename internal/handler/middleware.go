package handler

import (
	"context"
	"net/http"

	"github.com/koverin/shopstore/internal/domain"
	"github.com/koverin/shopstore/internal/service"
)

type contextKey string

const accountContextKey contextKey = "account"

// AccountFromContext extracts the authenticated account from the request
// context. Returns nil if no account is authenticated.
func AccountFromContext(ctx context.Context) *domain.Account {
	account, _ := ctx.Value(accountContextKey).(*domain.Account)
	return account
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the auth_token cookie, validates the JWT, loads the account, and
// injects it into the request context. Returns 401 for unauthenticated
// requests.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := authenticateRequest(r, auth)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated.")
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SecurityHeaders adds standard hardening headers to every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func authenticateRequest(r *http.Request, auth *service.AuthService) (*domain.Account, error) {
	cookie, err := r.Cookie("auth_token")
	if err != nil {
		return nil, err
	}

	accountID, err := auth.ValidateToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	account, err := auth.GetAccountByID(r.Context(), accountID)
	if err != nil {
		return nil, err
	}

	return account, nil
}
