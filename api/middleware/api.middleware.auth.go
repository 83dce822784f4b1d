package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/sparxlab/sparx-hub/internal/errors"
)

// TokenMiddleware guards routes with a shared bearer token. This is the
// placeholder scheme the ingestion webhook ships with until real
// authentication is wired in front of the hub.
type TokenMiddleware struct {
	token string
}

func NewTokenMiddleware(token string) *TokenMiddleware {
	return &TokenMiddleware{token: token}
}

// Authenticate validates the bearer token. With no token configured the
// middleware is a pass-through.
func (m *TokenMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.token == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(m.token)) != 1 {
			handleError(w, errors.NewAuthError("invalid token", nil))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Helper functions

func extractToken(r *http.Request) string {
	bearerToken := r.Header.Get("Authorization")
	if len(strings.Split(bearerToken, " ")) == 2 {
		return strings.Split(bearerToken, " ")[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*errors.APIError); ok {
		http.Error(w, apiErr.Message, apiErr.Code)
		return
	}
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
