package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/notable/internal/models"
)

type contextKey int

const principalContextKey contextKey = iota

// PrincipalFromContext extracts the authenticated principal from the request
// context. Returns nil if no principal is present (unauthenticated request).
func PrincipalFromContext(ctx context.Context) *models.Principal {
	principal, _ := ctx.Value(principalContextKey).(*models.Principal)
	return principal
}

// WithPrincipal returns a context carrying the given principal. Used by the
// middleware and by tests that exercise handlers directly.
func WithPrincipal(ctx context.Context, principal *models.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// Middleware returns an HTTP middleware that resolves the request's identity
// from its bearer token. Any failure is terminal for the request and is
// reported uniformly as 401; the underlying cause is only logged.
func (t *Tokens) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractBearerToken(r)
			if tokenStr == "" {
				log.Warn().Msg("Missing or malformed Authorization header")
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			principal, err := t.Verify(tokenStr)
			if err != nil {
				log.Warn().Err(err).Msg("Token verification failed")
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from the Authorization header.
// Returns "" unless the header follows the "Bearer <token>" shape.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}

// respondError writes the JSON error body used by the auth middlewares. It
// mirrors the handlers' error shape without importing them.
func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
