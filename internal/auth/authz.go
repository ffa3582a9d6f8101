package auth

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/notable/internal/models"
)

// RequireRole returns a middleware that rejects requests whose principal
// doesn't carry the expected role. It is a pure predicate over the resolved
// principal and must compose after the identity middleware, never before.
func RequireRole(expected models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if principal.Role != expected {
				log.Warn().
					Str("role", string(principal.Role)).
					Str("required", string(expected)).
					Msg("Role check failed")
				respondError(w, http.StatusForbidden, "forbidden: insufficient role")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireTenant returns a middleware that rejects requests whose principal
// carries no tenant reference. Handlers behind it may rely on the principal's
// tenant ID being set, which every store operation then demands as a
// parameter.
func RequireTenant() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			if principal == nil {
				respondError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if principal.TenantID == uuid.Nil {
				log.Warn().Str("user_id", principal.UserID.String()).Msg("Principal has no tenant")
				respondError(w, http.StatusForbidden, "forbidden: no tenant context")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
