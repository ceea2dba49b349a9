package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "aurum/pkg/domain"
	"aurum/pkg/requestcontext"
)

// TokenValidator validates a bearer credential and returns the identity it
// carries.
type TokenValidator interface {
	ValidateToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims is the identity triple every request resolves to.
type TokenClaims struct {
	TenantID id.TenantID
	UserID   id.UserID
	Role     id.Role
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":%q,"error_description":%q}`, errCode, errDesc))
}

// RequireAuth resolves the bearer token to (tenant, user, role) and injects
// it into the request context. Every route behind it is implicitly
// tenant-scoped.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			if claims.TenantID.IsZero() || claims.UserID.IsZero() {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Credential missing identity")
				return
			}

			ctx := requestcontext.WithIdentity(r.Context(), claims.TenantID, claims.UserID, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards administrative reads such as the audit trail.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requestcontext.Role(r.Context()).IsAdmin() {
			writeJSONError(w, http.StatusForbidden, "forbidden", "Admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
