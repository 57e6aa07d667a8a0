package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

type contextKey string

const (
	accountIDKey contextKey = "accountID"
	roleKey      contextKey = "role"
)

// SetAccountID returns a context with the account ID set. Used by auth middleware.
func SetAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountIDFromContext returns the authenticated account ID from the context, if present.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}

// SetRole returns a context carrying the caller's effective role.
func SetRole(ctx context.Context, role domain.RoleName) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// RoleFromContext returns the effective role resolved by RequireRole, if any.
func RoleFromContext(ctx context.Context) (domain.RoleName, bool) {
	role, ok := ctx.Value(roleKey).(domain.RoleName)
	return role, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the account ID in the request context.
// If the token is missing or invalid, it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			accountID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			next(w, r.WithContext(SetAccountID(r.Context(), accountID)))
		}
	}
}

// RoleResolver resolves an account's effective role from the store.
type RoleResolver interface {
	EffectiveRole(ctx context.Context, accountID string) (domain.RoleName, error)
}

// RequireRole returns a wrapper that lets the request through only when the caller's
// effective role is one of allowed. The role is resolved on every request; the token's
// role claim is not trusted. It must run after RequireAuth.
func RequireRole(resolver RoleResolver, logger *slog.Logger, allowed ...domain.RoleName) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			accountID, ok := AccountIDFromContext(r.Context())
			if !ok {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
				return
			}
			role, err := resolver.EffectiveRole(r.Context(), accountID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "account no longer exists")
					return
				}
				logger.ErrorContext(r.Context(), "resolve role", "account_id", accountID, "err", err)
				h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
				return
			}
			if len(allowed) > 0 && !slices.Contains(allowed, role) {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "requires role "+joinRoles(allowed))
				return
			}
			next(w, r.WithContext(SetRole(r.Context(), role)))
		}
	}
}

func joinRoles(roles []domain.RoleName) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}
