package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"
)

type contextKey string

const adminSubjectKey contextKey = "adminSubject"

// SetAdminSubject returns a context carrying the authenticated admin subject.
func SetAdminSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, adminSubjectKey, subject)
}

// AdminSubjectFromContext returns the authenticated admin subject, if present.
func AdminSubjectFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(adminSubjectKey).(string)
	return sub, ok
}

// RequireAdmin returns a wrapper that validates the Bearer token and requires the admin role.
// Missing or invalid tokens get 401; valid tokens without the admin role get 403.
func RequireAdmin(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, msg := bearerToken(r)
			if msg != "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
				return
			}
			subject, role, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected", "path", r.URL.Path, "err", err)
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if role != domain.RoleAdmin {
				logger.WarnContext(r.Context(), "non-admin token on admin route", "subject", subject, "role", role, "path", r.URL.Path)
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "admin role required")
				return
			}
			next(w, r.WithContext(SetAdminSubject(r.Context(), subject)))
		}
	}
}

// bearerToken extracts the token from the Authorization header. msg is non-empty on failure.
func bearerToken(r *http.Request) (token, msg string) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", "invalid authorization format"
	}
	token = strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return "", "missing token"
	}
	return token, ""
}
