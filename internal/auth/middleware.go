package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/logger"
)

type ctxKey string

const claimsKey ctxKey = "auth_claims"

// TokenFromRequest reads the bearer token from the Authorization header,
// falling back to the token query parameter used by WebSocket clients.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get(HeaderAuthorization); h != "" {
		if strings.HasPrefix(strings.ToLower(h), BearerPrefix) {
			return strings.TrimSpace(h[len(BearerPrefix):])
		}
	}
	return r.URL.Query().Get(QueryParamToken)
}

// WithClaims stores verified claims on the context
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims set by RequireRole
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// FailureRecorder is notified of rejected tokens (e.g. for abuse detection)
type FailureRecorder interface {
	RecordFailedAuth(ip string)
}

// RequireRole rejects requests without a valid token for one of roles.
// Missing or invalid tokens get 401, a valid token with another role gets 403.
func RequireRole(tokens *TokenIssuer, recorder FailureRecorder, roles ...domain.Role) func(http.Handler) http.Handler {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContext(r.Context())

			claims, err := tokens.Verify(TokenFromRequest(r))
			if err != nil {
				if recorder != nil {
					recorder.RecordFailedAuth(r.RemoteAddr)
				}
				log.Warn(LogMsgTokenRejected, "path", r.URL.Path, "error", err)
				msg := domain.ErrMsgUnauthorized
				if errors.Is(err, domain.ErrTokenExpired) {
					msg = domain.ErrMsgTokenExpired
				}
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			if !allowed[claims.Role] {
				log.Warn(LogMsgRoleForbidden, "path", r.URL.Path, "role", claims.Role)
				writeError(w, http.StatusForbidden, domain.ErrMsgForbidden)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
