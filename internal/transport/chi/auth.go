package chi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// TokenVerifier resolves an admin session token to the admin identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type adminKey struct{}

// AdminFromContext returns the admin identity set by BearerAuthMiddleware.
func AdminFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminKey{}).(string)
	return v, ok
}

// BearerAuthMiddleware returns a middleware that validates admin session tokens.
// A nil verifier rejects every request: without an admin there are no mutations.
func BearerAuthMiddleware(v TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "admin access is disabled")
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized,
					"authorization header must use Bearer scheme")
				return
			}

			admin, err := v.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("Admin token rejected", zap.Error(err))
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), adminKey{}, admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(bearerPrefix):])
	return token, token != ""
}
