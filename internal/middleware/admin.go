package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/eashaop2023/admineashaop/internal/auth"
	"github.com/eashaop2023/admineashaop/internal/httpx"
	"github.com/eashaop2023/admineashaop/internal/models"
	"github.com/eashaop2023/admineashaop/internal/transport"
)

type adminKey struct{}

type RevocationChecker interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AdminAuth accepts a bearer JWT with the admin role that has not been revoked.
func AdminAuth(manager *auth.Manager, revoked RevocationChecker, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				transport.WriteError(w, http.StatusServiceUnavailable, "admin auth not configured", nil)
				return
			}

			token, err := httpx.BearerToken(r)
			if err != nil {
				transport.WriteError(w, http.StatusUnauthorized, "not authorized, no token", nil)
				return
			}

			claims, err := manager.Parse(token)
			if err != nil || claims.Role != models.RoleAdmin {
				transport.WriteError(w, http.StatusUnauthorized, "not authorized, token failed", nil)
				return
			}

			if revoked != nil {
				isRevoked, err := revoked.IsRevoked(r.Context(), token)
				if err != nil {
					log.Error("admin auth: blacklist lookup failed", slog.String("error", err.Error()))
					transport.WriteError(w, http.StatusInternalServerError, "server error", nil)
					return
				}
				if isRevoked {
					transport.WriteError(w, http.StatusUnauthorized, "token has been revoked", nil)
					return
				}
			}

			ctx := context.WithValue(r.Context(), adminKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(adminKey{}).(*auth.Claims)
	return claims, ok
}

// WithAdmin is used by tests and internal callers that already hold verified claims.
func WithAdmin(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, adminKey{}, claims)
}
