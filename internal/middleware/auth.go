package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/domain"
	"github.com/petshop/storefront/internal/resp"
	"github.com/petshop/storefront/internal/token"
)

// Auth validates the HTTP-only session cookie and injects the user into
// the request context. Requests without a valid cookie are rejected.
func Auth(tokens token.Service, cookieName string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := RequestIDFromContext(r.Context())

			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				resp.Error(w, http.StatusUnauthorized, resp.CodeUnauthorized, "authentication required", reqID, "")
				return
			}

			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				logger.Warn("session cookie rejected", zap.String("request_id", reqID), zap.Error(err))
				msg := "invalid session"
				if err == token.ErrTokenExpired {
					msg = "session expired"
				}
				resp.Error(w, http.StatusUnauthorized, resp.CodeUnauthorized, msg, reqID, "")
				return
			}

			user := &domain.User{
				ID:   claims.UserID,
				Name: claims.Name,
				Role: claims.Role,
			}
			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth injects the user when a valid session cookie is present and
// lets the request through anonymously otherwise. Used by the catalog
// listing, where the role only selects pricing.
func OptionalAuth(tokens token.Service, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := tokens.Verify(cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			user := &domain.User{ID: claims.UserID, Name: claims.Name, Role: claims.Role}
			ctx := context.WithValue(r.Context(), contextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects users lacking the given role. Must run after Auth.
func RequireRole(required domain.UserRole, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := RequestIDFromContext(r.Context())
			user := UserFromContext(r.Context())

			if user == nil {
				logger.Error("user not found in context", zap.String("request_id", reqID))
				resp.Error(w, http.StatusUnauthorized, resp.CodeUnauthorized, "authentication required", reqID, "")
				return
			}
			if user.Role != required {
				logger.Warn("insufficient permissions",
					zap.String("request_id", reqID),
					zap.Int64("user_id", user.ID),
					zap.String("user_role", string(user.Role)),
					zap.String("required_role", string(required)),
				)
				resp.Error(w, http.StatusForbidden, resp.CodeUnauthorized, "insufficient permissions", reqID, "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is the RequireRole convenience for the admin role.
func RequireAdmin(logger *zap.Logger) func(http.Handler) http.Handler {
	return RequireRole(domain.UserRoleAdmin, logger)
}

// UserFromContext reads the authenticated user from the context, or nil.
func UserFromContext(ctx context.Context) *domain.User {
	if user, ok := ctx.Value(contextKeyUser).(*domain.User); ok {
		return user
	}
	return nil
}
