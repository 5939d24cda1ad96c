package limiter

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/petshop/storefront/internal/middleware"
	"github.com/petshop/storefront/internal/resp"
)

// Middleware rate-limits requests per client IP. Limiter failures fail
// open: a broken Redis must not take the login endpoint down with it.
func Middleware(l Limiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)

			result, err := l.Allow(r.Context(), key)
			if err != nil {
				logger.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
			if !result.Allowed {
				if result.RetryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", result.RetryAfter.Seconds()))
				}
				reqID := middleware.RequestIDFromContext(r.Context())
				resp.Error(w, http.StatusTooManyRequests, resp.CodeRateLimited, "too many requests", reqID, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller address, honoring X-Forwarded-For from a
// fronting proxy. Only the first hop is used: chained proxies append to
// the list, and keying on the whole header would split one client across
// as many buckets as it can invent.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
