package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/petshop/storefront/internal/resp"
)

// Timeout cancels the request context after d and writes a timeout
// response for handlers that overrun.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
		}), d, "")
	}
}

// HandleTimeout writes the unified timeout response when the request
// context has expired; handlers call it before starting slow work.
func HandleTimeout(w http.ResponseWriter, r *http.Request) bool {
	if err := r.Context().Err(); err == context.DeadlineExceeded || err == context.Canceled {
		reqID := RequestIDFromContext(r.Context())
		resp.Error(w, resp.HTTPStatusFromCode(resp.CodeTimeout), resp.CodeTimeout, "request timeout", reqID, "")
		return true
	}
	return false
}
