package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
)

// RequestID guarantees every request carries an ID: the incoming
// X-Request-ID header when present, a fresh UUID otherwise. The ID is
// echoed on the response and stored in the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if strings.TrimSpace(rid) == "" {
			rid = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), rid)))
	})
}
