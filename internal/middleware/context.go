// Package middleware provides the HTTP middleware chain: request ID,
// recovery, timeout, CORS, access logging and session auth.
package middleware

import (
	"context"
)

// contextKey scopes context values to this package.
type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyUser      contextKey = "user"
)

// withRequestID stores the request ID in the context.
func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, id)
}

// RequestIDFromContext reads the request ID from the context (may be "").
func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(contextKeyRequestID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
