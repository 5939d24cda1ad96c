// Package limiter provides token-bucket rate limiting for the auth
// endpoints, with in-memory and Redis-backed implementations.
package limiter

import (
	"context"
	"time"
)

// Result is the outcome of a limit check.
type Result struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int64         `json:"remaining"`
	RetryAfter time.Duration `json:"retry_after"`
}

// Limiter checks whether a keyed request may proceed.
type Limiter interface {
	// Allow checks whether one request for key may pass.
	Allow(ctx context.Context, key string) (*Result, error)

	// Reset clears the limit state for key.
	Reset(ctx context.Context, key string) error
}

// Config parameterizes a token bucket: Rate tokens are refilled per
// Window, and Burst bounds the bucket capacity.
type Config struct {
	Rate      int64
	Burst     int64
	Window    time.Duration
	KeyPrefix string
}
