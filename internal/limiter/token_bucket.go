package limiter

import (
	"context"
	"math"
	"sync"
	"time"
)

// TokenBucket is an in-process token bucket limiter. One bucket per key,
// refilled continuously at Rate tokens per Window up to Burst capacity.
type TokenBucket struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewTokenBucket creates an in-memory token bucket limiter.
func NewTokenBucket(cfg Config) *TokenBucket {
	return &TokenBucket{
		cfg:     cfg,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// Allow consumes one token for key when available.
func (tb *TokenBucket) Allow(ctx context.Context, key string) (*Result, error) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(tb.cfg.Burst), lastRefill: now}
		tb.buckets[key] = b
	}

	// Refill proportionally to elapsed time.
	elapsed := now.Sub(b.lastRefill)
	if elapsed > 0 {
		refill := elapsed.Seconds() * float64(tb.cfg.Rate) / tb.cfg.Window.Seconds()
		b.tokens = math.Min(float64(tb.cfg.Burst), b.tokens+refill)
		b.lastRefill = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return &Result{Allowed: true, Remaining: int64(b.tokens)}, nil
	}

	needed := 1 - b.tokens
	retry := time.Duration(needed * tb.cfg.Window.Seconds() / float64(tb.cfg.Rate) * float64(time.Second))
	return &Result{Allowed: false, Remaining: 0, RetryAfter: retry}, nil
}

// Reset drops the bucket for key.
func (tb *TokenBucket) Reset(ctx context.Context, key string) error {
	tb.mu.Lock()
	delete(tb.buckets, key)
	tb.mu.Unlock()
	return nil
}
