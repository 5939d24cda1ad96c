package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenBucket is a token bucket shared across instances via a Redis
// Lua script, so the refill-and-consume step stays atomic.
type RedisTokenBucket struct {
	client    redis.Cmdable
	cfg       Config
	keyPrefix string
}

// NewRedisTokenBucket creates a Redis-backed token bucket limiter.
func NewRedisTokenBucket(client redis.Cmdable, cfg Config) *RedisTokenBucket {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "limiter:tb"
	}
	return &RedisTokenBucket{client: client, cfg: cfg, keyPrefix: prefix}
}

const tokenBucketScript = `
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local now = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(state[1]) or capacity
local last_refill = tonumber(state[2]) or now

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + math.floor(elapsed * rate / window))

if tokens >= 1 then
    tokens = tokens - 1
    redis.call('HMSET', key, 'tokens', tokens, 'last_refill', now)
    redis.call('EXPIRE', key, window * 2)
    return {1, tokens, 0}
else
    redis.call('HMSET', key, 'tokens', tokens, 'last_refill', now)
    redis.call('EXPIRE', key, window * 2)
    local retry = math.ceil(window / rate)
    return {0, tokens, retry}
end
`

func (rb *RedisTokenBucket) key(key string) string {
	return fmt.Sprintf("%s:%s", rb.keyPrefix, key)
}

// Allow consumes one token for key when available.
func (rb *RedisTokenBucket) Allow(ctx context.Context, key string) (*Result, error) {
	res := rb.client.Eval(ctx, tokenBucketScript,
		[]string{rb.key(key)},
		rb.cfg.Burst,
		rb.cfg.Rate,
		int64(rb.cfg.Window.Seconds()),
		time.Now().Unix(),
	)
	if res.Err() != nil {
		return nil, fmt.Errorf("token bucket script: %w", res.Err())
	}

	values, ok := res.Val().([]interface{})
	if !ok || len(values) != 3 {
		return nil, fmt.Errorf("unexpected token bucket script result")
	}

	return &Result{
		Allowed:    values[0].(int64) == 1,
		Remaining:  values[1].(int64),
		RetryAfter: time.Duration(values[2].(int64)) * time.Second,
	}, nil
}

// Reset drops the bucket for key.
func (rb *RedisTokenBucket) Reset(ctx context.Context, key string) error {
	if err := rb.client.Del(ctx, rb.key(key)).Err(); err != nil {
		return fmt.Errorf("reset token bucket: %w", err)
	}
	return nil
}
