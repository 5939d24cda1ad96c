package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces every storefront key so a shared Redis instance can
// host other applications.
const keyPrefix = "storefront:"

// RedisStore is a Store backed by Redis, for deployments where several
// storefront instances should share catalog and session state.
type RedisStore struct {
	client redis.Cmdable
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,

		PoolSize:     10,
		MinIdleConns: 5,
		MaxIdleConns: 10,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: 512 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrNotFound
		}
		return fmt.Errorf("get %s: %w", key, err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (r *RedisStore) Set(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	// No Redis-side expiration: staleness is judged by the catalog cache
	// against the snapshot timestamp, not by key eviction.
	if err := r.client.Set(ctx, keyPrefix+key, raw, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear keys: %w", err)
	}
	return nil
}

// Client exposes the underlying connection for components that share the
// Redis instance, like the rate limiter.
func (r *RedisStore) Client() redis.Cmdable {
	return r.client
}

// Close releases the underlying client when it owns its connections.
func (r *RedisStore) Close() error {
	if c, ok := r.client.(*redis.Client); ok {
		return c.Close()
	}
	return nil
}
