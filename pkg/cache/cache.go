package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTLs
const (
	TTLSession = 24 * time.Hour
	TTLDefault = 5 * time.Minute
)

// Key prefixes
const (
	PrefixSession = "session:"
)

// ErrMiss is returned when a key is absent or expired
var ErrMiss = errors.New("cache: miss")

// Service is a JSON value cache with session helpers
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Sessions
	GetSession(ctx context.Context, sessionID string, dest interface{}) error
	SetSession(ctx context.Context, sessionID string, data interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache
type redisCache struct {
	client *redis.Client
	prefix string
}

// NewService creates a Redis-backed cache; every key is namespaced with prefix
func NewService(client *redis.Client, prefix string) Service {
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return ErrMiss
	}

	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, nothing to store
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.client.Del(ctx, full...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, c.prefix+key).Result()
	return n > 0, err
}

// ========================================
// Sessions
// ========================================

func (c *redisCache) GetSession(ctx context.Context, sessionID string, dest interface{}) error {
	return c.Get(ctx, PrefixSession+sessionID, dest)
}

func (c *redisCache) SetSession(ctx context.Context, sessionID string, data interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLSession
	}
	return c.Set(ctx, PrefixSession+sessionID, data, ttl)
}

func (c *redisCache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.Delete(ctx, PrefixSession+sessionID)
}
