package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// memoryCache is the in-process fallback used when Redis is not configured
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryService creates an in-process cache
func NewMemoryService() Service {
	return &memoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *memoryCache) IsAvailable() bool { return true }

func (c *memoryCache) Ping(context.Context) error { return nil }

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(e.data, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	var raw json.RawMessage
	err := c.Get(ctx, key, &raw)
	if err == ErrMiss {
		return false, nil
	}
	return err == nil, err
}

func (c *memoryCache) GetSession(ctx context.Context, sessionID string, dest interface{}) error {
	return c.Get(ctx, PrefixSession+sessionID, dest)
}

func (c *memoryCache) SetSession(ctx context.Context, sessionID string, data interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = TTLSession
	}
	return c.Set(ctx, PrefixSession+sessionID, data, ttl)
}

func (c *memoryCache) DeleteSession(ctx context.Context, sessionID string) error {
	return c.Delete(ctx, PrefixSession+sessionID)
}
