package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Token string `json:"token"`
}

func TestRedisCache_SessionRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewService(client, "olagu:")
	ctx := context.Background()

	require.NoError(t, c.SetSession(ctx, "sid", payload{Token: "abc"}, time.Minute))
	assert.True(t, mr.Exists("olagu:session:sid"))

	var got payload
	require.NoError(t, c.GetSession(ctx, "sid", &got))
	assert.Equal(t, "abc", got.Token)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.GetSession(ctx, "sid", &got), ErrMiss)
}

func TestRedisCache_DeleteIsIdempotent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewService(client, "")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", payload{Token: "x"}, 0))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "k"))

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_NilClient(t *testing.T) {
	c := NewService(nil, "")
	ctx := context.Background()

	assert.False(t, c.IsAvailable())
	assert.NoError(t, c.Set(ctx, "k", payload{}, time.Minute))
	var got payload
	assert.ErrorIs(t, c.Get(ctx, "k", &got), ErrMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &memoryCache{entries: make(map[string]memoryEntry), now: func() time.Time { return now }}
	ctx := context.Background()

	require.NoError(t, c.SetSession(ctx, "sid", payload{Token: "abc"}, time.Minute))

	var got payload
	require.NoError(t, c.GetSession(ctx, "sid", &got))
	assert.Equal(t, "abc", got.Token)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, c.GetSession(ctx, "sid", &got), ErrMiss)

	ok, err := c.Exists(ctx, PrefixSession+"sid")
	require.NoError(t, err)
	assert.False(t, ok)
}
