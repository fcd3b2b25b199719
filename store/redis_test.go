package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbxark/dialogctl/types"
)

func newLiveRedisCache(t *testing.T) *RedisCache[*types.State] {
	addr := os.Getenv("DIALOGCTL_REDIS_ADDR")
	if addr == "" {
		t.Skip("set DIALOGCTL_REDIS_ADDR to run live Redis tests")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache[*types.State](client, time.Minute)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache := newLiveRedisCache(t)
	ctx := context.Background()
	key := "dialogctl:test:" + t.Name()
	t.Cleanup(func() { _ = cache.Del(ctx, key) })

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	state := types.NewState()
	state.Answers["headache"] = types.Answer{ChoiceID: "often"}
	require.NoError(t, cache.Set(ctx, key, state))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, state, got)

	require.NoError(t, cache.Del(ctx, key))
	exists, err := cache.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
