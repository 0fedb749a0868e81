package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterIncrements(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "rl:/auth/signin:1.2.3.4", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	n, err := c.Get(ctx, "rl:/auth/signin:1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestMemoryCounterKeysAreIndependent(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	_, err := c.Incr(ctx, "rl:/auth/signin:1.2.3.4", time.Minute)
	require.NoError(t, err)

	n, err := c.Incr(ctx, "rl:/auth/signin:5.6.7.8", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestMemoryCounterWindowReset(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	_, err := c.Incr(ctx, "k", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	n, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, int64(0), n, "an expired window reads as zero")

	n, err = c.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), n, "the first increment after expiry starts a fresh window")
}

func TestMemoryCounterGetMissingKey(t *testing.T) {
	c := NewMemoryCounter()

	n, err := c.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}

func newTestRedisCounter(t *testing.T) (*RedisCounter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCounter(client), mr
}

func TestRedisCounterIncrements(t *testing.T) {
	c, _ := newTestRedisCounter(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		n, err := c.Incr(ctx, "rl:/auth/signin:1.2.3.4", time.Minute)
		require.NoError(t, err)
		require.Equal(t, want, n)
	}

	n, err := c.Get(ctx, "rl:/auth/signin:1.2.3.4")
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
}

func TestRedisCounterFirstIncrementArmsExpiry(t *testing.T) {
	c, mr := newTestRedisCounter(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	before := mr.TTL("k")
	require.Greater(t, before, time.Duration(0))

	// later increments in the same window must not push the expiry out
	mr.FastForward(30 * time.Second)
	_, err = c.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.LessOrEqual(t, mr.TTL("k"), 30*time.Second)
}

func TestRedisCounterWindowReset(t *testing.T) {
	c, mr := newTestRedisCounter(t)
	ctx := context.Background()

	_, err := c.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	n, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, int64(0), n)

	n, err = c.Incr(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestRedisCounterGetMissingKey(t *testing.T) {
	c, _ := newTestRedisCounter(t)

	n, err := c.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	require.Equal(t, int64(0), n)
}
