package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(t *testing.T, failOpen bool) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisLimiter(client, zap.NewNop(), failOpen), mr
}

func TestAllowWithinLimit(t *testing.T) {
	limiter, _ := newTestLimiter(t, false)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		allowed, err := limiter.Allow(ctx, "user:1", 5, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := limiter.Allow(ctx, "user:1", 5, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed, "sixth request should be rejected")
}

func TestAllowSeparateKeys(t *testing.T) {
	limiter, _ := newTestLimiter(t, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "user:1", 3, time.Minute)
		require.NoError(t, err)
	}

	// A different user still has a fresh budget.
	allowed, err := limiter.Allow(ctx, "user:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRemaining(t *testing.T) {
	limiter, _ := newTestLimiter(t, false)
	ctx := context.Background()

	remaining, err := limiter.Remaining(ctx, "user:1", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	_, err = limiter.Allow(ctx, "user:1", 5, time.Minute)
	require.NoError(t, err)

	remaining, err = limiter.Remaining(ctx, "user:1", 5, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestReset(t *testing.T) {
	limiter, _ := newTestLimiter(t, false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Allow(ctx, "user:1", 3, time.Minute)
		require.NoError(t, err)
	}
	allowed, err := limiter.Allow(ctx, "user:1", 3, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, limiter.Reset(ctx, "user:1", time.Minute))

	allowed, err = limiter.Allow(ctx, "user:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestFailOpen(t *testing.T) {
	limiter, mr := newTestLimiter(t, true)
	mr.Close()

	allowed, err := limiter.Allow(context.Background(), "user:1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed, "fail-open limiter must allow when redis is down")
}

func TestFailClosed(t *testing.T) {
	limiter, mr := newTestLimiter(t, false)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "user:1", 1, time.Minute)
	assert.Error(t, err)
}
