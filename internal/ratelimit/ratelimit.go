package ratelimit

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter is the rate limiting contract used by the HTTP layer.
type Limiter interface {
	// Allow reports whether one more request under key fits inside the
	// window's limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Remaining returns how many requests are left in the current window.
	Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error)

	// Reset clears the counter for a key.
	Reset(ctx context.Context, key string, window time.Duration) error
}

// RedisLimiter counts requests in fixed time-bucketed Redis keys, so
// the limit holds across every instance sharing the Redis. When
// failOpen is set, Redis outages let traffic through instead of
// rejecting it.
type RedisLimiter struct {
	client   *redis.Client
	log      *zap.Logger
	failOpen bool
}

func NewRedisLimiter(client *redis.Client, log *zap.Logger, failOpen bool) *RedisLimiter {
	return &RedisLimiter{client: client, log: log, failOpen: failOpen}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	bucketKey := bucketKey(key, time.Now(), window)

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, bucketKey)
	pipe.Expire(ctx, bucketKey, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		if l.failOpen {
			l.log.Warn("rate limit check failed, allowing request",
				zap.String("key", key), zap.Error(err))
			return true, nil
		}
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	count := incr.Val()
	if count > int64(limit) {
		l.log.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Int64("count", count),
			zap.Int("limit", limit),
		)
		return false, nil
	}
	return true, nil
}

func (l *RedisLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	count, err := l.client.Get(ctx, bucketKey(key, time.Now(), window)).Int64()
	if err != nil {
		if err == redis.Nil {
			return limit, nil
		}
		return 0, fmt.Errorf("failed to get remaining tokens: %w", err)
	}
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, key string, window time.Duration) error {
	now := time.Now()
	keys := []string{
		bucketKey(key, now, window),
		bucketKey(key, now.Add(-window), window),
	}
	if err := l.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit for key %s: %w", key, err)
	}
	return nil
}

// bucketKey pins a key to its fixed window so counters roll over
// naturally when the window elapses.
func bucketKey(key string, now time.Time, window time.Duration) string {
	bucket := now.UnixNano() / int64(window)
	return fmt.Sprintf("ratelimit:%s:%d", key, bucket)
}
