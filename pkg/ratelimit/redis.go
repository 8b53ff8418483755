package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRateLimiter implements RateLimiter using Redis as storage
type RedisRateLimiter struct {
	redis *redis.Client
	// prefix for redis keys to avoid collisions
	keyPrefix string
}

// NewRedisRateLimiter creates a new RedisRateLimiter
func NewRedisRateLimiter(redis *redis.Client, keyPrefix string) *RedisRateLimiter {
	return &RedisRateLimiter{
		redis:     redis,
		keyPrefix: keyPrefix,
	}
}

// formatKey formats the rate limit key with prefix
func (l *RedisRateLimiter) formatKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", l.keyPrefix, key)
}

// Allow implements RateLimiter.Allow with a sliding window kept in a sorted
// set. Redis failures let the request through.
func (l *RedisRateLimiter) Allow(ctx context.Context, key string, limit Rate) (bool, RateLimitInfo) {
	now := time.Now()
	windowKey := l.formatKey(key)

	pipe := l.redis.Pipeline()
	windowStart := now.Add(-limit.Window).UnixNano()
	pipe.ZRemRangeByScore(ctx, windowKey, "0", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, windowKey)
	pipe.ZAdd(ctx, windowKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, windowKey, limit.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		logrus.WithError(err).WithField("key", key).Error("rate limit check failed, allowing request")
		return true, RateLimitInfo{
			Limit:     limit.Requests,
			Remaining: 0,
			Reset:     now.Add(limit.Window),
		}
	}

	return Decide(limit, int(count.Val()), now)
}

// Reset implements RateLimiter.Reset
func (l *RedisRateLimiter) Reset(ctx context.Context, key string) error {
	return l.redis.Del(ctx, l.formatKey(key)).Err()
}

// Decide turns the number of requests already seen in the window into a
// verdict for one more request.
func Decide(limit Rate, seen int, now time.Time) (bool, RateLimitInfo) {
	remaining := limit.Requests - seen - 1
	allowed := remaining >= 0
	if remaining < 0 {
		remaining = 0
	}
	return allowed, RateLimitInfo{
		Limit:     limit.Requests,
		Remaining: remaining,
		Reset:     now.Add(limit.Window),
	}
}
