// Package ratelimit guards write endpoints with a Redis-backed limiter.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// Limiter reports whether a key is within its request budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, limit, remaining int64, reset time.Time, err error)
}

// RedisLimiter adapts a ulule limiter to the Limiter interface.
type RedisLimiter struct {
	inner *limiter.Limiter
}

// NewRedisLimiter builds a limiter allowing max requests per window.
func NewRedisLimiter(client *redis.Client, max int64, window time.Duration, prefix string) (*RedisLimiter, error) {
	store, err := limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: prefix,
	})
	if err != nil {
		return nil, err
	}
	rate := limiter.Rate{Period: window, Limit: max}
	return &RedisLimiter{inner: limiter.New(store, rate)}, nil
}

// Allow consumes one token for key.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, int64, int64, time.Time, error) {
	res, err := l.inner.Get(ctx, key)
	if err != nil {
		return false, 0, 0, time.Time{}, err
	}
	return !res.Reached, res.Limit, res.Remaining, time.Unix(res.Reset, 0), nil
}
