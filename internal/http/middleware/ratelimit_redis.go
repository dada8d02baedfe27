package middleware

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared by every relay instance.
// Each key may make limit requests per window.
type RedisLimiter struct {
	client redis.Cmdable
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter derives a per-second window from the token bucket settings
// so both backends admit roughly the same traffic.
func NewRedisLimiter(client redis.Cmdable, rate float64, burst int) *RedisLimiter {
	limit := int64(math.Ceil(rate))
	if int64(burst) > limit {
		limit = int64(burst)
	}
	if limit < 1 {
		limit = 1
	}
	return &RedisLimiter{
		client: client,
		prefix: "zentix:ratelimit",
		limit:  limit,
		window: time.Second,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	slot := l.now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, 2*l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit: redis: %w", err)
	}
	return incr.Val() <= l.limit, nil
}
