package bootstrap

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/zentix-relay/internal/config"
	httpmiddleware "github.com/wolfman30/zentix-relay/internal/http/middleware"
	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// RateLimit bundles the /api middleware with the resources it holds.
type RateLimit struct {
	Middleware func(http.Handler) http.Handler
	Backend    string
	close      func()
}

// Close releases the limiter's janitor goroutine or Redis connection.
func (r *RateLimit) Close() {
	if r != nil && r.close != nil {
		r.close()
	}
}

// BuildRateLimit picks the Redis limiter when redisClient is non-nil so limits
// hold across instances; otherwise each instance keeps its own buckets.
// A non-positive RATE_LIMIT_RPS disables limiting, closes redisClient and
// returns nil.
func BuildRateLimit(cfg *appconfig.Config, redisClient *redis.Client, m *metrics.RelayMetrics, logger *logging.Logger) *RateLimit {
	if cfg == nil || cfg.RateLimitRPS <= 0 {
		if redisClient != nil {
			_ = redisClient.Close()
		}
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}

	if redisClient != nil {
		limiter := httpmiddleware.NewRedisLimiter(redisClient, cfg.RateLimitRPS, cfg.RateLimitBurst)
		logger.Info("rate limiting enabled", "backend", "redis", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
		return &RateLimit{
			Middleware: httpmiddleware.RateLimit(limiter, "redis", m, logger),
			Backend:    "redis",
			close:      func() { _ = redisClient.Close() },
		}
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	logger.Info("rate limiting enabled", "backend", "memory", "rps", cfg.RateLimitRPS, "burst", cfg.RateLimitBurst)
	return &RateLimit{
		Middleware: httpmiddleware.RateLimit(limiter, "memory", m, logger),
		Backend:    "memory",
		close:      limiter.Close,
	}
}
