package bootstrap

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/zentix-relay/internal/api/router"
	"github.com/wolfman30/zentix-relay/internal/chat"
	appconfig "github.com/wolfman30/zentix-relay/internal/config"
	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// BuildHTTPHandler wires the full relay router. Both the long-running server
// and the Lambda entrypoint serve this handler. Call cleanup on shutdown.
func BuildHTTPHandler(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, metricsHandler http.Handler, m *metrics.RelayMetrics, logger *logging.Logger) (http.Handler, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}

	llmClient, closeLLM, err := BuildLLMClient(ctx, cfg, loadAWS, m, logger)
	if err != nil {
		return nil, nil, err
	}

	chatService := BuildChatService(cfg, llmClient, m, logger)
	leadsHandler := BuildLeadsHandler(ctx, cfg, loadAWS, m, logger)

	var redisClient *redis.Client
	if cfg.RateLimitRPS > 0 {
		redisClient = BuildRedisClient(ctx, cfg, logger, true)
	}
	rateLimit := BuildRateLimit(cfg, redisClient, m, logger)

	routerCfg := &router.Config{
		Logger:             logger,
		ChatHandler:        chat.NewHandler(chatService, logger),
		LeadsHandler:       leadsHandler,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	if rateLimit != nil {
		routerCfg.RateLimit = rateLimit.Middleware
	}

	cleanup := func() {
		rateLimit.Close()
		closeLLM()
	}
	return router.New(routerCfg), cleanup, nil
}
