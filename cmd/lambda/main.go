package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/wolfman30/zentix-relay/cmd/mainconfig"
	"github.com/wolfman30/zentix-relay/internal/app/bootstrap"
	appconfig "github.com/wolfman30/zentix-relay/internal/config"
	"github.com/wolfman30/zentix-relay/internal/lambdaproxy"
	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

// Serves the same router as cmd/api behind API Gateway HTTP API events.
// /metrics is not mounted.
func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel).With("runtime", "lambda")

	relayMetrics := metrics.NewRelayMetrics(prometheus.NewRegistry())
	handler, cleanup, err := bootstrap.BuildHTTPHandler(context.Background(), cfg, mainconfig.Loader(cfg), nil, relayMetrics, logger)
	if err != nil {
		logger.Error("failed to build relay", "error", err)
		os.Exit(1)
	}

	// lambda.Start never returns; cleanup runs when the runtime sends SIGTERM.
	lambda.StartWithOptions(lambdaproxy.New(handler, logger).Handle, lambda.WithEnableSIGTERM(cleanup))
}
