package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/zentix-relay/cmd/mainconfig"
	"github.com/wolfman30/zentix-relay/internal/app/bootstrap"
	appconfig "github.com/wolfman30/zentix-relay/internal/config"
	"github.com/wolfman30/zentix-relay/internal/observability/metrics"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

func main() {
	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting zentix relay API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
	)

	ctx := context.Background()
	metricsHandler, relayMetrics := setupMetrics()
	loadAWS := mainconfig.Loader(cfg)

	r, cleanup, err := bootstrap.BuildHTTPHandler(ctx, cfg, loadAWS, metricsHandler, relayMetrics, logger)
	if err != nil {
		logger.Error("failed to build relay", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	// Create HTTP server. The write timeout covers a full retry cycle.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.CompletionTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics registers relay and runtime collectors on a private registry.
func setupMetrics() (http.Handler, *metrics.RelayMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewRelayMetrics(reg)
}
