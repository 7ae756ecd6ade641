// Package main runs the relay that forwards webhook calls from the public
// side to the automation server.
// Usage: contentflow-relay (configured through RELAY_* environment variables)
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentflow/internal/config"
	"contentflow/internal/infra/relay"
	"contentflow/internal/observability/logging"
	"contentflow/internal/observability/tracing"

	hhttp "contentflow/internal/handler/http"
	"contentflow/internal/handler/http/requestid"
)

func main() {
	cfg, err := config.LoadFromEnv(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		slog.Error("invalid logging configuration", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(logger)

	// The relay is useless without an upstream, so it is checked here rather
	// than per request.
	if err := cfg.Relay.Validate(); err != nil {
		logger.Error("invalid relay configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Setup()
	defer func() { _ = shutdownTracing(context.Background()) }()

	srv := &http.Server{
		Addr:              cfg.Relay.Addr,
		Handler:           newHandler(logger, cfg.Relay.Config),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("relay starting",
			slog.String("addr", cfg.Relay.Addr),
			slog.String("prefix", cfg.Relay.Prefix),
			slog.String("upstream", logging.RedactURL(cfg.Relay.UpstreamURL)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("relay failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down relay...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Relay.Timeout+time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("relay shutdown failed", slog.Any("error", err))
	}
	logger.Info("relay stopped")
}

// newHandler mounts the relay and a liveness probe behind the request
// logging chain.
func newHandler(logger *slog.Logger, cfg relay.Config) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	mux.Handle("/", relay.NewHandler(cfg))

	var chain http.Handler = mux
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	return chain
}
