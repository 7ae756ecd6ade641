package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contentflow/internal/config"
	"contentflow/internal/infra/fetcher"
	"contentflow/internal/infra/github"
	"contentflow/internal/infra/llm"
	"contentflow/internal/infra/webhook"
	"contentflow/internal/observability/logging"
	"contentflow/internal/observability/tracing"
	"contentflow/internal/usecase/content"
	"contentflow/internal/usecase/importer"
	"contentflow/internal/usecase/publish"
	"contentflow/internal/usecase/workflow"

	hhttp "contentflow/internal/handler/http"
	hcontent "contentflow/internal/handler/http/content"
	hposts "contentflow/internal/handler/http/posts"
	"contentflow/internal/handler/http/requestid"
	hworkflow "contentflow/internal/handler/http/workflow"
)

func main() {
	cfg, err := config.LoadFromEnv(".env")
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := initLogger(cfg)
	shutdownTracing := tracing.Setup()
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error("failed to shut down tracer provider", slog.Any("error", err))
		}
	}()

	components, err := setupServer(logger, cfg)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(logger, cfg, components)
}

// initLogger builds the process logger from the configuration and installs it
// as the slog default.
func initLogger(cfg *config.AppConfig) *slog.Logger {
	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		// Validate already checked the level, so this only guards the format.
		slog.Error("invalid logging configuration", slog.Any("error", err))
		os.Exit(1)
	}
	slog.SetDefault(logger)
	return logger
}

// ServerComponents holds the handler chain and the parts runServer reports on.
type ServerComponents struct {
	Handler   http.Handler
	Completer llm.Completer
	Endpoint  string
}

// setupServer builds the clients, services and routes.
func setupServer(logger *slog.Logger, cfg *config.AppConfig) (*ServerComponents, error) {
	completer, err := llm.New(cfg.LLM)
	if err != nil {
		return nil, err
	}
	if !completer.Configured() {
		logger.Warn("LLM API key not configured; generation requests will fail",
			slog.String("provider", completer.Name()))
	}

	hook := webhook.NewClient(cfg.Webhook)
	repo := github.NewClient(cfg.Repository)

	contentSvc := content.NewService(completer)
	workflowSvc := &workflow.Service{Dispatcher: hook, Generator: contentSvc}
	publishSvc := publish.NewService(repo)
	importSvc := &importer.Service{Fetcher: fetcher.NewReadabilityFetcher(cfg.Fetch)}

	// 生成系エンドポイントのみレート制限
	var limit func(http.Handler) http.Handler
	if cfg.API.GenerateRateLimit > 0 {
		limiter := hhttp.NewRateLimiter(cfg.API.GenerateRateLimit, cfg.API.GenerateBurst)
		limit = limiter.Limit
		logger.Info("generation rate limit enabled",
			slog.Int("per_minute", cfg.API.GenerateRateLimit),
			slog.Int("burst", cfg.API.GenerateBurst))
	} else {
		logger.Warn("generation rate limit is DISABLED")
	}

	deps := dependencies(cfg, completer)

	mux := http.NewServeMux()
	hcontent.Register(mux, contentSvc, importSvc, limit)
	hworkflow.Register(mux, workflowSvc, limit)
	hposts.Register(mux, publishSvc)

	mux.Handle("GET /health", &hhttp.HealthHandler{Version: cfg.Version, Dependencies: deps})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{Dependencies: deps})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	endpoint := hook.Endpoint()
	return &ServerComponents{
		Handler:   applyMiddleware(logger, cfg, mux),
		Completer: completer,
		Endpoint:  endpoint,
	}, nil
}

// dependencies lists the integrations reported by /health and /ready. Only
// the language model is required; without the repository or the automation
// server the remaining operations still work.
func dependencies(cfg *config.AppConfig, completer llm.Completer) []hhttp.Dependency {
	return []hhttp.Dependency{
		{
			Name:     "llm",
			Required: true,
			Check: func(context.Context) error {
				if !completer.Configured() {
					return errors.New("API key not configured")
				}
				return nil
			},
		},
		{
			Name: "repository",
			Check: func(context.Context) error {
				return cfg.Repository.Validate()
			},
		},
		{
			Name: "workflow",
			Check: func(context.Context) error {
				_, err := cfg.Webhook.ResolveEndpoint()
				return err
			},
		},
	}
}

// applyMiddleware wraps the mux with the middleware chain.
// Order (outermost first): Request ID → Tracing → Recovery → Logging →
// Timeout → Body Limit → Input Validation → Metrics → mux
func applyMiddleware(logger *slog.Logger, cfg *config.AppConfig, mux http.Handler) http.Handler {
	chain := mux

	// Apply in reverse order (innermost to outermost)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.LimitRequestBody(cfg.API.MaxBodySize)(chain)
	chain = hhttp.Timeout(cfg.API.RequestTimeout)(chain)
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, cfg *config.AppConfig, components *ServerComponents) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// WriteTimeout leaves room for the request timeout to answer 504 itself.
	writeTimeout := time.Duration(0)
	if cfg.API.RequestTimeout > 0 {
		writeTimeout = cfg.API.RequestTimeout + 10*time.Second
	}

	srv := &http.Server{
		Addr:              cfg.API.Addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		WriteTimeout:      writeTimeout,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.API.Addr),
			slog.String("version", cfg.Version),
			slog.String("mode", cfg.Mode),
			slog.String("llm_provider", components.Completer.Name()),
			slog.String("workflow_endpoint", logging.RedactURL(components.Endpoint)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	// Generation can run long, so in-flight requests get the request timeout
	// to finish, bounded below by 5s.
	grace := 5 * time.Second
	if cfg.API.RequestTimeout > grace {
		grace = cfg.API.RequestTimeout
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), grace)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
