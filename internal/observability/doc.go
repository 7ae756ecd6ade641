// Package observability groups the logging, metrics and tracing support of
// contentflow.
//
// Subpackages:
//   - logging: slog construction, request-scoped loggers and URL redaction
//   - metrics: Prometheus collectors for HTTP traffic and the content pipeline
//   - tracing: OpenTelemetry provider setup, HTTP middleware and span helpers
//
// Example usage:
//
//	import (
//	    "contentflow/internal/observability/logging"
//	    "contentflow/internal/observability/tracing"
//	)
//
//	func main() {
//	    logger, _ := logging.New(logging.Config{Level: "info", Format: "json"}, os.Stdout)
//	    shutdown := tracing.Setup()
//	    defer shutdown(context.Background())
//	    logger.Info("application started")
//	}
package observability
