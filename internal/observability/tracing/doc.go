// Package tracing provides OpenTelemetry tracing integration: an HTTP server
// middleware and helpers for internal spans around outbound calls.
//
// Spans go to whatever provider is installed with otel.SetTracerProvider;
// without one they are no-ops.
package tracing
