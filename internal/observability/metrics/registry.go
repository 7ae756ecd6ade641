// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Business metrics track the assistant's user-facing operations
var (
	// ContentGenerationsTotal counts ProcessContent calls by result
	ContentGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_generations_total",
			Help: "Total number of content generation requests by result",
		},
		[]string{"result"},
	)

	// ContentGenerationDuration measures end-to-end generation time including retries
	ContentGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_generation_duration_seconds",
			Help:    "Time taken to generate all content artifacts",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// WorkflowDispatchTotal counts webhook calls by outcome
	WorkflowDispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_dispatch_total",
			Help: "Total number of automation webhook calls by outcome",
		},
		[]string{"outcome"},
	)

	// PostPublishTotal counts repository commits by result
	PostPublishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_publish_total",
			Help: "Total number of blog post publish attempts by result",
		},
		[]string{"result"},
	)

	// ContentImportTotal counts URL article imports by result
	ContentImportTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_import_total",
			Help: "Total number of URL article imports by result",
		},
		[]string{"result"},
	)

	// ContentImportSize records the size of imported article text in characters
	ContentImportSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_import_size_characters",
			Help:    "Size of imported article text in characters",
			Buckets: prometheus.ExponentialBuckets(500, 2, 10),
		},
	)
)

// Resilience metrics
var (
	// CircuitBreakerState reports each breaker's state: 0 closed, 1 half-open, 2 open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"circuit"},
	)
)
