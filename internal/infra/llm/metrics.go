package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"contentflow/internal/domain/entity"
	"contentflow/internal/resilience/retry"
)

const (
	outcomeSuccess     = "success"
	outcomeRateLimited = "rate_limited"
	outcomeTransient   = "transient"
	outcomePermanent   = "permanent"
	outcomeNetwork     = "network"
	outcomeMalformed   = "malformed"
	outcomeCanceled    = "canceled"
)

func outcomeLabel(err error) string {
	var rl *retry.RateLimitError
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.As(err, &rl):
		return outcomeRateLimited
	case errors.Is(err, entity.ErrTransientRemote):
		return outcomeTransient
	case errors.Is(err, entity.ErrPermanentRemote):
		return outcomePermanent
	case errors.Is(err, entity.ErrMalformedResponse):
		return outcomeMalformed
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCanceled
	default:
		return outcomeNetwork
	}
}

// CompletionMetricsRecorder records per-attempt completion metrics.
type CompletionMetricsRecorder interface {
	// RecordCompletion records one HTTP attempt against a provider.
	RecordCompletion(provider, outcome string, duration time.Duration)
}

// PrometheusCompletionMetrics implements CompletionMetricsRecorder.
type PrometheusCompletionMetrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusCompletionMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreate registers c, or returns the already registered collector so
// tests that build several completers share one set of metrics.
func getOrCreate[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
	}
	return c
}

// NewPrometheusCompletionMetrics returns the process-wide recorder.
func NewPrometheusCompletionMetrics() *PrometheusCompletionMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusCompletionMetrics{
			attempts: getOrCreate(prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_completion_attempts_total",
				Help: "Language-model HTTP attempts by provider and outcome",
			}, []string{"provider", "outcome"})),
			duration: getOrCreate(prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "llm_completion_duration_seconds",
				Help:    "Latency of a single language-model HTTP attempt",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			}, []string{"provider"})),
		}
	})
	return prometheusMetricsInstance
}

// RecordCompletion implements CompletionMetricsRecorder.
func (p *PrometheusCompletionMetrics) RecordCompletion(provider, outcome string, duration time.Duration) {
	p.attempts.WithLabelValues(provider, outcome).Inc()
	p.duration.WithLabelValues(provider).Observe(duration.Seconds())
}
