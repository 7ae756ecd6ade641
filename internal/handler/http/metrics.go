package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"contentflow/internal/handler/http/responsewriter"
	"contentflow/internal/observability/metrics"
)

var (
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// unmatchedRoute labels requests that no route pattern matched.
const unmatchedRoute = "unmatched"

// MetricsMiddleware records request count, duration and response size.
//
// Requests are labelled with the matched ServeMux pattern rather than the raw
// path, which keeps label cardinality bounded. The middleware must wrap the
// mux for r.Pattern to be visible after routing.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		rw := responsewriter.Wrap(w)
		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start).Seconds()

		path := routeLabel(r)
		status := strconv.Itoa(rw.StatusCode())
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
		httpResponseSize.WithLabelValues(r.Method, path).Observe(float64(rw.BytesWritten()))
	})
}

// routeLabel returns the path part of the matched pattern ("POST /content/generate"
// becomes "/content/generate").
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	if _, path, ok := strings.Cut(r.Pattern, " "); ok {
		return strings.TrimSpace(path)
	}
	return r.Pattern
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
