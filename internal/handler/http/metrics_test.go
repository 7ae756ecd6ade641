package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"contentflow/internal/observability/metrics"
)

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /posts/preview", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	handler := MetricsMiddleware(mux)

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/posts/preview", "202")
	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	before, beforeUnmatched := testutil.ToFloat64(counter), testutil.ToFloat64(unmatched)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/posts/preview?x=1", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/no/such/route/123", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
	assert.Equal(t, beforeUnmatched+1, testutil.ToFloat64(unmatched))
}

func TestRouteLabel(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{pattern: "", want: unmatchedRoute},
		{pattern: "GET /health", want: "/health"},
		{pattern: "POST   /content/generate", want: "/content/generate"},
		{pattern: "/metrics", want: "/metrics"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Pattern = tt.pattern
		assert.Equal(t, tt.want, routeLabel(r), tt.pattern)
	}
}

func TestMetricsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_in_flight"))
}
