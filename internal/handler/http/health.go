// Package http provides the HTTP middleware, health endpoints and metrics
// shared by the content API. Feature handlers live in the content, posts and
// workflow subpackages.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"contentflow/internal/handler/http/respond"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Dependency is one integration the API relies on.
//
// Check returns nil when the integration is usable. A failing Required
// dependency makes the service unhealthy (503); any other failure only
// degrades it, since the remaining operations still work.
type Dependency struct {
	Name     string
	Required bool
	Check    func(ctx context.Context) error
}

// HealthHandler reports the state of every Dependency.
type HealthHandler struct {
	Version      string
	Dependencies []Dependency
	now          func() time.Time
}

// ServeHTTP runs the checks and answers 200 unless a required dependency failed.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks, status := h.run(ctx)

	now := time.Now
	if h.now != nil {
		now = h.now
	}
	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
		slog.WarnContext(ctx, "health check failed", slog.Any("checks", checks))
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

func (h *HealthHandler) run(ctx context.Context) (map[string]CheckStatus, string) {
	checks := make(map[string]CheckStatus, len(h.Dependencies))
	status := StatusHealthy

	deps := append([]Dependency(nil), h.Dependencies...)
	sort.SliceStable(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })

	for _, dep := range deps {
		err := dep.Check(ctx)
		switch {
		case err == nil:
			checks[dep.Name] = CheckStatus{Status: StatusHealthy}
		case dep.Required:
			checks[dep.Name] = CheckStatus{Status: StatusUnhealthy, Message: respond.SanitizeError(err)}
			status = StatusUnhealthy
		default:
			checks[dep.Name] = CheckStatus{Status: StatusDegraded, Message: respond.SanitizeError(err)}
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}
	return checks, status
}

// ReadyHandler answers 200 once every required dependency passes.
type ReadyHandler struct {
	Dependencies []Dependency
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, dep := range h.Dependencies {
		if !dep.Required {
			continue
		}
		if err := dep.Check(ctx); err != nil {
			http.Error(w, dep.Name+" not ready: "+respond.SanitizeError(err), http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler always answers 200 while the process can serve requests.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
