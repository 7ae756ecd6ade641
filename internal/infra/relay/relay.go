// Package relay forwards browser requests to the automation server so that
// the server itself never needs to be exposed with CORS enabled.
package relay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contentflow/internal/handler/http/respond"
	"contentflow/internal/observability/logging"
)

// Config holds the relay configuration.
type Config struct {
	// UpstreamURL is the automation server base URL, for example
	// https://kestra.example.com.
	UpstreamURL string
	// Prefix is stripped from the incoming path before forwarding.
	Prefix string
	// Timeout bounds one forwarded request.
	Timeout time.Duration
	// MaxBodySize caps the forwarded request body.
	MaxBodySize int64
}

// DefaultConfig returns the defaults. UpstreamURL must still be set.
func DefaultConfig() Config {
	return Config{
		Prefix:      "/relay",
		Timeout:     30 * time.Second,
		MaxBodySize: 10 << 20,
	}
}

// Validate reports a missing or malformed upstream.
func (c Config) Validate() error {
	if c.UpstreamURL == "" {
		return errors.New("RELAY_UPSTREAM_URL is required")
	}
	if !strings.HasPrefix(c.UpstreamURL, "http://") && !strings.HasPrefix(c.UpstreamURL, "https://") {
		return fmt.Errorf("RELAY_UPSTREAM_URL must be an http(s) URL, got %q", c.UpstreamURL)
	}
	if c.Timeout <= 0 {
		return errors.New("relay timeout must be positive")
	}
	return nil
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET,POST,PUT,OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

// Handler forwards every request under Prefix to the upstream.
type Handler struct {
	config Config
	client *http.Client
}

// NewHandler creates a relay handler.
func NewHandler(config Config) *Handler {
	config.UpstreamURL = strings.TrimRight(config.UpstreamURL, "/")
	config.Prefix = "/" + strings.Trim(config.Prefix, "/")
	if config.Prefix == "/" {
		config.Prefix = ""
	}
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultConfig().MaxBodySize
	}
	return &Handler{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
			// Redirects are passed back to the caller unchanged.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Target returns the upstream URL for r: upstream + path without prefix + query.
func (h *Handler) Target(r *http.Request) string {
	rest := strings.TrimPrefix(r.URL.EscapedPath(), h.config.Prefix)
	if rest != "" && !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	target := h.config.UpstreamURL + rest
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	return target
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	target := h.Target(r)
	logger := logging.FromContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodySize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.JSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return
		}
		h.fail(w, r, target, fmt.Errorf("read request body: %w", err))
		return
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	outReq, err := http.NewRequestWithContext(r.Context(), r.Method, target, reader)
	if err != nil {
		h.fail(w, r, target, err)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	outReq.Header.Set("Content-Type", contentType)
	if auth := r.Header.Get("Authorization"); auth != "" {
		outReq.Header.Set("Authorization", auth)
	}

	start := time.Now()
	resp, err := h.client.Do(outReq)
	if err != nil {
		h.fail(w, r, target, err)
		return
	}
	defer func() { _ = resp.Body.Close() }()

	respType := resp.Header.Get("Content-Type")
	if respType == "" {
		respType = "application/json"
	}
	w.Header().Set("Content-Type", respType)
	if loc := resp.Header.Get("Location"); loc != "" {
		w.Header().Set("Location", loc)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)

	logger.InfoContext(r.Context(), "relayed request",
		slog.String("method", r.Method),
		slog.String("target", logging.RedactURL(target)),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))
}

type proxyError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Target  string `json:"target"`
}

// fail answers 502 with a JSON description of the forwarding failure.
// The target's query string is redacted since it usually carries the webhook key.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, target string, err error) {
	redacted := logging.RedactURL(target)
	// url.Error repeats the full target, query included.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}
	logging.FromContext(r.Context()).ErrorContext(r.Context(), "relay request failed",
		slog.String("method", r.Method),
		slog.String("target", redacted),
		slog.Any("error", err))

	respond.JSON(w, http.StatusBadGateway, proxyError{
		Error:   "Proxy error",
		Message: respond.SanitizeError(err),
		Target:  redacted,
	})
}
