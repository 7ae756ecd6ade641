// Package webhook delivers generated content to the Kestra automation
// pipeline and reports a structured outcome for every call.
package webhook

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NoContentPolicy decides what an HTTP 204 from the automation server means.
type NoContentPolicy string

const (
	// NoContentSuccess treats 204 as a successful run.
	NoContentSuccess NoContentPolicy = "success"
	// NoContentSkipped treats 204 as a run that produced no output.
	NoContentSkipped NoContentPolicy = "skipped"
)

// DefaultEnvelopeKey wraps the payload as {"contentPayload": {...}}.
const DefaultEnvelopeKey = "contentPayload"

// DefaultWebhookPath is the Kestra webhook trigger of the contentflow flow.
const DefaultWebhookPath = "/api/v1/executions/webhook/contentflow/contentflow-handler/from-web?key=contentflow-key"

// Config holds the webhook client configuration.
type Config struct {
	// OverrideURL, when set, is used verbatim and skips resolution.
	OverrideURL string

	// Development selects the direct automation-server URL instead of the relay.
	Development bool

	DirectBaseURL string
	WebhookPath   string

	ProxyBaseURL string
	ProxyPath    string

	// Timeout bounds one request. Zero disables the client timeout.
	Timeout time.Duration

	NoContent   NoContentPolicy
	EnvelopeKey string

	// RateLimit is the sustained request rate per second; RateBurst the bucket size.
	RateLimit float64
	RateBurst int
}

// DefaultConfig returns the production defaults. The relay base URL has no
// default and must be supplied unless an override or development mode is used.
func DefaultConfig() Config {
	return Config{
		DirectBaseURL: "http://localhost:8080",
		WebhookPath:   DefaultWebhookPath,
		ProxyPath:     "/relay",
		Timeout:       10 * time.Second,
		NoContent:     NoContentSuccess,
		EnvelopeKey:   DefaultEnvelopeKey,
		RateLimit:     1,
		RateBurst:     3,
	}
}

// Validate checks values that would make every call fail the same way.
// Missing endpoint pieces are reported per call by ResolveEndpoint instead.
func (c Config) Validate() error {
	if c.Timeout < 0 {
		return errors.New("WEBHOOK_TIMEOUT must not be negative")
	}
	switch c.NoContent {
	case NoContentSuccess, NoContentSkipped:
	default:
		return fmt.Errorf("WEBHOOK_NO_CONTENT must be %q or %q, got %q", NoContentSuccess, NoContentSkipped, c.NoContent)
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return errors.New("webhook rate limit and burst must be positive")
	}
	return nil
}

// ResolveEndpoint returns the URL the payload is posted to.
//
// An explicit override always wins. Otherwise development mode posts straight
// to the automation server and every other mode goes through the relay.
func (c Config) ResolveEndpoint() (string, error) {
	if c.OverrideURL != "" {
		return c.OverrideURL, nil
	}
	if c.WebhookPath == "" {
		return "", errors.New("KESTRA_WEBHOOK_PATH is not configured")
	}

	if c.Development {
		if c.DirectBaseURL == "" {
			return "", errors.New("KESTRA_BASE_URL is not configured")
		}
		return joinURL(c.DirectBaseURL, c.WebhookPath), nil
	}

	if c.ProxyBaseURL == "" {
		return "", errors.New("KESTRA_PROXY_BASE_URL is not configured (set KESTRA_WEBHOOK_URL or APP_ENV=development to bypass the relay)")
	}
	return joinURL(c.ProxyBaseURL, c.ProxyPath, c.WebhookPath), nil
}

func joinURL(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}
