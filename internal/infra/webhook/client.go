package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"contentflow/internal/domain/entity"
	"contentflow/internal/handler/http/requestid"
	"contentflow/internal/observability/logging"
	"contentflow/internal/observability/metrics"
	"contentflow/internal/observability/tracing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// User-facing diagnostics carried in WorkflowOutcome.Error.
const (
	msgNotFound   = "Automation endpoint not found. Please check your workflow configuration."
	msgBadGateway = "Automation service is temporarily unavailable."
	msgConnection = "Unable to connect to content automation pipeline. Please check your network or proxy configuration."
	msgNoContent  = "Automation pipeline completed without output; the run may have been skipped."
	msgCanceled   = "Automation pipeline request was canceled."
)

// maxLoggedBody caps how much of an error response is logged.
const maxLoggedBody = 512

// Client posts workflow payloads to the automation webhook.
type Client struct {
	config      Config
	httpClient  *http.Client
	rateLimiter *rateLimiter
}

// NewClient creates a webhook client. Zero rate settings fall back to the defaults.
func NewClient(config Config) *Client {
	def := DefaultConfig()
	if config.RateLimit <= 0 {
		config.RateLimit = def.RateLimit
	}
	if config.RateBurst <= 0 {
		config.RateBurst = def.RateBurst
	}
	if config.NoContent == "" {
		config.NoContent = def.NoContent
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: newRateLimiter(config.RateLimit, config.RateBurst),
	}
}

// Endpoint returns the resolved webhook URL, or "" when it cannot be resolved.
func (c *Client) Endpoint() string {
	endpoint, err := c.config.ResolveEndpoint()
	if err != nil {
		return ""
	}
	return endpoint
}

// SendToKestra posts payload to the automation webhook.
//
// It never returns an error: every failure, including a missing endpoint
// configuration or a dropped connection, is described by the outcome.
func (c *Client) SendToKestra(ctx context.Context, payload entity.WorkflowPayload) (outcome entity.WorkflowOutcome) {
	reqID := requestid.FromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
		ctx = requestid.WithRequestID(ctx, reqID)
	}
	logger := logging.FromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "webhook.send")
	defer func() {
		span.SetAttributes(
			attribute.Bool("webhook.success", outcome.Success),
			attribute.Int("http.status_code", outcome.StatusCode),
		)
		var err error
		if !outcome.Success && !outcome.Skipped {
			err = errors.New(outcome.Error)
		}
		tracing.EndSpan(span, err)
		metrics.RecordWorkflowOutcome(outcome)
	}()

	endpoint, err := c.config.ResolveEndpoint()
	if err != nil {
		logger.ErrorContext(ctx, "webhook endpoint not configured",
			slog.Any("error", err))
		return entity.WorkflowOutcome{Error: "Automation pipeline is not configured: " + err.Error()}
	}
	outcome.Endpoint = endpoint
	redacted := logging.RedactURL(endpoint)

	logger.InfoContext(ctx, "sending content to automation pipeline",
		slog.String("endpoint", redacted),
		slog.Bool("development", c.config.Development && c.config.OverrideURL == ""))

	body, err := c.encode(payload)
	if err != nil {
		outcome.Error = fmt.Sprintf("Failed to encode workflow payload: %v", err)
		return outcome
	}

	if err := c.rateLimiter.wait(ctx); err != nil {
		outcome.Error = msgCanceled
		logger.WarnContext(ctx, "webhook rate limit wait aborted",
			slog.Any("error", err))
		return outcome
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		outcome.Error = "Automation pipeline is not configured: invalid webhook URL."
		logger.ErrorContext(ctx, "invalid webhook url",
			slog.String("endpoint", redacted))
		return outcome
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestid.RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome.Error = c.transportDiagnostic(ctx, err)
		logger.ErrorContext(ctx, "webhook request failed",
			slog.String("endpoint", redacted),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err))
		return outcome
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
	outcome.StatusCode = resp.StatusCode
	c.classify(&outcome)

	attrs := []any{
		slog.String("endpoint", redacted),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	}
	switch {
	case outcome.Success:
		logger.InfoContext(ctx, "automation pipeline accepted content", attrs...)
	case outcome.Skipped:
		logger.WarnContext(ctx, "automation pipeline returned no content", attrs...)
	default:
		attrs = append(attrs, slog.String("body", string(respBody)))
		logger.ErrorContext(ctx, "automation pipeline rejected content", attrs...)
	}
	return outcome
}

func (c *Client) encode(payload entity.WorkflowPayload) ([]byte, error) {
	if c.config.EnvelopeKey == "" {
		return json.Marshal(payload)
	}
	return json.Marshal(map[string]entity.WorkflowPayload{c.config.EnvelopeKey: payload})
}

func (c *Client) classify(outcome *entity.WorkflowOutcome) {
	status := outcome.StatusCode
	switch {
	case status == http.StatusNoContent:
		if c.config.NoContent == NoContentSkipped {
			outcome.Skipped = true
			outcome.Error = msgNoContent
			return
		}
		outcome.Success = true
	case status >= 200 && status < 300:
		outcome.Success = true
	case status == http.StatusNotFound:
		outcome.Error = msgNotFound
	case status == http.StatusBadGateway:
		outcome.Error = msgBadGateway
	default:
		outcome.Error = fmt.Sprintf("Automation pipeline failed (status %d).", status)
	}
}

func (c *Client) transportDiagnostic(ctx context.Context, err error) string {
	if errors.Is(ctx.Err(), context.Canceled) {
		return msgCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		if c.config.Timeout > 0 {
			return fmt.Sprintf("Automation pipeline request timed out after %s.", c.config.Timeout)
		}
		return "Automation pipeline request timed out."
	}
	return msgConnection
}
