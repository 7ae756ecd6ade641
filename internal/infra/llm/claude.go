package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"contentflow/internal/domain/entity"
	"contentflow/internal/resilience/circuitbreaker"
	"contentflow/internal/resilience/retry"
)

// Claude completes prompts with the Anthropic Messages API.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	config          Config
	metricsRecorder CompletionMetricsRecorder
}

// NewClaude creates a Claude completer. The SDK's own retries are disabled so
// that cfg.Retry is the only retry policy in effect.
func NewClaude(cfg Config) *Claude {
	if cfg.Model == "" {
		cfg.Model = string(anthropic.ModelClaudeSonnet4_5_20250929)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("Initialized Claude completer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens),
		slog.Int("max_retries", cfg.Retry.MaxRetries))

	return &Claude{
		client:          anthropic.NewClient(opts...),
		circuitBreaker:  newBreaker(ProviderClaude),
		config:          cfg,
		metricsRecorder: NewPrometheusCompletionMetrics(),
	}
}

// Name implements Completer.
func (c *Claude) Name() string { return ProviderClaude }

// Configured implements Completer.
func (c *Claude) Configured() bool { return c.config.APIKey != "" }

// Complete sends prompt as a single user message and joins the text blocks of the reply.
func (c *Claude) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("%w: Anthropic API key not configured. Please add ANTHROPIC_API_KEY to your environment variables", entity.ErrConfiguration)
	}

	var result string
	retryErr := retry.WithBackoff(ctx, c.config.Retry, func() error {
		return c.circuitBreaker.Run(func() error {
			out, err := c.doComplete(ctx, prompt)
			if err != nil {
				return err
			}
			result = out
			return nil
		})
	})
	if retryErr != nil {
		if errors.Is(retryErr, circuitbreaker.ErrOpen) {
			slog.WarnContext(ctx, "claude api circuit breaker open, request rejected",
				slog.String("service", c.circuitBreaker.Name()),
				slog.String("state", c.circuitBreaker.State().String()))
		}
		return "", fmt.Errorf("claude api error: %w", retryErr)
	}
	return result, nil
}

func (c *Claude) doComplete(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()
	start := time.Now()

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.config.Model),
		MaxTokens:   int64(c.config.MaxTokens),
		Temperature: anthropic.Float(c.config.Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})

	duration := time.Since(start)

	if err != nil {
		classified := classifyClaudeError(ctx, err)
		c.metricsRecorder.RecordCompletion(ProviderClaude, outcomeLabel(classified), duration)
		slog.WarnContext(ctx, "Completion failed",
			slog.String("provider", ProviderClaude),
			slog.String("request_id", requestID),
			slog.Int("status", StatusCode(classified)),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", classified
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		c.metricsRecorder.RecordCompletion(ProviderClaude, outcomeMalformed, duration)
		return "", fmt.Errorf("%w: claude api returned no text content", entity.ErrMalformedResponse)
	}

	c.metricsRecorder.RecordCompletion(ProviderClaude, outcomeSuccess, duration)
	slog.DebugContext(ctx, "Completion finished",
		slog.String("provider", ProviderClaude),
		slog.String("request_id", requestID),
		slog.Duration("duration", duration))

	return sb.String(), nil
}

func classifyClaudeError(ctx context.Context, err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode > 0 {
		var retryAfter time.Duration
		if apiErr.Response != nil {
			if secs, convErr := strconv.Atoi(apiErr.Response.Header.Get("retry-after")); convErr == nil && secs > 0 {
				retryAfter = time.Duration(secs) * time.Second
			}
		}
		return classifyStatus(apiErr.StatusCode, apiErr.Error(), retryAfter)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", entity.ErrNetwork, err)
}
