package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"contentflow/internal/domain/entity"
	"contentflow/internal/resilience/circuitbreaker"
	"contentflow/internal/resilience/retry"
	"contentflow/internal/utils/text"
)

// OpenAI completes prompts with the chat completions API.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	config          Config
	metricsRecorder CompletionMetricsRecorder
}

// NewOpenAI creates an OpenAI completer. A missing API key is reported by
// Complete, not here.
func NewOpenAI(cfg Config) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	slog.Info("Initialized OpenAI completer",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.MaxTokens),
		slog.Int("max_retries", cfg.Retry.MaxRetries))

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientConfig),
		circuitBreaker:  newBreaker(ProviderOpenAI),
		config:          cfg,
		metricsRecorder: NewPrometheusCompletionMetrics(),
	}
}

// Name implements Completer.
func (o *OpenAI) Name() string { return ProviderOpenAI }

// Configured implements Completer.
func (o *OpenAI) Configured() bool { return o.config.APIKey != "" }

// Complete sends prompt as a single user message and returns the first choice.
func (o *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	if !o.Configured() {
		return "", fmt.Errorf("%w: OpenAI API key not configured. Please add OPENAI_API_KEY to your environment variables", entity.ErrConfiguration)
	}

	var result string
	retryErr := retry.WithBackoff(ctx, o.config.Retry, func() error {
		return o.circuitBreaker.Run(func() error {
			out, err := o.doComplete(ctx, prompt)
			if err != nil {
				return err
			}
			result = out
			return nil
		})
	})
	if retryErr != nil {
		if errors.Is(retryErr, circuitbreaker.ErrOpen) {
			slog.WarnContext(ctx, "openai api circuit breaker open, request rejected",
				slog.String("service", o.circuitBreaker.Name()),
				slog.String("state", o.circuitBreaker.State().String()))
		}
		return "", fmt.Errorf("openai api error: %w", retryErr)
	}
	return result, nil
}

func (o *OpenAI) doComplete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.config.Model,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
		MaxTokens:   o.config.MaxTokens,
		Temperature: float32(o.config.Temperature),
	})

	duration := time.Since(start)

	if err != nil {
		classified := classifyOpenAIError(ctx, err)
		o.metricsRecorder.RecordCompletion(ProviderOpenAI, outcomeLabel(classified), duration)
		slog.WarnContext(ctx, "Completion failed",
			slog.String("provider", ProviderOpenAI),
			slog.Int("status", StatusCode(classified)),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", classified
	}

	if len(resp.Choices) == 0 {
		o.metricsRecorder.RecordCompletion(ProviderOpenAI, outcomeMalformed, duration)
		return "", fmt.Errorf("%w: openai api returned no choices", entity.ErrMalformedResponse)
	}

	content := resp.Choices[0].Message.Content
	o.metricsRecorder.RecordCompletion(ProviderOpenAI, outcomeSuccess, duration)
	slog.DebugContext(ctx, "Completion finished",
		slog.String("provider", ProviderOpenAI),
		slog.Int("prompt_length", text.CountRunes(prompt)),
		slog.Int("reply_length", text.CountRunes(content)),
		slog.Duration("duration", duration))

	return content, nil
}

func classifyOpenAIError(ctx context.Context, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return classifyStatus(apiErr.HTTPStatusCode, apiErr.Message, 0)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		msg := reqErr.HTTPStatus
		if len(reqErr.Body) > 0 {
			msg = string(reqErr.Body)
		}
		return classifyStatus(reqErr.HTTPStatusCode, msg, 0)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %w", entity.ErrNetwork, err)
}
