// Package llm provides language-model completers backed by the OpenAI and
// Anthropic APIs. Each completer owns its retry and circuit breaker policy;
// callers only see the final text or a classified error.
package llm

import (
	"context"
	"fmt"
	"time"

	"contentflow/internal/resilience/retry"
)

// Provider names accepted by Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
	ProviderNoOp   = "noop"
)

// Completer turns a single user prompt into the model's text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	// Configured reports whether the completer has the credentials it needs.
	Configured() bool
	Name() string
}

// Config holds configuration for a language-model completer.
type Config struct {
	// Provider selects the implementation: openai, claude or noop.
	Provider string

	// APIKey is the provider credential. Empty keys are reported at call
	// time, not at construction.
	APIKey string

	// BaseURL overrides the provider endpoint. Used by tests and proxies.
	BaseURL string

	// Model overrides the provider default model.
	Model string

	// MaxTokens caps the reply length. Default: 500
	MaxTokens int

	// Temperature is the sampling temperature. Default: 0.7
	Temperature float64

	// Timeout bounds a single HTTP attempt. Default: 60s
	Timeout time.Duration

	// Retry is the policy applied around every completion.
	Retry retry.Config
}

// DefaultConfig returns the OpenAI configuration the assistant ships with.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderOpenAI,
		MaxTokens:   500,
		Temperature: 0.7,
		Timeout:     60 * time.Second,
		Retry:       retry.DefaultConfig(),
	}
}

// Validate checks configuration correctness. Credentials are not checked here.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderClaude, ProviderNoOp:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of openai, claude, noop, got %q", c.Provider)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("LLM_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive, got %v", c.Timeout)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must be non-negative, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.BaseDelay < 0 {
		return fmt.Errorf("LLM_RETRY_BASE_DELAY must be non-negative, got %v", c.Retry.BaseDelay)
	}
	return nil
}

// New returns the completer selected by cfg.Provider.
func New(cfg Config) (Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid llm configuration: %w", err)
	}
	switch cfg.Provider {
	case ProviderClaude:
		return NewClaude(cfg), nil
	case ProviderNoOp:
		return NewNoOp(), nil
	default:
		return NewOpenAI(cfg), nil
	}
}
