package llm_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/internal/infra/llm"
)

func TestNew_SelectsProvider(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{llm.ProviderOpenAI, "openai"},
		{llm.ProviderClaude, "claude"},
		{llm.ProviderNoOp, "noop"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := llm.DefaultConfig()
			cfg.Provider = tt.provider

			completer, err := llm.New(cfg)

			require.NoError(t, err)
			assert.Equal(t, tt.want, completer.Name())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*llm.Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*llm.Config) {}},
		{name: "unknown provider", mutate: func(c *llm.Config) { c.Provider = "gemini" }, wantErr: "LLM_PROVIDER"},
		{name: "zero tokens", mutate: func(c *llm.Config) { c.MaxTokens = 0 }, wantErr: "LLM_MAX_TOKENS"},
		{name: "temperature too high", mutate: func(c *llm.Config) { c.Temperature = 3 }, wantErr: "LLM_TEMPERATURE"},
		{name: "zero timeout", mutate: func(c *llm.Config) { c.Timeout = 0 }, wantErr: "LLM_TIMEOUT"},
		{name: "negative retries", mutate: func(c *llm.Config) { c.Retry.MaxRetries = -1 }, wantErr: "LLM_MAX_RETRIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := llm.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestNoOp_RepliesInPromptFormat(t *testing.T) {
	n := llm.NewNoOp()
	ctx := context.Background()

	social, err := n.Complete(ctx, "Create one engaging LinkedIn post and one tweet")
	require.NoError(t, err)
	assert.True(t, strings.Contains(social, "LINKEDIN:") && strings.Contains(social, "TWITTER:"))

	summary, err := n.Complete(ctx, "Summarize this content in exactly 3 short bullet points")
	require.NoError(t, err)
	assert.Len(t, strings.Split(summary, "\n"), 3)

	assert.True(t, n.Configured())
}
