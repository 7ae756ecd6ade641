package webhook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ResolveEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		want    string
		wantErr string
	}{
		{
			name: "override wins over everything",
			mutate: func(c *Config) {
				c.OverrideURL = "https://hooks.example.com/x?key=1"
				c.Development = true
				c.ProxyBaseURL = "https://relay.example.com"
			},
			want: "https://hooks.example.com/x?key=1",
		},
		{
			name: "development posts directly",
			mutate: func(c *Config) {
				c.Development = true
				c.DirectBaseURL = "http://localhost:8080/"
				c.WebhookPath = "/api/v1/executions/webhook/ns/flow/k"
			},
			want: "http://localhost:8080/api/v1/executions/webhook/ns/flow/k",
		},
		{
			name: "production goes through the relay",
			mutate: func(c *Config) {
				c.ProxyBaseURL = "https://app.example.com"
				c.ProxyPath = "/relay/"
				c.WebhookPath = "api/v1/executions/webhook/ns/flow/k"
			},
			want: "https://app.example.com/relay/api/v1/executions/webhook/ns/flow/k",
		},
		{
			name: "empty proxy path is skipped",
			mutate: func(c *Config) {
				c.ProxyBaseURL = "https://app.example.com"
				c.ProxyPath = ""
				c.WebhookPath = "/hook"
			},
			want: "https://app.example.com/hook",
		},
		{
			name:    "production without relay base",
			mutate:  func(c *Config) {},
			wantErr: "KESTRA_PROXY_BASE_URL",
		},
		{
			name: "development without server base",
			mutate: func(c *Config) {
				c.Development = true
				c.DirectBaseURL = ""
			},
			wantErr: "KESTRA_BASE_URL",
		},
		{
			name: "missing webhook path",
			mutate: func(c *Config) {
				c.ProxyBaseURL = "https://app.example.com"
				c.WebhookPath = ""
			},
			wantErr: "KESTRA_WEBHOOK_PATH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			got, err := cfg.ResolveEndpoint()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.NoContent = "maybe"
	assert.ErrorContains(t, cfg.Validate(), "WEBHOOK_NO_CONTENT")

	cfg = DefaultConfig()
	cfg.Timeout = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "WEBHOOK_TIMEOUT")

	cfg = DefaultConfig()
	cfg.Timeout = 0
	assert.NoError(t, cfg.Validate(), "zero disables the timeout")
}
