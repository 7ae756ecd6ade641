// Package config assembles the application configuration from the
// environment, an optional .env file and an optional YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"contentflow/internal/infra/fetcher"
	"contentflow/internal/infra/github"
	"contentflow/internal/infra/llm"
	"contentflow/internal/infra/relay"
	"contentflow/internal/infra/webhook"
	"contentflow/internal/observability/logging"
	pkgconfig "contentflow/pkg/config"
)

// Application modes (APP_ENV).
const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// APIConfig holds the settings of the JSON API server.
type APIConfig struct {
	// Addr is the listen address. Default: :8080
	Addr string
	// RequestTimeout bounds every request, generation included. Default: 120s
	RequestTimeout time.Duration
	// MaxBodySize caps request bodies. Default: 1MB
	MaxBodySize int64
	// GenerateRateLimit is the number of generation requests per minute and
	// client. Zero disables the limiter. Default: 10
	GenerateRateLimit int
	// GenerateBurst is the bucket size of the limiter. Default: 3
	GenerateBurst int
}

// RelayServerConfig holds the settings of the relay server.
type RelayServerConfig struct {
	relay.Config
	// Addr is the listen address. Default: :8888
	Addr string
}

// AppConfig is the complete configuration. Every client constructor takes
// its own section.
type AppConfig struct {
	Mode       string
	Version    string
	Log        logging.Config
	LLM        llm.Config
	Webhook    webhook.Config
	Repository github.Config
	Fetch      fetcher.ContentFetchConfig
	Relay      RelayServerConfig
	API        APIConfig
}

// Development reports whether APP_ENV selects development mode.
func (c *AppConfig) Development() bool {
	return c.Mode == ModeDevelopment
}

// Load builds the configuration from src and validates it. Missing
// credentials are not an error here: each client reports them when its
// operation is invoked.
func Load(src pkgconfig.Source) (*AppConfig, error) {
	cfg := &AppConfig{
		Mode:    src.String("APP_ENV", ModeProduction),
		Version: src.String("VERSION", "dev"),
		Log: logging.Config{
			Level:  src.String("LOG_LEVEL", "info"),
			Format: src.String("LOG_FORMAT", "json"),
		},
		LLM:        loadLLM(src),
		Repository: loadRepository(src),
		Fetch:      loadFetch(src),
		Relay:      loadRelay(src),
		API:        loadAPI(src),
	}
	cfg.Webhook = loadWebhook(src, cfg.Development())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv reads envFile (when it exists) into the process environment
// without overriding variables that are already set, layers the YAML file
// named by CONFIG_FILE underneath, and calls Load.
func LoadFromEnv(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	src := pkgconfig.OSEnv
	if path := src.String("CONFIG_FILE", ""); path != "" {
		file, err := pkgconfig.FileSource(path)
		if err != nil {
			return nil, err
		}
		src = pkgconfig.Layered(pkgconfig.OSEnv, file)
	}
	return Load(src)
}

func loadLLM(src pkgconfig.Source) llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = src.String("LLM_PROVIDER", cfg.Provider)
	switch cfg.Provider {
	case llm.ProviderClaude:
		cfg.APIKey = src.String("ANTHROPIC_API_KEY", "")
	default:
		cfg.APIKey = src.String("OPENAI_API_KEY", "")
	}
	cfg.BaseURL = src.String("LLM_BASE_URL", "")
	cfg.Model = src.String("LLM_MODEL", "")
	cfg.MaxTokens = src.Int("LLM_MAX_TOKENS", cfg.MaxTokens)
	cfg.Temperature = src.Float("LLM_TEMPERATURE", cfg.Temperature)
	cfg.Timeout = src.Duration("LLM_TIMEOUT", cfg.Timeout)
	cfg.Retry.MaxRetries = src.Int("LLM_MAX_RETRIES", cfg.Retry.MaxRetries)
	cfg.Retry.BaseDelay = src.Duration("LLM_RETRY_BASE_DELAY", cfg.Retry.BaseDelay)
	return cfg
}

func loadWebhook(src pkgconfig.Source, development bool) webhook.Config {
	cfg := webhook.DefaultConfig()
	cfg.Development = development
	cfg.OverrideURL = src.String("KESTRA_WEBHOOK_URL", "")
	cfg.DirectBaseURL = src.String("KESTRA_BASE_URL", cfg.DirectBaseURL)
	cfg.WebhookPath = src.String("KESTRA_WEBHOOK_PATH", cfg.WebhookPath)
	cfg.ProxyBaseURL = src.String("KESTRA_PROXY_BASE_URL", "")
	cfg.ProxyPath = src.String("KESTRA_PROXY_PATH", cfg.ProxyPath)
	cfg.Timeout = src.Duration("WEBHOOK_TIMEOUT", cfg.Timeout)
	cfg.NoContent = webhook.NoContentPolicy(src.String("WEBHOOK_NO_CONTENT", string(cfg.NoContent)))
	// An explicitly empty key is meaningful (bare payload), so it is read raw.
	if raw, ok := lookupRaw(src, "WEBHOOK_ENVELOPE_KEY"); ok {
		cfg.EnvelopeKey = raw
	}
	cfg.RateLimit = src.Float("WEBHOOK_RATE_LIMIT", cfg.RateLimit)
	cfg.RateBurst = src.Int("WEBHOOK_RATE_BURST", cfg.RateBurst)
	return cfg
}

// lookupRaw distinguishes "-" (explicitly empty) from unset, since a Source
// cannot represent an empty but set value.
func lookupRaw(src pkgconfig.Source, key string) (string, bool) {
	v := src.String(key, "")
	switch v {
	case "":
		return "", false
	case "-":
		return "", true
	default:
		return v, true
	}
}

func loadRepository(src pkgconfig.Source) github.Config {
	cfg := github.DefaultConfig()
	cfg.Token = src.String("GITHUB_TOKEN", "")
	cfg.Owner = src.String("GITHUB_OWNER", "")
	cfg.Repo = src.String("GITHUB_BLOG_REPO", "")
	cfg.Branch = src.String("GITHUB_BRANCH", cfg.Branch)
	cfg.PostsDir = src.String("GITHUB_POSTS_DIR", cfg.PostsDir)
	cfg.APIURL = src.String("GITHUB_API_URL", cfg.APIURL)
	cfg.Timeout = src.Duration("GITHUB_TIMEOUT", cfg.Timeout)
	return cfg
}

func loadFetch(src pkgconfig.Source) fetcher.ContentFetchConfig {
	cfg := fetcher.DefaultConfig()
	cfg.Timeout = src.Duration("CONTENT_FETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = int64(src.Int("CONTENT_FETCH_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = src.Int("CONTENT_FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = src.Bool("CONTENT_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.UserAgent = src.String("CONTENT_FETCH_USER_AGENT", cfg.UserAgent)
	return cfg
}

func loadRelay(src pkgconfig.Source) RelayServerConfig {
	cfg := relay.DefaultConfig()
	cfg.UpstreamURL = src.String("RELAY_UPSTREAM_URL", "")
	cfg.Prefix = src.String("RELAY_PREFIX", cfg.Prefix)
	cfg.Timeout = src.Duration("RELAY_TIMEOUT", cfg.Timeout)
	return RelayServerConfig{Config: cfg, Addr: src.String("RELAY_ADDR", ":8888")}
}

func loadAPI(src pkgconfig.Source) APIConfig {
	return APIConfig{
		Addr:              src.String("API_ADDR", ":8080"),
		RequestTimeout:    src.Duration("API_REQUEST_TIMEOUT", 120*time.Second),
		MaxBodySize:       int64(src.Int("API_MAX_BODY_SIZE", 1<<20)),
		GenerateRateLimit: src.Int("API_GENERATE_RATE_LIMIT", 10),
		GenerateBurst:     src.Int("API_GENERATE_BURST", 3),
	}
}

// Validate rejects malformed values. All problems are reported together.
func (c *AppConfig) Validate() error {
	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(pkgconfig.RequireOneOf("APP_ENV", c.Mode, ModeDevelopment, ModeProduction))
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add(fmt.Errorf("LOG_LEVEL: %w", err))
	}
	add(pkgconfig.RequireOneOf("LOG_FORMAT", c.Log.Format, "json", "text"))

	add(c.LLM.Validate())
	add(pkgconfig.RequireHTTPURL("LLM_BASE_URL", c.LLM.BaseURL))

	add(c.Webhook.Validate())
	add(pkgconfig.RequireHTTPURL("KESTRA_WEBHOOK_URL", c.Webhook.OverrideURL))
	add(pkgconfig.RequireHTTPURL("KESTRA_BASE_URL", c.Webhook.DirectBaseURL))
	add(pkgconfig.RequireHTTPURL("KESTRA_PROXY_BASE_URL", c.Webhook.ProxyBaseURL))

	add(pkgconfig.RequireHTTPURL("GITHUB_API_URL", c.Repository.APIURL))
	add(pkgconfig.RequirePositive("GITHUB_TIMEOUT", c.Repository.Timeout))

	if err := c.Fetch.Validate(); err != nil {
		add(fmt.Errorf("CONTENT_FETCH: %w", err))
	}

	add(pkgconfig.RequireHTTPURL("RELAY_UPSTREAM_URL", c.Relay.UpstreamURL))
	add(pkgconfig.RequirePositive("RELAY_TIMEOUT", c.Relay.Timeout))

	add(pkgconfig.RequireNonNegative("API_REQUEST_TIMEOUT", c.API.RequestTimeout))
	if c.API.MaxBodySize <= 0 {
		add(fmt.Errorf("API_MAX_BODY_SIZE must be positive, got %d", c.API.MaxBodySize))
	}
	if c.API.GenerateRateLimit < 0 {
		add(fmt.Errorf("API_GENERATE_RATE_LIMIT must be non-negative, got %d", c.API.GenerateRateLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
