package fetcher

import (
	"fmt"
	"time"
)

// ContentFetchConfig holds configuration for article import.
type ContentFetchConfig struct {
	// Timeout is the maximum duration for a single fetch.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum response size in bytes.
	// Default: 10MB
	MaxBodySize int64

	// MaxRedirects is the maximum number of redirects to follow.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to loopback, private or link-local
	// addresses.
	// Default: true
	DenyPrivateIPs bool

	// UserAgent identifies the importer to remote sites.
	UserAgent string
}

// DefaultConfig returns the default import configuration.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "ContentflowBot/1.0",
	}
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *ContentFetchConfig) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}

	return nil
}
