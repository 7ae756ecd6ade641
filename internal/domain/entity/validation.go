package entity

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
	maxURLLength = 2048

	// MaxContentLength caps the raw text accepted for generation (in runes).
	MaxContentLength = 100_000
)

// ValidateContent checks the raw text submitted for generation.
func ValidateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	if n := utf8.RuneCountInString(content); n > MaxContentLength {
		return &ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content must not exceed %d characters (got %d)", MaxContentLength, n),
		}
	}
	return nil
}

// ValidateImportURL validates the format of a URL submitted for article import.
// Network-level checks (private address blocking) happen in the fetcher.
func ValidateImportURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "URL is required"}
	}

	// DoS protection: enforce maximum URL length
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "URL is malformed"}
	}

	// HTTPまたはHTTPSスキームのみ許可
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "URL must use http or https scheme"}
	}
	if parsedURL.Host == "" {
		return &ValidationError{Field: "url", Message: "URL must have a valid host"}
	}
	return nil
}
