package config

import (
	"fmt"
	"net/url"
	"slices"
	"time"
)

// RequirePositive returns an error naming key when d is not greater than zero.
func RequirePositive(key string, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return nil
}

// RequireNonNegative returns an error naming key when d is negative.
// Zero is accepted and usually means "disabled".
func RequireNonNegative(key string, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("%s must be non-negative, got %v", key, d)
	}
	return nil
}

// RequireOneOf returns an error naming key when value is not in allowed.
func RequireOneOf(key, value string, allowed ...string) error {
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%s must be one of %v, got %q", key, allowed, value)
	}
	return nil
}

// RequireHTTPURL validates an optional absolute http(s) URL. Empty is accepted.
func RequireHTTPURL(key, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got %q", key, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host", key)
	}
	return nil
}
