// Package retry runs an operation with a bounded number of retries and
// exponential backoff. The wait before each retry honours a provider-suggested
// delay when the failure was a rate limit.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"syscall"
	"time"
)

// ErrMaxRetriesExceeded is matched by the error WithBackoff returns when every
// attempt failed with a retryable error. The last attempt's error is wrapped too.
var ErrMaxRetriesExceeded = errors.New("max retries exceeded")

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Config holds the configuration for retry logic.
type Config struct {
	// MaxRetries is the number of retries after the first attempt.
	// Total attempts are MaxRetries+1.
	MaxRetries int

	// BaseDelay is the wait before the first retry. Retry n (0-based) waits
	// BaseDelay * 2^n unless the failure carries a provider-suggested delay.
	BaseDelay time.Duration

	// MaxDelay caps the exponential delay. Zero means uncapped.
	MaxDelay time.Duration

	// Sleep performs the wait between attempts. Defaults to ContextSleep.
	Sleep SleepFunc

	// Retryable classifies failures. Defaults to IsRetryable.
	Retryable func(error) bool
}

// DefaultConfig returns the policy used for language-model calls:
// 3 retries, waiting 1s, 2s, then 4s.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
}

// Delay returns the wait after failed attempt number attempt (0-based).
func (c Config) Delay(attempt int, err error) time.Duration {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}

	delay := c.BaseDelay
	for i := 0; i < attempt; i++ {
		delay *= 2
		if c.MaxDelay > 0 && delay >= c.MaxDelay {
			return c.MaxDelay
		}
	}
	if c.MaxDelay > 0 && delay > c.MaxDelay {
		return c.MaxDelay
	}
	return delay
}

// WithBackoff calls fn until it succeeds, fails with a non-retryable error, or
// MaxRetries retries have been spent.
//
// A non-retryable error is returned as-is. Exhaustion returns an error matching
// ErrMaxRetriesExceeded that also wraps the last failure. Cancelling ctx while
// waiting returns the context error.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}
	retryable := cfg.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 0 {
				slog.InfoContext(ctx, "operation succeeded after retry",
					slog.Int("attempt", attempt+1))
			}
			return nil
		}

		if !retryable(lastErr) {
			slog.WarnContext(ctx, "non-retryable error, aborting",
				slog.Int("attempt", attempt+1),
				slog.Any("error", lastErr))
			return lastErr
		}

		if attempt == cfg.MaxRetries {
			break
		}

		delay := cfg.Delay(attempt, lastErr)
		slog.WarnContext(ctx, "operation failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", cfg.MaxRetries+1),
			slog.Duration("delay", delay),
			slog.Any("error", lastErr))

		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, cfg.MaxRetries+1, lastErr)
}

// ContextSleep blocks for d or until ctx is done.
func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable determines if an error is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context errors are not retryable
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.ENETUNREACH)
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the status is worth retrying: 408, 429 and 5xx.
func (e *HTTPError) Temporary() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout,
		e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500 && e.StatusCode < 600:
		return true
	}
	return false
}

// RateLimitError is an HTTP 429 response. RetryAfter is the wait the provider
// suggested, or zero when none was given.
type RateLimitError struct {
	RetryAfter time.Duration
	Message    string
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %v): %s", e.RetryAfter, e.Message)
	}
	return fmt.Sprintf("rate limited: %s", e.Message)
}

// NewRateLimitError builds a RateLimitError, taking RetryAfter from a
// "try again in 1.5s" style phrase in message when present.
func NewRateLimitError(message string) *RateLimitError {
	after, _ := ParseRetryAfter(message)
	return &RateLimitError{RetryAfter: after, Message: message}
}

var retryAfterPattern = regexp.MustCompile(
	`(?i)(?:try again in|retry after)\s+(\d+(?:\.\d+)?)\s*(ms|milliseconds?|s|secs?|seconds?)\b`)

// ParseRetryAfter extracts a suggested wait from an error payload such as
// "Rate limit reached ... Please try again in 20s." or "... try again in 350ms".
func ParseRetryAfter(message string) (time.Duration, bool) {
	m := retryAfterPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value <= 0 {
		return 0, false
	}

	unit := time.Second
	if m[2][0] == 'm' || m[2][0] == 'M' {
		unit = time.Millisecond
	}
	return time.Duration(value * float64(unit)), true
}
