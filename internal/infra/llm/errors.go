package llm

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"contentflow/internal/domain/entity"
	"contentflow/internal/resilience/circuitbreaker"
	"contentflow/internal/resilience/retry"
)

// classifyStatus maps a provider HTTP failure onto the shared error kinds.
// The retry types stay in the chain so retry.IsRetryable can inspect them.
func classifyStatus(status int, message string, retryAfter time.Duration) error {
	switch {
	case status == http.StatusTooManyRequests:
		rl := retry.NewRateLimitError(message)
		if retryAfter > 0 {
			rl.RetryAfter = retryAfter
		}
		return fmt.Errorf("%w: %w", entity.ErrTransientRemote, rl)
	case status == http.StatusRequestTimeout || status >= 500:
		return fmt.Errorf("%w: %w", entity.ErrTransientRemote, &retry.HTTPError{StatusCode: status, Message: message})
	default:
		return fmt.Errorf("%w: %w", entity.ErrPermanentRemote, &retry.HTTPError{StatusCode: status, Message: message})
	}
}

// breakerNeutral keeps caller mistakes and rate limiting from tripping the
// breaker. A 429 means the provider is up; the retry loop already backs off.
func breakerNeutral(err error) bool {
	var rl *retry.RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	return errors.Is(err, entity.ErrPermanentRemote) || errors.Is(err, entity.ErrMalformedResponse)
}

func newBreaker(provider string) *circuitbreaker.CircuitBreaker {
	cfg := circuitbreaker.LLMConfig(provider)
	cfg.Neutral = breakerNeutral
	return circuitbreaker.New(cfg)
}

// StatusCode returns the provider HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var rl *retry.RateLimitError
	if errors.As(err, &rl) {
		return http.StatusTooManyRequests
	}
	var httpErr *retry.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
