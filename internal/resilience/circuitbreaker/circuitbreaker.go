// Package circuitbreaker guards the outbound model and import calls with
// github.com/sony/gobreaker, so a provider outage fails fast instead of
// piling up retries.
package circuitbreaker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"contentflow/internal/observability/metrics"
)

// ErrOpen is returned by Run while the circuit is open or the half-open
// request budget is spent.
var ErrOpen = errors.New("circuit breaker open")

// Config holds the configuration for a circuit breaker.
type Config struct {
	// Name is the circuit breaker name for logging and metrics
	Name string

	// MaxRequests is the maximum number of requests allowed in half-open state
	MaxRequests uint32

	// Interval is the cyclic period of the closed state to clear success/failure counts
	Interval time.Duration

	// Timeout is how long to wait in open state before trying again
	Timeout time.Duration

	// FailureThreshold is the failure ratio threshold to trip the circuit
	// For example, 0.6 means 60% failure rate
	FailureThreshold float64

	// MinRequests is the minimum number of requests before calculating failure ratio
	MinRequests uint32

	// Neutral reports errors that should not count as failures, such as a
	// request the remote side rejected as malformed. Nil counts every error.
	Neutral func(error) bool
}

// DefaultConfig returns a default configuration for circuit breakers.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// llmMinRequests exceeds the attempts of one generation (four prompts, each
// with up to three retries), so a single request cannot open the circuit on
// its own.
const llmMinRequests = 20

// LLMConfig returns configuration for a language-model provider.
func LLMConfig(provider string) Config {
	cfg := DefaultConfig(provider + "-api")
	cfg.MinRequests = llmMinRequests
	return cfg
}

// ContentFetchConfig returns configuration for article import.
// More conservative than API calls because target sites change structure.
func ContentFetchConfig() Config {
	return Config{
		Name:             "content-fetch",
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          5 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// CircuitBreaker wraps gobreaker.CircuitBreaker and reports ErrOpen instead
// of the library's sentinel errors.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New creates a circuit breaker. Its state is exported as the
// circuit_breaker_state gauge labelled with cfg.Name.
func New(cfg Config) *CircuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(stateValue(gobreaker.StateClosed))

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			slog.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	}
	if cfg.Neutral != nil {
		neutral := cfg.Neutral
		settings.IsSuccessful = func(err error) bool {
			return err == nil || neutral(err)
		}
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewCircuitBreaker(settings),
		name:    cfg.Name,
	}
}

// Run executes fn through the breaker. Rejections caused by the breaker
// itself are reported as ErrOpen; fn's own errors are returned unchanged.
func (cb *CircuitBreaker) Run(fn func() error) error {
	_, err := cb.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", cb.name, ErrOpen)
	}
	return err
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

// Name returns the name of the circuit breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// IsOpen returns true if the circuit breaker is in the open state.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
