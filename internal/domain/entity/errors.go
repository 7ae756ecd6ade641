package entity

import (
	"errors"
	"fmt"
)

// Error kinds shared by every outbound client. Clients wrap one of these with
// %w so callers classify failures with errors.Is.
var (
	// ErrConfiguration indicates a credential or required setting is absent.
	// No network attempt is made when this is returned.
	ErrConfiguration = errors.New("configuration error")

	// ErrTransientRemote indicates a rate-limit or server-side failure that
	// may succeed when retried.
	ErrTransientRemote = errors.New("transient remote error")

	// ErrPermanentRemote indicates a non-retryable rejection by the remote
	// side (for example a 4xx other than 429).
	ErrPermanentRemote = errors.New("permanent remote error")

	// ErrNetwork indicates a transport-level failure (DNS, refused, reset, timeout).
	ErrNetwork = errors.New("network error")

	// ErrMalformedResponse indicates the remote answered but the body lacked
	// the expected content.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with detailed field information.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
