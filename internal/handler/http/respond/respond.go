// Package respond provides utilities for sending HTTP responses in JSON format.
// It maps the domain error kinds to status codes and sanitizes messages so
// credentials never reach a client.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"contentflow/internal/domain/entity"
	"contentflow/internal/resilience/circuitbreaker"
	"contentflow/internal/resilience/retry"
)

// JSON writes a JSON response with the given status code and data.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			// Log the error but cannot send error response as headers already sent
			slog.Default().Error("failed to encode JSON response",
				slog.Int("status_code", code),
				slog.Any("error", err))
		}
	}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// AppError carries a user-facing message next to the internal error.
type AppError struct {
	UserMsg string // Message to display to users
	Err     error  // Internal error (logged for debugging)
	Code    int    // HTTP status code
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.UserMsg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// Classify returns the HTTP status and a short kind label for err.
//
//	ErrInvalidInput       400 invalid_input
//	ErrConfiguration      503 configuration
//	circuit open          503 unavailable
//	ErrTransientRemote    502 upstream_unavailable (also exhausted retries)
//	ErrPermanentRemote    502 upstream_rejected
//	ErrMalformedResponse  502 upstream_malformed
//	ErrNetwork            502 network
//	deadline exceeded     504 timeout
//	anything else         500 internal
func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, entity.ErrConfiguration):
		return http.StatusServiceUnavailable, "configuration"
	case errors.Is(err, circuitbreaker.ErrOpen):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, entity.ErrTransientRemote), errors.Is(err, retry.ErrMaxRetriesExceeded):
		return http.StatusBadGateway, "upstream_unavailable"
	case errors.Is(err, entity.ErrPermanentRemote):
		return http.StatusBadGateway, "upstream_rejected"
	case errors.Is(err, entity.ErrMalformedResponse):
		return http.StatusBadGateway, "upstream_malformed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, entity.ErrNetwork):
		return http.StatusBadGateway, "network"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// Failure writes err using Classify. Messages of 4xx and classified 5xx
// errors are returned sanitized; unclassified errors become
// "internal server error" and are logged.
func Failure(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Err != nil {
			slog.ErrorContext(r.Context(), "application error",
				slog.String("status", http.StatusText(appErr.Code)),
				slog.Int("code", appErr.Code),
				slog.String("user_message", appErr.UserMsg),
				slog.Any("error", SanitizeError(appErr.Err)))
		}
		JSON(w, appErr.Code, ErrorBody{Error: appErr.UserMsg})
		return
	}

	code, kind := Classify(err)
	if kind == "internal" {
		slog.ErrorContext(r.Context(), "internal server error",
			slog.String("path", r.URL.Path),
			slog.Any("error", SanitizeError(err)))
		JSON(w, code, ErrorBody{Error: "internal server error", Kind: kind})
		return
	}

	level := slog.LevelWarn
	if code >= 500 {
		level = slog.LevelError
	}
	slog.Log(r.Context(), level, "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("code", code),
		slog.String("kind", kind),
		slog.Any("error", SanitizeError(err)))
	JSON(w, code, ErrorBody{Error: SanitizeError(err), Kind: kind})
}
