// Package config provides typed lookups over a key/value source such as the
// process environment.
//
// Lookups never fail: an unset key yields the default, and an unparsable value
// yields the default plus a warning log. Callers validate the assembled
// configuration afterwards.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Source resolves a configuration key to its raw string value.
// An empty string means the key is unset.
type Source func(key string) string

// OSEnv reads keys from the process environment.
var OSEnv Source = os.Getenv

// MapSource returns a Source backed by a fixed map. It is mostly used in tests.
//
// Example:
//
//	src := config.MapSource(map[string]string{"APP_ENV": "development"})
//	mode := src.String("APP_ENV", "production") // "development"
func MapSource(values map[string]string) Source {
	return func(key string) string {
		return values[key]
	}
}

// String returns the trimmed value of key or defaultValue if it is unset.
func (s Source) String(key, defaultValue string) string {
	value := strings.TrimSpace(s(key))
	if value == "" {
		return defaultValue
	}
	return value
}

// Int returns the value of key as an integer.
//
// If the key is unset or cannot be parsed, defaultValue is returned and a
// warning is logged for the parse failure.
func (s Source) Int(key string, defaultValue int) int {
	raw := strings.TrimSpace(s(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		slog.Warn("invalid integer value for configuration key, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Int("default", defaultValue),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// Float returns the value of key as a float64.
func (s Source) Float(key string, defaultValue float64) float64 {
	raw := strings.TrimSpace(s(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		slog.Warn("invalid float value for configuration key, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Float64("default", defaultValue),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// Bool returns the value of key as a boolean.
//
// Accepted values are those understood by strconv.ParseBool
// ("1", "t", "true", "0", "f", "false", in any case).
func (s Source) Bool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(s(key))
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("invalid boolean value for configuration key, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.Bool("default", defaultValue))
		return defaultValue
	}
	return value
}

// Duration returns the value of key parsed by time.ParseDuration ("500ms", "10s", "1m").
func (s Source) Duration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(s(key))
	if raw == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration value for configuration key, using default",
			slog.String("key", key),
			slog.String("value", raw),
			slog.String("default", defaultValue.String()),
			slog.String("error", err.Error()))
		return defaultValue
	}
	return value
}

// StringList splits a comma-separated value, trimming each element and
// dropping empty ones. defaultValue is returned when nothing remains.
func (s Source) StringList(key string, defaultValue []string) []string {
	raw := s(key)
	if strings.TrimSpace(raw) == "" {
		return defaultValue
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
