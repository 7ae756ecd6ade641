package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileSource reads a flat YAML mapping of keys to scalar values, for example
//
//	LLM_PROVIDER: claude
//	WEBHOOK_TIMEOUT: 15s
//	CONTENT_FETCH_DENY_PRIVATE_IPS: false
//
// Nested mappings and lists are rejected.
func FileSource(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	values := make(map[string]string, len(raw))
	for key, v := range raw {
		switch v := v.(type) {
		case nil:
		case string:
			values[key] = v
		case bool:
			values[key] = strconv.FormatBool(v)
		case int:
			values[key] = strconv.Itoa(v)
		case float64:
			values[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("config file %s: key %s must be a scalar", path, key)
		}
	}
	return MapSource(values), nil
}

// Layered returns a Source that asks each source in order and returns the
// first non-empty value.
func Layered(sources ...Source) Source {
	return func(key string) string {
		for _, src := range sources {
			if src == nil {
				continue
			}
			if v := src(key); v != "" {
				return v
			}
		}
		return ""
	}
}
