// Package requestid carries a per-request correlation id through the context.
// The id is logged with every record (see logging.New) and forwarded to the
// automation webhook as X-Request-ID.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey is the context key for storing request IDs.
	RequestIDKey contextKey = "request_id"
	// RequestIDHeader is the HTTP header name for request IDs.
	RequestIDHeader = "X-Request-ID"

	maxIDLength = 128
)

// FromContext returns the request ID, or "" when none is set.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// Ensure returns ctx unchanged when it already carries an id. Otherwise it
// attaches a new UUID v4. The CLI uses it to give each action an id.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithRequestID(ctx, id), id
}

// Middleware propagates X-Request-ID or generates a UUID v4 when the header
// is absent or unusable. The id is echoed in the response header.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if !valid(requestID) {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), requestID)))
	})
}

// valid accepts ids of printable ASCII without spaces so a client cannot
// inject line breaks or quotes into log records.
func valid(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' || id[i] == '"' {
			return false
		}
	}
	return true
}
