package requestid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{name: "with request ID", ctx: WithRequestID(context.Background(), "test-id-123"), expected: "test-id-123"},
		{name: "without request ID", ctx: context.Background(), expected: ""},
		{name: "with invalid type in context", ctx: context.WithValue(context.Background(), RequestIDKey, 12345), expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromContext(tt.ctx))
		})
	}
}

func TestEnsure(t *testing.T) {
	ctx, id := Ensure(context.Background())
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, FromContext(ctx))

	again, sameID := Ensure(ctx)
	assert.Equal(t, id, sameID)
	assert.Equal(t, ctx, again)
}

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		keepsID bool
	}{
		{name: "propagates client id", header: "client-id-1", keepsID: true},
		{name: "generates when absent", header: ""},
		{name: "replaces id with spaces", header: "bad id"},
		{name: "replaces id with quotes", header: `x"y`},
		{name: "replaces oversized id", header: strings.Repeat("a", maxIDLength+1)},
		{name: "accepts id at limit", header: strings.Repeat("a", maxIDLength), keepsID: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = FromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
			if tt.keepsID {
				assert.Equal(t, tt.header, seen)
				return
			}
			_, err := uuid.Parse(seen)
			assert.NoError(t, err, "expected a generated UUID, got %q", seen)
		})
	}
}

func TestMiddleware_UniqueIDs(t *testing.T) {
	ids := make(map[string]struct{})
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids[FromContext(r.Context())] = struct{}{}
	}))
	for i := 0; i < 50; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}
	assert.Len(t, ids, 50)
}
