package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelay(upstream string) *Handler {
	cfg := DefaultConfig()
	cfg.UpstreamURL = upstream
	cfg.Timeout = 2 * time.Second
	return NewHandler(cfg)
}

func assertCORS(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,PUT,OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
}

func TestHandler_ForwardsRequest(t *testing.T) {
	var got struct {
		method, path, query, contentType, auth, body string
	}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got.method = r.Method
		got.path = r.URL.Path
		got.query = r.URL.RawQuery
		got.contentType = r.Header.Get("Content-Type")
		got.auth = r.Header.Get("Authorization")
		got.body = string(b)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"exec-9"}`))
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodPost,
		"/relay/api/v1/executions/webhook/ns/flow/from-web?key=secret", strings.NewReader(`{"a":1}`))
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()

	newRelay(upstream.URL).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"id":"exec-9"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assertCORS(t, rec.Header())

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/v1/executions/webhook/ns/flow/from-web", got.path)
	assert.Equal(t, "key=secret", got.query)
	assert.Equal(t, "application/json", got.contentType, "defaults when the caller sent none")
	assert.Equal(t, "Basic abc", got.auth)
	assert.Equal(t, `{"a":1}`, got.body)
}

func TestHandler_PreservesContentType(t *testing.T) {
	var contentType string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer upstream.Close()

	req := httptest.NewRequest(http.MethodPut, "/relay/x", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	newRelay(upstream.URL).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "application/x-www-form-urlencoded", contentType)
}

func TestHandler_MirrorsUpstreamErrors(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such flow"))
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	newRelay(upstream.URL).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/relay/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no such flow", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestHandler_Preflight(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight must not be forwarded")
	}))
	defer upstream.Close()

	rec := httptest.NewRecorder()
	newRelay(upstream.URL).ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/relay/anything", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assertCORS(t, rec.Header())
}

func TestHandler_UpstreamUnreachable(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	rec := httptest.NewRecorder()
	newRelay(url).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/relay/hook?key=secret", strings.NewReader("{}")))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assertCORS(t, rec.Header())

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Proxy error", body["error"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, url+"/hook?redacted", body["target"])
	assert.NotContains(t, rec.Body.String(), "secret")
}

func TestHandler_BodyTooLarge(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("oversized body must not be forwarded")
	}))
	defer upstream.Close()

	cfg := DefaultConfig()
	cfg.UpstreamURL = upstream.URL
	cfg.MaxBodySize = 8
	rec := httptest.NewRecorder()

	NewHandler(cfg).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/relay/x", strings.NewReader(strings.Repeat("x", 64))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandler_Target(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		path   string
		want   string
	}{
		{name: "strips prefix", prefix: "/relay", path: "/relay/api/v1/x?k=1", want: "https://kestra.example.com/api/v1/x?k=1"},
		{name: "prefix only", prefix: "/relay", path: "/relay", want: "https://kestra.example.com"},
		{name: "no prefix", prefix: "", path: "/api/v1/x", want: "https://kestra.example.com/api/v1/x"},
		{name: "trailing slash prefix", prefix: "relay/", path: "/relay/a", want: "https://kestra.example.com/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(Config{UpstreamURL: "https://kestra.example.com/", Prefix: tt.prefix, Timeout: time.Second})
			assert.Equal(t, tt.want, h.Target(httptest.NewRequest(http.MethodGet, tt.path, nil)))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorContains(t, cfg.Validate(), "RELAY_UPSTREAM_URL")

	cfg.UpstreamURL = "kestra:8080"
	assert.ErrorContains(t, cfg.Validate(), "http(s)")

	cfg.UpstreamURL = "http://kestra:8080"
	assert.NoError(t, cfg.Validate())
}
