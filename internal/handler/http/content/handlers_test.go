package content_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentflow/internal/domain/entity"
	"contentflow/internal/handler/http/content"
	"contentflow/internal/handler/http/respond"
	"contentflow/internal/resilience/retry"
	contentUC "contentflow/internal/usecase/content"
)

type stubGenerator struct {
	result entity.ContentResult
	err    error

	gotContent string
	gotTone    entity.Tone
	calls      int
}

func (s *stubGenerator) ProcessContent(_ context.Context, text string, tone entity.Tone) (entity.ContentResult, error) {
	s.calls++
	s.gotContent, s.gotTone = text, tone
	return s.result, s.err
}

type stubImporter struct {
	article entity.ImportedArticle
	err     error
}

func (s *stubImporter) Import(_ context.Context, _ string) (entity.ImportedArticle, error) {
	return s.article, s.err
}

func sampleResult() entity.ContentResult {
	return entity.ContentResult{
		SEOTitle:        "Go Retries",
		MetaDescription: "How to retry.",
		Summary:         []string{"one", "two", "three"},
		SocialPosts:     entity.SocialPosts{Twitter: "tweet", LinkedIn: "post"},
	}
}

func post(t *testing.T, h http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateHandler_Success(t *testing.T) {
	gen := &stubGenerator{result: sampleResult()}

	rec := post(t, content.GenerateHandler{Svc: gen}, "/content/generate",
		`{"content":"Some text","tone":"Witty"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got entity.ContentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, sampleResult(), got)
	assert.Equal(t, "Some text", gen.gotContent)
	assert.Equal(t, entity.ToneWitty, gen.gotTone)
}

func TestGenerateHandler_DefaultTone(t *testing.T) {
	gen := &stubGenerator{result: sampleResult()}

	post(t, content.GenerateHandler{Svc: gen}, "/content/generate", `{"content":"x"}`)

	assert.Equal(t, entity.ToneProfessional, gen.gotTone)
}

func TestGenerateHandler_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantKind string
		noCall   bool
	}{
		{name: "malformed json", body: `{`, wantCode: http.StatusBadRequest, wantKind: "invalid_input", noCall: true},
		{name: "unknown field", body: `{"text":"x"}`, wantCode: http.StatusBadRequest, wantKind: "invalid_input", noCall: true},
		{name: "unknown tone", body: `{"content":"x","tone":"sarcastic"}`, wantCode: http.StatusBadRequest, wantKind: "invalid_input", noCall: true},
		{
			name:     "missing api key",
			body:     `{"content":"x"}`,
			err:      &contentUC.GenerationError{Err: fmt.Errorf("%w: language model API key not configured", entity.ErrConfiguration)},
			wantCode: http.StatusServiceUnavailable,
			wantKind: "configuration",
		},
		{
			name:     "retries exhausted",
			body:     `{"content":"x"}`,
			err:      &contentUC.GenerationError{Artifact: "title", Err: fmt.Errorf("%w: 429", retry.ErrMaxRetriesExceeded)},
			wantCode: http.StatusBadGateway,
			wantKind: "upstream_unavailable",
		},
		{
			name:     "empty content",
			body:     `{"content":"   "}`,
			err:      &contentUC.GenerationError{Err: &entity.ValidationError{Field: "content", Message: "content is required"}},
			wantCode: http.StatusBadRequest,
			wantKind: "invalid_input",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &stubGenerator{err: tt.err}

			rec := post(t, content.GenerateHandler{Svc: gen}, "/content/generate", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
			var body respond.ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.Kind)
			assert.NotEmpty(t, body.Error)
			if tt.noCall {
				assert.Zero(t, gen.calls)
			}
		})
	}
}

func TestImportHandler(t *testing.T) {
	imp := &stubImporter{article: entity.ImportedArticle{URL: "https://example.com/a", Title: "Title", Text: "Body"}}

	rec := post(t, content.ImportHandler{Svc: imp}, "/content/import", `{"url":"https://example.com/a"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got content.ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Title", got.Article.Title)
	assert.Equal(t, "Title\n\nBody", got.SourceText)
}

func TestImportHandler_RemoteFailure(t *testing.T) {
	imp := &stubImporter{err: fmt.Errorf("%w: status 503", entity.ErrTransientRemote)}

	rec := post(t, content.ImportHandler{Svc: imp}, "/content/import", `{"url":"https://example.com/a"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRegister_LimitsOnlyGeneration(t *testing.T) {
	var limited []string
	limit := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limited = append(limited, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
	mux := http.NewServeMux()
	content.Register(mux, &stubGenerator{result: sampleResult()}, &stubImporter{}, limit)

	assert.Equal(t, http.StatusOK, post(t, mux, "/content/generate", `{"content":"x"}`).Code)
	assert.Equal(t, http.StatusOK, post(t, mux, "/content/import", `{"url":"https://example.com"}`).Code)
	assert.Equal(t, []string{"/content/generate"}, limited)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/content/generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
