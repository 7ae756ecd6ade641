package workflow_test

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
	"contentflow/internal/handler/http/workflow"
)

type stubSender struct {
	outcome entity.WorkflowOutcome
	result  entity.ContentResult
	err     error

	sent     entity.ContentResult
	original string
	tone     entity.Tone
	sends    int
}

func (s *stubSender) Send(_ context.Context, result entity.ContentResult, original string, tone entity.Tone) entity.WorkflowOutcome {
	s.sends++
	s.sent, s.original, s.tone = result, original, tone
	return s.outcome
}

func (s *stubSender) GenerateAndSend(_ context.Context, content string, tone entity.Tone) (entity.ContentResult, entity.WorkflowOutcome, error) {
	s.original, s.tone = content, tone
	if s.err != nil {
		return entity.ContentResult{}, entity.WorkflowOutcome{}, s.err
	}
	s.sends++
	return s.result, s.outcome, nil
}

const sendBody = `{
	"result": {
		"seoTitle": "Title",
		"metaDescription": "Meta",
		"summary": ["a", "b", "c"],
		"socialPosts": {"twitter": "t", "linkedin": "l"}
	},
	"originalContent": "source text",
	"tone": "technical"
}`

func post(h http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSendHandler(t *testing.T) {
	tests := []struct {
		name     string
		outcome  entity.WorkflowOutcome
		wantCode int
	}{
		{name: "delivered", outcome: entity.WorkflowOutcome{Success: true, StatusCode: 200}, wantCode: http.StatusOK},
		{name: "skipped", outcome: entity.WorkflowOutcome{Skipped: true, StatusCode: 204}, wantCode: http.StatusOK},
		{name: "not found", outcome: entity.WorkflowOutcome{StatusCode: 404, Error: "Automation endpoint not found."}, wantCode: http.StatusBadGateway},
		{name: "not configured", outcome: entity.WorkflowOutcome{Error: "Automation pipeline is not configured"}, wantCode: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubSender{outcome: tt.outcome}

			rec := post(workflow.SendHandler{Svc: svc}, "/workflow/send", sendBody)

			assert.Equal(t, tt.wantCode, rec.Code)
			var got entity.WorkflowOutcome
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.outcome, got)

			assert.Equal(t, "Title", svc.sent.SEOTitle)
			assert.Equal(t, []string{"a", "b", "c"}, svc.sent.Summary)
			assert.Equal(t, "source text", svc.original)
			assert.Equal(t, entity.ToneTechnical, svc.tone)
		})
	}
}

func TestSendHandler_RejectsEmptyResult(t *testing.T) {
	svc := &stubSender{}

	rec := post(workflow.SendHandler{Svc: svc}, "/workflow/send", `{"originalContent":"x"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, svc.sends)
}

func TestRunHandler(t *testing.T) {
	svc := &stubSender{
		result:  entity.ContentResult{SEOTitle: "Title", Summary: []string{"a", "b", "c"}},
		outcome: entity.WorkflowOutcome{Success: true, StatusCode: 201},
	}

	rec := post(workflow.RunHandler{Svc: svc}, "/workflow/run", `{"content":"text"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got workflow.RunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Title", got.Result.SEOTitle)
	assert.True(t, got.Outcome.Success)
	assert.Equal(t, entity.ToneProfessional, svc.tone)
}

func TestRunHandler_GenerationFailureSendsNothing(t *testing.T) {
	svc := &stubSender{err: fmt.Errorf("%w: 401", entity.ErrPermanentRemote)}

	rec := post(workflow.RunHandler{Svc: svc}, "/workflow/run", `{"content":"text"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"upstream_rejected"`)
	assert.Zero(t, svc.sends)
}
