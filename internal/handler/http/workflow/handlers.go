// Package workflow provides the HTTP handlers that forward generated content
// to the automation pipeline.
package workflow

import (
	"context"
	"net/http"

	"contentflow/internal/domain/entity"
	"contentflow/internal/handler/http/respond"
)

// Sender dispatches content to the automation pipeline.
type Sender interface {
	Send(ctx context.Context, result entity.ContentResult, original string, tone entity.Tone) entity.WorkflowOutcome
	GenerateAndSend(ctx context.Context, content string, tone entity.Tone) (entity.ContentResult, entity.WorkflowOutcome, error)
}

// SendRequest is the body of POST /workflow/send.
type SendRequest struct {
	Result          entity.ContentResult `json:"result"`
	OriginalContent string               `json:"originalContent"`
	Tone            string               `json:"tone,omitempty"`
}

// RunRequest is the body of POST /workflow/run.
type RunRequest struct {
	Content string `json:"content"`
	Tone    string `json:"tone,omitempty"`
}

// RunResponse carries both halves of a generate-and-send call.
type RunResponse struct {
	Result  entity.ContentResult   `json:"result"`
	Outcome entity.WorkflowOutcome `json:"outcome"`
}

// SendHandler serves POST /workflow/send. The outcome is always the body;
// the status is 200 for a delivered (or skipped) run and 502 otherwise.
type SendHandler struct{ Svc Sender }

func (h SendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}
	tone, err := entity.ParseTone(req.Tone)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}
	if len(req.Result.Summary) == 0 && req.Result.SEOTitle == "" {
		respond.Failure(w, r, &entity.ValidationError{Field: "result", Message: "generated content is required"})
		return
	}

	outcome := h.Svc.Send(r.Context(), req.Result, req.OriginalContent, tone)
	respond.JSON(w, outcomeStatus(outcome), outcome)
}

// RunHandler serves POST /workflow/run: generate, then dispatch.
type RunHandler struct{ Svc Sender }

func (h RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.Failure(w, r, err)
		return
	}
	tone, err := entity.ParseTone(req.Tone)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}

	result, outcome, err := h.Svc.GenerateAndSend(r.Context(), req.Content, tone)
	if err != nil {
		respond.Failure(w, r, err)
		return
	}
	respond.JSON(w, outcomeStatus(outcome), RunResponse{Result: result, Outcome: outcome})
}

func outcomeStatus(outcome entity.WorkflowOutcome) int {
	if outcome.Success || outcome.Skipped {
		return http.StatusOK
	}
	return http.StatusBadGateway
}

// Register registers the workflow routes. limit wraps the generating route.
func Register(mux *http.ServeMux, svc Sender, limit func(http.Handler) http.Handler) {
	var run http.Handler = RunHandler{Svc: svc}
	if limit != nil {
		run = limit(run)
	}
	mux.Handle("POST /workflow/send", SendHandler{Svc: svc})
	mux.Handle("POST /workflow/run", run)
}
