// Package workflow hands generated content over to the automation pipeline.
package workflow

import (
	"context"
	"log/slog"

	"contentflow/internal/domain/entity"
)

// Dispatcher delivers a payload to the automation pipeline.
// Implementations report every failure through the outcome.
type Dispatcher interface {
	SendToKestra(ctx context.Context, payload entity.WorkflowPayload) entity.WorkflowOutcome
}

// Generator produces a ContentResult from source text.
type Generator interface {
	ProcessContent(ctx context.Context, content string, tone entity.Tone) (entity.ContentResult, error)
}

// Service sends content results to the automation pipeline.
type Service struct {
	Dispatcher Dispatcher
	Generator  Generator
}

// Send flattens result and dispatches it together with the source text.
func (s *Service) Send(ctx context.Context, result entity.ContentResult, original string, tone entity.Tone) entity.WorkflowOutcome {
	outcome := s.Dispatcher.SendToKestra(ctx, entity.NewWorkflowPayload(result, original, tone))
	if !outcome.Success && !outcome.Skipped {
		slog.WarnContext(ctx, "workflow dispatch failed",
			slog.Int("status", outcome.StatusCode),
			slog.String("error", outcome.Error))
	}
	return outcome
}

// GenerateAndSend runs generation and, when it succeeds, dispatches the result.
// A generation failure is returned as an error and nothing is sent. The
// dispatch result is always reported through the outcome.
func (s *Service) GenerateAndSend(ctx context.Context, content string, tone entity.Tone) (entity.ContentResult, entity.WorkflowOutcome, error) {
	result, err := s.Generator.ProcessContent(ctx, content, tone)
	if err != nil {
		return entity.ContentResult{}, entity.WorkflowOutcome{}, err
	}
	return result, s.Send(ctx, result, content, tone), nil
}
