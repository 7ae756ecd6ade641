package content

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"contentflow/internal/domain/entity"
	"contentflow/internal/observability/metrics"
	"contentflow/internal/observability/tracing"
	"contentflow/internal/utils/text"
)

// Completer is the language-model dependency of the Service.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Configured() bool
}

// Service generates ContentResults.
type Service struct {
	Completer Completer
	now       func() time.Time
}

// NewService creates a content Service backed by completer.
func NewService(completer Completer) *Service {
	return &Service{Completer: completer, now: time.Now}
}

// ProcessContent runs the four generation prompts concurrently and assembles
// the result. Any failing prompt cancels the others and fails the call; no
// partial result is returned.
//
// The returned error is a *GenerationError. Use errors.Is with the entity
// error kinds to tell configuration, remote and malformed-reply failures apart.
func (s *Service) ProcessContent(ctx context.Context, content string, tone entity.Tone) (result entity.ContentResult, err error) {
	start := s.now()
	ctx, span := tracing.StartSpan(ctx, "content.generate",
		attribute.String("tone", string(tone)),
		attribute.Int("content_length", text.CountRunes(content)))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.RecordContentGeneration(err == nil, s.now().Sub(start))
	}()

	if err := entity.ValidateContent(content); err != nil {
		return entity.ContentResult{}, &GenerationError{Err: err}
	}
	if !tone.Valid() {
		return entity.ContentResult{}, &GenerationError{
			Err: &entity.ValidationError{Field: "tone", Message: fmt.Sprintf("unknown tone %q", tone)},
		}
	}
	if !s.Completer.Configured() {
		return entity.ContentResult{}, &GenerationError{
			Err: fmt.Errorf("%w: language model API key not configured", entity.ErrConfiguration),
		}
	}

	var title, description, summaryReply, socialReply string

	g, gctx := errgroup.WithContext(ctx)
	run := func(artifact, prompt string, out *string) {
		g.Go(func() error {
			reply, err := s.Completer.Complete(gctx, prompt)
			if err != nil {
				return &GenerationError{Artifact: artifact, Err: err}
			}
			*out = reply
			return nil
		})
	}
	run(artifactTitle, titlePrompt(content), &title)
	run(artifactDescription, descriptionPrompt(content), &description)
	run(artifactSummary, summaryPrompt(content), &summaryReply)
	run(artifactSocial, socialPrompt(content, tone), &socialReply)

	if err := g.Wait(); err != nil {
		slog.WarnContext(ctx, "content generation failed",
			slog.String("tone", string(tone)),
			slog.Any("error", err))
		return entity.ContentResult{}, err
	}

	summary, err := parseSummary(summaryReply)
	if err != nil {
		return entity.ContentResult{}, &GenerationError{
			Artifact: artifactSummary,
			Err:      fmt.Errorf("%w: %w", entity.ErrMalformedResponse, err),
		}
	}

	result = entity.ContentResult{
		SEOTitle:        cleanLine(title),
		MetaDescription: cleanLine(description),
		Summary:         summary,
		SocialPosts:     parseSocial(socialReply),
	}

	slog.InfoContext(ctx, "content generated",
		slog.String("tone", string(tone)),
		slog.Int("title_length", text.CountRunes(result.SEOTitle)),
		slog.Int("description_length", text.CountRunes(result.MetaDescription)),
		slog.Duration("duration", s.now().Sub(start)))

	return result, nil
}
