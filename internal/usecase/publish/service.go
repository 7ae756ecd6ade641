// Package publish turns generated content into blog-post drafts and commits
// them to the blog repository.
package publish

import (
	"context"
	"errors"
	"time"

	"contentflow/internal/domain/entity"
	"contentflow/internal/infra/markdown"
)

// Committer stores a post in the blog repository.
type Committer interface {
	CommitBlogPost(ctx context.Context, post *entity.BlogPost) entity.CommitResult
	CheckRepositoryAccess(ctx context.Context) entity.AccessResult
}

// Edit is a partial update of a draft. Nil fields are left unchanged.
type Edit struct {
	Title      *string `json:"title,omitempty"`
	Slug       *string `json:"slug,omitempty"`
	Meta       *string `json:"meta,omitempty"`
	Content    *string `json:"content,omitempty"`
	Date       *string `json:"date,omitempty"`
	Tags       *string `json:"tags,omitempty"`
	CoverImage *string `json:"coverImage,omitempty"`
	// AutoTags re-derives the tags after the other fields are applied.
	AutoTags bool `json:"autoTags,omitempty"`
}

// Service builds drafts and publishes them.
type Service struct {
	Committer Committer
	now       func() time.Time
}

// NewService creates a publish Service.
func NewService(committer Committer) *Service {
	return &Service{Committer: committer, now: time.Now}
}

// WithClock replaces the clock used for draft dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// NewDraft builds an editable post from a generation result and its source text.
func (s *Service) NewDraft(result entity.ContentResult, content string) *entity.BlogPost {
	return entity.NewBlogPost(result, content, s.now().UTC())
}

// ApplyEdit applies e to post. Title is applied before Slug so an explicit
// slug wins over the regenerated one. All validation errors are returned
// joined; valid fields are still applied.
func ApplyEdit(post *entity.BlogPost, e Edit) error {
	var errs []error
	if e.Title != nil {
		post.SetTitle(*e.Title)
	}
	if e.Slug != nil {
		post.SetSlug(*e.Slug)
	}
	if e.Meta != nil {
		post.SetMeta(*e.Meta)
	}
	if e.Content != nil {
		post.SetContent(*e.Content)
	}
	if e.Date != nil {
		errs = append(errs, post.SetDate(*e.Date))
	}
	if e.Tags != nil {
		post.SetTagsCSV(*e.Tags)
	}
	if e.CoverImage != nil {
		errs = append(errs, post.SetCoverImage(*e.CoverImage))
	}
	if e.AutoTags {
		post.AutoTags()
	}
	return errors.Join(errs...)
}

// Preview renders post for display without publishing it.
func (s *Service) Preview(post *entity.BlogPost) (markdown.Preview, error) {
	return markdown.BuildPreview(post)
}

// Publish validates post and commits it. Validation failures are reported
// in the result like every other failure.
func (s *Service) Publish(ctx context.Context, post *entity.BlogPost) entity.CommitResult {
	if err := ValidateDraft(post); err != nil {
		return entity.CommitResult{Error: err.Error()}
	}
	return s.Committer.CommitBlogPost(ctx, post)
}

// CheckAccess reports whether the blog repository is reachable.
func (s *Service) CheckAccess(ctx context.Context) entity.AccessResult {
	return s.Committer.CheckRepositoryAccess(ctx)
}

// ValidateDraft checks the fields a committed post cannot do without.
func ValidateDraft(post *entity.BlogPost) error {
	if post == nil {
		return &entity.ValidationError{Field: "post", Message: "post is required"}
	}
	if entity.Slugify(post.Title) == "" {
		return &entity.ValidationError{Field: "title", Message: "title must contain at least one letter or digit"}
	}
	if err := entity.ValidateContent(post.Content); err != nil {
		return err
	}
	return nil
}
