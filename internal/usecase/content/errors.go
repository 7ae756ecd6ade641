// Package content implements generation of the SEO title, meta description,
// summary bullets and social posts for a piece of source text.
package content

import (
	"errors"
	"fmt"
)

// ErrEmptySummary indicates the model returned no usable bullet points.
var ErrEmptySummary = errors.New("summary response contained no bullet points")

// GenerationError reports which artifact failed to generate.
type GenerationError struct {
	// Artifact is "title", "description", "summary", "social" or "" when
	// the failure happened before any prompt was sent.
	Artifact string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Artifact == "" {
		return fmt.Sprintf("content generation failed: %v", e.Err)
	}
	return fmt.Sprintf("content generation failed (%s): %v", e.Artifact, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
