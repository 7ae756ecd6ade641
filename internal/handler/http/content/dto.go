// Package content provides the HTTP handlers for content generation and
// URL article import.
package content

import "contentflow/internal/domain/entity"

// GenerateRequest is the body of POST /content/generate.
type GenerateRequest struct {
	Content string `json:"content"`
	Tone    string `json:"tone,omitempty"`
}

// ImportRequest is the body of POST /content/import.
type ImportRequest struct {
	URL string `json:"url"`
}

// ImportResponse returns the imported article together with the text that
// should be fed to generation.
type ImportResponse struct {
	Article    entity.ImportedArticle `json:"article"`
	SourceText string                 `json:"sourceText"`
}
