// Package markdown renders blog posts as Markdown documents with a YAML front
// matter block and reads that block back.
//
// A rendered document has the shape
//
//	---
//	title: ...
//	description: ...
//	---
//
//	{content}
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"contentflow/internal/domain/entity"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

const delimiter = "---\n"

// ErrNoFrontMatter is returned when a document does not start with a
// delimited front matter block.
var ErrNoFrontMatter = errors.New("document has no front matter")

// FrontMatter is the YAML header of a post. Field order is the key order of
// the rendered document.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Slug        string   `yaml:"slug"`
	Summary     []string `yaml:"summary"`
	Social      Social   `yaml:"social"`
	CoverImage  string   `yaml:"coverImage,omitempty"`
}

// Social holds the social posts in the front matter.
type Social struct {
	Twitter  string `yaml:"twitter"`
	LinkedIn string `yaml:"linkedin"`
}

// FrontMatterOf projects a post onto its front matter.
func FrontMatterOf(post *entity.BlogPost) FrontMatter {
	return FrontMatter{
		Title:       post.Title,
		Description: post.Meta,
		Date:        post.Date,
		Tags:        nonNil(post.Tags),
		Slug:        post.Slug,
		Summary:     nonNil(post.Summary),
		Social: Social{
			Twitter:  post.SocialPosts.Twitter,
			LinkedIn: post.SocialPosts.LinkedIn,
		},
		CoverImage: post.CoverImage,
	}
}

// nonNil keeps empty lists rendered as [] rather than null.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Render produces the full Markdown document for post.
func Render(post *entity.BlogPost) (string, error) {
	header, err := encodeFrontMatter(FrontMatterOf(post))
	if err != nil {
		return "", err
	}
	return delimiter + header + delimiter + "\n" + post.Content + "\n", nil
}

func encodeFrontMatter(fm FrontMatter) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	return buf.String(), nil
}

// ParseFrontMatter splits doc into its decoded front matter and body.
// The body has the blank separator line and trailing newline removed.
func ParseFrontMatter(doc string) (FrontMatter, string, error) {
	if !strings.HasPrefix(doc, delimiter) {
		return FrontMatter{}, "", ErrNoFrontMatter
	}
	rest := doc[len(delimiter):]

	end := strings.Index(rest, "\n"+delimiter)
	var header, body string
	switch {
	case strings.HasPrefix(rest, delimiter):
		body = rest[len(delimiter):]
	case end >= 0:
		header = rest[:end+1]
		body = rest[end+1+len(delimiter):]
	default:
		return FrontMatter{}, "", ErrNoFrontMatter
	}

	var fm FrontMatter
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return FrontMatter{}, "", fmt.Errorf("decode front matter: %w", err)
	}
	return fm, trimBody(body), nil
}

func trimBody(body string) string {
	body = strings.TrimPrefix(body, "\n")
	return strings.TrimSuffix(body, "\n")
}

// Preview is a rendered post split for display.
type Preview struct {
	// FrontMatter is the YAML header without delimiters.
	FrontMatter string `json:"frontmatter"`
	// Content is the Markdown body.
	Content string `json:"content"`
	// Full is the complete document as it would be committed.
	Full string `json:"fullMarkdown"`
	// HTML is the body rendered to HTML.
	HTML string `json:"html"`
}

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// BuildPreview renders post and its HTML body.
func BuildPreview(post *entity.BlogPost) (Preview, error) {
	full, err := Render(post)
	if err != nil {
		return Preview{}, err
	}
	header, err := encodeFrontMatter(FrontMatterOf(post))
	if err != nil {
		return Preview{}, err
	}

	html, err := ToHTML(post.Content)
	if err != nil {
		return Preview{}, err
	}

	return Preview{
		FrontMatter: strings.TrimSpace(header),
		Content:     strings.TrimSpace(post.Content),
		Full:        full,
		HTML:        html,
	}, nil
}

// ToHTML converts a Markdown body to HTML. Raw HTML in the source is
// omitted by the renderer.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
