package entity

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the format of BlogPost.Date and of the committed file name prefix.
const DateLayout = "2006-01-02"

// BlogPost is an editable draft that is rendered to Markdown and committed.
//
// Use the Set methods rather than assigning fields directly: SetTitle keeps
// Slug in sync and SetTags keeps Tags unique.
type BlogPost struct {
	Title       string      `json:"title"`
	Meta        string      `json:"meta"`
	Summary     []string    `json:"summary"`
	SocialPosts SocialPosts `json:"socialPosts"`
	Content     string      `json:"content"`
	Tags        []string    `json:"tags"`
	CoverImage  string      `json:"coverImage,omitempty"`
	Slug        string      `json:"slug"`
	Date        string      `json:"date"`
}

// NewBlogPost builds a draft from a generation result and its source text.
// Tags are auto-derived and the date is taken from now.
func NewBlogPost(result ContentResult, content string, now time.Time) *BlogPost {
	p := &BlogPost{
		Meta:        result.MetaDescription,
		Summary:     slices.Clone(result.Summary),
		SocialPosts: result.SocialPosts,
		Content:     content,
		Date:        now.Format(DateLayout),
	}
	p.SetTitle(result.SEOTitle)
	p.AutoTags()
	return p
}

// SetTitle updates the title and regenerates the slug.
func (p *BlogPost) SetTitle(title string) {
	p.Title = title
	p.Slug = Slugify(title)
}

// SetSlug overrides the generated slug. The value is normalized.
func (p *BlogPost) SetSlug(slug string) {
	p.Slug = Slugify(slug)
}

// SetTags replaces the tags, dropping blanks and duplicates while keeping
// first-occurrence order.
func (p *BlogPost) SetTags(tags []string) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	p.Tags = out
}

// SetTagsCSV replaces the tags from a comma-separated list.
func (p *BlogPost) SetTagsCSV(csv string) {
	p.SetTags(strings.Split(csv, ","))
}

// AutoTags replaces the tags with ones derived from the content and summary.
func (p *BlogPost) AutoTags() {
	p.SetTags(DeriveTags(p.Content, p.Summary))
}

// SetDate sets the draft date. The value must be YYYY-MM-DD.
func (p *BlogPost) SetDate(date string) error {
	date = strings.TrimSpace(date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return &ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"}
	}
	p.Date = date
	return nil
}

// SetMeta sets the meta description.
func (p *BlogPost) SetMeta(meta string) {
	p.Meta = meta
}

// SetContent replaces the post body.
func (p *BlogPost) SetContent(content string) {
	p.Content = content
}

// SetCoverImage sets the cover image URL. An empty value removes it.
func (p *BlogPost) SetCoverImage(rawURL string) error {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL != "" {
		if err := ValidateImportURL(rawURL); err != nil {
			return &ValidationError{Field: "coverImage", Message: "cover image must be an http(s) URL"}
		}
	}
	p.CoverImage = rawURL
	return nil
}

// FileName returns the repository file name for the post, "YYYY-MM-DD-slug.md",
// using the given date rather than the draft date.
func (p *BlogPost) FileName(date time.Time) string {
	return date.Format(DateLayout) + "-" + Slugify(p.Title) + ".md"
}

// CommitResult reports the outcome of publishing a post.
type CommitResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AccessResult reports whether the configured repository is reachable.
type AccessResult struct {
	Accessible bool   `json:"accessible"`
	Error      string `json:"error,omitempty"`
}
