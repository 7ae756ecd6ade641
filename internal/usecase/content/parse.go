package content

import (
	"regexp"
	"strings"

	"contentflow/internal/domain/entity"
)

const (
	// LinkedInFallback replaces a missing LinkedIn section.
	LinkedInFallback = "LinkedIn post generation failed"
	// TwitterFallback replaces a missing Twitter section.
	TwitterFallback = "Twitter post generation failed"
	// SummaryPlaceholder pads a summary that came back with fewer than three bullets.
	SummaryPlaceholder = "See the full post for more details."
)

var (
	// A numeric marker needs whitespace after it so "1.5 million" stays intact.
	bulletMarker = regexp.MustCompile(`^(?:[•\-*–]+\s*|\d+[.)](?:\s+|$))`)
	// Each section runs until the other label or the end of the text, so the
	// labels may appear in either order.
	linkedInSection = regexp.MustCompile(`(?is)LINKEDIN:\s*(.*?)\s*(?:TWITTER:|\z)`)
	twitterSection  = regexp.MustCompile(`(?is)TWITTER:\s*(.*?)\s*(?:LINKEDIN:|\z)`)
)

// cleanLine trims whitespace and strips one pair of wrapping quotes.
func cleanLine(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimPrefix(s, `'`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.TrimSuffix(s, `'`)
	return strings.TrimSpace(s)
}

// parseSummary extracts exactly entity.SummaryLength bullets from reply.
func parseSummary(reply string) ([]string, error) {
	bullets := make([]string, 0, entity.SummaryLength)
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(bulletMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		bullets = append(bullets, line)
		if len(bullets) == entity.SummaryLength {
			break
		}
	}
	if len(bullets) == 0 {
		return nil, ErrEmptySummary
	}
	for len(bullets) < entity.SummaryLength {
		bullets = append(bullets, SummaryPlaceholder)
	}
	return bullets, nil
}

// parseSocial splits a labelled reply into the two posts, substituting the
// fallback text for a missing or empty section.
func parseSocial(reply string) entity.SocialPosts {
	posts := entity.SocialPosts{
		LinkedIn: LinkedInFallback,
		Twitter:  TwitterFallback,
	}
	if m := linkedInSection.FindStringSubmatch(reply); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			posts.LinkedIn = v
		}
	}
	if m := twitterSection.FindStringSubmatch(reply); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			posts.Twitter = v
		}
	}
	return posts
}
