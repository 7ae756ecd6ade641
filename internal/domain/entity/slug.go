package entity

import (
	"regexp"
	"strings"
)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugHyphenRuns = regexp.MustCompile(`-+`)
	wordSplit      = regexp.MustCompile(`[^a-z0-9]+`)
)

// Slugify derives a URL slug: lowercase ASCII letters, digits and single
// hyphens, with no leading or trailing hyphen.
//
//	Slugify("Hello, World! 2024") // "hello-world-2024"
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// BaselineTags are always present on auto-derived tags.
var BaselineTags = []string{"blog", "content"}

// MaxDerivedTags bounds how many vocabulary tags DeriveTags adds.
const MaxDerivedTags = 3

// TagVocabulary is the fixed list DeriveTags matches against, in priority order.
var TagVocabulary = []string{
	// tech
	"javascript", "react", "nodejs", "typescript", "python", "ai",
	"machine-learning", "web-development", "frontend", "backend",
	// business
	"productivity", "marketing", "seo", "social-media", "automation", "workflow",
}

// DeriveTags returns BaselineTags plus up to MaxDerivedTags vocabulary tags
// found as whole words in content or summary. Hyphenated tags match both
// "machine-learning" and "machine learning".
func DeriveTags(content string, summary []string) []string {
	text := strings.ToLower(content + " " + strings.Join(summary, " "))
	// Pad with separators so whole-word phrases can be matched with Contains.
	words := " " + strings.Join(wordSplit.Split(text, -1), " ") + " "

	tags := make([]string, 0, len(BaselineTags)+MaxDerivedTags)
	tags = append(tags, BaselineTags...)

	found := 0
	for _, tag := range TagVocabulary {
		if found == MaxDerivedTags {
			break
		}
		if strings.Contains(words, " "+strings.ReplaceAll(tag, "-", " ")+" ") {
			tags = append(tags, tag)
			found++
		}
	}
	return tags
}
