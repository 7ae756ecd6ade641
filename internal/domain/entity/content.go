// Package entity defines the core domain types of the content assistant:
// generated content, workflow payloads and outcomes, blog posts, and the
// error kinds shared by the outbound clients.
package entity

import (
	"fmt"
	"strings"
)

// SummaryLength is the exact number of bullets in a ContentResult summary.
const SummaryLength = 3

// ContentResult holds the artifacts derived from one generation call.
// Summary always has exactly SummaryLength non-empty entries.
type ContentResult struct {
	SEOTitle        string      `json:"seoTitle"`
	MetaDescription string      `json:"metaDescription"`
	Summary         []string    `json:"summary"`
	SocialPosts     SocialPosts `json:"socialPosts"`
}

// SocialPosts holds the generated social media posts.
type SocialPosts struct {
	Twitter  string `json:"twitter"`
	LinkedIn string `json:"linkedin"`
}

// Tone selects the voice of the generated social posts.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneWitty        Tone = "witty"
	ToneTechnical    Tone = "technical"
)

// DefaultTone is used when no tone is supplied.
const DefaultTone = ToneProfessional

// Tones lists every accepted tone in display order.
func Tones() []Tone {
	return []Tone{ToneProfessional, ToneWitty, ToneTechnical}
}

// ParseTone converts user input into a Tone. Empty input yields DefaultTone;
// anything outside the enumeration is rejected.
func ParseTone(s string) (Tone, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return DefaultTone, nil
	}
	for _, t := range Tones() {
		if string(t) == v {
			return t, nil
		}
	}
	return "", &ValidationError{
		Field:   "tone",
		Message: fmt.Sprintf("unknown tone %q (expected professional, witty or technical)", s),
	}
}

// Valid reports whether t is one of the enumerated tones.
func (t Tone) Valid() bool {
	_, err := ParseTone(string(t))
	return err == nil && t != ""
}
