package content

import (
	"fmt"

	"contentflow/internal/domain/entity"
)

const (
	artifactTitle       = "title"
	artifactDescription = "description"
	artifactSummary     = "summary"
	artifactSocial      = "social"
)

func titlePrompt(content string) string {
	return "Generate a short SEO-optimized blog title (max 60 characters) based on this content: " + content
}

func descriptionPrompt(content string) string {
	return "Generate a meta description under 160 characters for this content: " + content
}

func summaryPrompt(content string) string {
	return "Summarize this content in exactly 3 short bullet points (each under 100 characters): " + content
}

func socialPrompt(content string, tone entity.Tone) string {
	return fmt.Sprintf("Create one engaging LinkedIn post (max 300 characters) and one tweet (max 280 characters) "+
		"based on this content in %s tone. Format your response as:\n\n"+
		"LINKEDIN:\n[linkedin post here]\n\n"+
		"TWITTER:\n[twitter post here]\n\n"+
		"Content: %s", tone, content)
}
