package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "punctuation removed", title: "Hello, World! 2024", want: "hello-world-2024"},
		{name: "whitespace runs collapse", title: "Go   is\tfun", want: "go-is-fun"},
		{name: "hyphen runs collapse", title: "a -- b", want: "a-b"},
		{name: "leading and trailing separators trimmed", title: "  ¿Qué pasa?  ", want: "qu-pasa"},
		{name: "only punctuation", title: "!!!", want: ""},
		{name: "already a slug", title: "already-a-slug", want: "already-a-slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}

func TestDeriveTags(t *testing.T) {
	t.Run("baseline only when nothing matches", func(t *testing.T) {
		assert.Equal(t, []string{"blog", "content"}, DeriveTags("A story about gardening.", nil))
	})

	t.Run("vocabulary order and cap of three", func(t *testing.T) {
		got := DeriveTags("Python and React with TypeScript and JavaScript", []string{"seo tips"})
		assert.Equal(t, []string{"blog", "content", "javascript", "react", "typescript"}, got)
	})

	t.Run("hyphenated tags match spaced phrase", func(t *testing.T) {
		got := DeriveTags("Intro to machine learning", []string{"social media growth"})
		assert.Equal(t, []string{"blog", "content", "machine-learning", "social-media"}, got)
	})

	t.Run("summary contributes", func(t *testing.T) {
		got := DeriveTags("", []string{"Boost productivity", "Workflow automation"})
		assert.Equal(t, []string{"blog", "content", "productivity", "automation", "workflow"}, got)
	})

	t.Run("short tags need a whole word", func(t *testing.T) {
		got := DeriveTags("She said the plan was maintained.", nil)
		assert.Equal(t, []string{"blog", "content"}, got)
	})
}
