package llm

import (
	"context"
	"strings"
)

// NoOp is a completer that answers without calling any API.
// It is useful for local development and demos without credentials: the
// replies follow the formats the generation prompts ask for.
type NoOp struct{}

// NewNoOp creates a new NoOp completer.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Name implements Completer.
func (n *NoOp) Name() string { return ProviderNoOp }

// Configured implements Completer. NoOp needs no credentials.
func (n *NoOp) Configured() bool { return true }

// Complete returns a canned reply shaped after the prompt.
func (n *NoOp) Complete(_ context.Context, prompt string) (string, error) {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "linkedin"):
		return "LINKEDIN:\nDraft LinkedIn post.\n\nTWITTER:\nDraft tweet.", nil
	case strings.Contains(lower, "bullet points"):
		return "- First key point\n- Second key point\n- Third key point", nil
	case strings.Contains(lower, "meta description"):
		return "Draft meta description.", nil
	default:
		return "Draft Title", nil
	}
}
