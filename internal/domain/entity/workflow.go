package entity

// WorkflowPayload is the flat projection of a ContentResult sent to the
// automation webhook.
type WorkflowPayload struct {
	SEOTitle        string   `json:"seoTitle"`
	MetaDescription string   `json:"metaDescription"`
	Summary         []string `json:"summary"`
	TwitterPost     string   `json:"twitterPost"`
	LinkedInPost    string   `json:"linkedinPost"`
	OriginalContent string   `json:"originalContent"`
	Tone            Tone     `json:"tone"`
}

// NewWorkflowPayload flattens result together with the source text and tone.
func NewWorkflowPayload(result ContentResult, originalContent string, tone Tone) WorkflowPayload {
	summary := make([]string, len(result.Summary))
	copy(summary, result.Summary)

	return WorkflowPayload{
		SEOTitle:        result.SEOTitle,
		MetaDescription: result.MetaDescription,
		Summary:         summary,
		TwitterPost:     result.SocialPosts.Twitter,
		LinkedInPost:    result.SocialPosts.LinkedIn,
		OriginalContent: originalContent,
		Tone:            tone,
	}
}

// WorkflowOutcome is the structured result of a webhook call.
//
// Skipped is set when the automation server accepted the request but reported
// no output and the client is configured to treat that as not-run.
type WorkflowOutcome struct {
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Endpoint   string `json:"endpoint,omitempty"`
	Error      string `json:"error,omitempty"`
}
