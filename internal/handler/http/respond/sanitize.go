package respond

import (
	"regexp"
)

var (
	// API キーのパターン
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9-_]+`)
	openaiKeyPattern    = regexp.MustCompile(`sk-[a-zA-Z0-9_-]{10,}`)

	// GitHub tokens: classic (ghp_, gho_, ghs_, ...) and fine-grained.
	githubTokenPattern = regexp.MustCompile(`\b(gh[pousr]_[A-Za-z0-9]{20,}|github_pat_[A-Za-z0-9_]{20,})`)

	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9._~+/=-]+`)

	// Webhook keys in query strings.
	queryKeyPattern = regexp.MustCompile(`([?&](?:key|token|access_token)=)[^&\s"']+`)

	userInfoPattern = regexp.MustCompile(`://([^:/\s]+):([^@/\s]+)@`)
)

// SanitizeError removes credentials from an error message.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = githubTokenPattern.ReplaceAllString(msg, "gh****")
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	msg = queryKeyPattern.ReplaceAllString(msg, "${1}****")
	msg = userInfoPattern.ReplaceAllString(msg, "://$1:****@")

	return msg
}
