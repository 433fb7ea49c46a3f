//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"
	"unicode/utf8"
)

// PreviewLength is the number of characters of the body kept as a template preview.
const PreviewLength = 100

// MaxResponseScore bounds Template.AIResponseScore.
const MaxResponseScore = 100

// TemplateFields is the output of templating a finished email.
type TemplateFields struct {
	Title   string   `json:"title"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Tags    []string `json:"tags"`
}

// Template is a reusable email with {{placeholder}} tokens.
type Template struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Subject         string     `json:"subject"`
	Body            string     `json:"body"`
	Preview         string     `json:"preview"`
	Tags            []string   `json:"tags"`
	Category        string     `json:"category,omitempty"`
	UsageCount      int        `json:"usageCount"`
	LastUsed        *time.Time `json:"lastUsed"`
	AIResponseScore int        `json:"aiResponseScore"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// Preview returns the first PreviewLength characters of body.
func Preview(body string) string {
	if utf8.RuneCountInString(body) <= PreviewLength {
		return body
	}
	runes := []rune(body)
	return string(runes[:PreviewLength])
}

// ClampScore bounds a response score to [0, MaxResponseScore].
func ClampScore(score int) int {
	return max(0, min(score, MaxResponseScore))
}
