// Package normalize turns raw model output into typed results. The email and
// subject parsers never fail: they fall back to the previous value or the raw
// text. Templating and resume parsing fail hard instead.
package normalize

import (
	"regexp"
	"strings"
)

const fence = "```"

// languageHint matches a hint after an opening fence: "json" in any case,
// or a single word alone on the fence line.
var languageHint = regexp.MustCompile(`^(?:(?i:json)|[A-Za-z][\w+.-]*[ \t]*\r?\n)`)

// StripCodeFence trims raw and removes a leading ``` fence, with an optional
// language hint, and a trailing ``` fence. The two ends are stripped
// independently. StripCodeFence(StripCodeFence(s)) == StripCodeFence(s).
func StripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	for strings.HasPrefix(text, fence) {
		text = strings.TrimPrefix(text, fence)
		if loc := languageHint.FindStringIndex(text); loc != nil {
			text = text[loc[1]:]
		}
		text = strings.TrimSpace(text)
	}
	for strings.HasSuffix(text, fence) {
		text = strings.TrimSpace(strings.TrimSuffix(text, fence))
	}
	return text
}
