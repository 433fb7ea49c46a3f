package prompts

import "strings"

// blockDelimiter encloses multi-line user data in the prompt files.
const blockDelimiter = `"""`

const escapedDelimiter = `\"\"\"`

// Quote prepares a free-text field for interpolation: it trims surrounding
// whitespace, escapes literal braces as \{ and \} and neutralizes the triple
// quote delimiter, so user data cannot read as part of the JSON scaffolding.
func Quote(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) + 8)

	for _, r := range text {
		switch r {
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		default:
			result.WriteRune(r)
		}
	}

	return strings.ReplaceAll(result.String(), blockDelimiter, escapedDelimiter)
}

// QuoteBlock prepares text enclosed in a triple quoted block. Braces are kept
// because an email may already contain {{placeholder}} tokens.
func QuoteBlock(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), blockDelimiter, escapedDelimiter)
}
