package normalize

import (
	"regexp"
	"strings"

	"github.com/jonathan/cold-outreach/internal/types"
)

var lineBreakPattern = regexp.MustCompile(`(?i)<br\s*/?>`)

// WordCount counts whitespace-separated words. <br/> markers count as whitespace.
func WordCount(body string) int {
	return len(strings.Fields(lineBreakPattern.ReplaceAllString(body, " ")))
}

// CheckWordCountInRange reports whether body's word count falls inside the
// tier's range. Unrecognized tiers use the medium range.
func CheckWordCountInRange(body string, tier types.Length) bool {
	r := tier.Range()
	n := WordCount(body)
	return n >= r.Min && n <= r.Max
}
