package drafting

import (
	"fmt"

	"github.com/jonathan/cold-outreach/internal/normalize"
	"github.com/jonathan/cold-outreach/internal/types"
)

// WarningCode identifies an advisory condition on a result.
type WarningCode string

// WordCountOutOfRange means the body missed the word range of its length tier.
const WordCountOutOfRange WarningCode = "word_count_out_of_range"

// Warning is advisory and never blocks a result.
type Warning struct {
	Code      WarningCode     `json:"code"`
	Message   string          `json:"message"`
	WordCount int             `json:"wordCount,omitempty"`
	Range     types.WordRange `json:"range,omitempty"`
}

// Result is the outcome of generating or revising an email.
type Result struct {
	Email    types.GeneratedEmail `json:"email"`
	Warnings []Warning            `json:"warnings,omitempty"`
	// Fallback is set when the response did not parse and Email.Body holds the raw text.
	Fallback bool `json:"fallback,omitempty"`
}

func checkWordCount(body string, length types.Length) *Warning {
	if normalize.CheckWordCountInRange(body, length) {
		return nil
	}
	r := length.Range()
	n := normalize.WordCount(body)
	return &Warning{
		Code:      WordCountOutOfRange,
		Message:   fmt.Sprintf("body has %d words, expected %d-%d for %s emails", n, r.Min, r.Max, length.OrDefault()),
		WordCount: n,
		Range:     r,
	}
}
