package normalize

import "fmt"

// ParseError reports that model output did not have the expected shape.
// The soft parsers return it alongside a usable fallback value.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// TemplatingFailedError reports unusable templating output. Nothing should be
// saved when it is returned; the caller may retry.
type TemplatingFailedError struct {
	Message string
	Cause   error
}

func (e *TemplatingFailedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("templating failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("templating failed: %s", e.Message)
}

func (e *TemplatingFailedError) Unwrap() error {
	return e.Cause
}
