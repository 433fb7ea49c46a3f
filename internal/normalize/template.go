package normalize

import (
	"encoding/json"
	"strings"

	"github.com/jonathan/cold-outreach/internal/schemas"
	"github.com/jonathan/cold-outreach/internal/types"
	schemafiles "github.com/jonathan/cold-outreach/schemas"
)

// DefaultTemplateTitle is used when the model omits a title.
const DefaultTemplateTitle = "Untitled Template"

type templateResponse struct {
	Title   *string  `json:"title"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Tags    []string `json:"tags"`
}

// ParseTemplateResult decodes templating output. Unlike the email parsers it
// has no fallback: output that fails the template schema returns a
// *TemplatingFailedError. Missing tags become an empty slice, a missing or
// blank title becomes DefaultTemplateTitle, and loosely written tokens such
// as {{Company Name}} are rewritten to {{company_name}}.
func ParseTemplateResult(raw string) (types.TemplateFields, error) {
	text := StripCodeFence(raw)
	if text == "" {
		return types.TemplateFields{}, &TemplatingFailedError{Message: "empty response"}
	}

	if err := schemas.Validate(schemafiles.TemplateFields, []byte(text)); err != nil {
		return types.TemplateFields{}, &TemplatingFailedError{Message: "response does not match the template shape", Cause: err}
	}

	var resp templateResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return types.TemplateFields{}, &TemplatingFailedError{Message: "decode response", Cause: err}
	}

	fields := types.TemplateFields{
		Title:   DefaultTemplateTitle,
		Subject: CanonicalPlaceholders(resp.Subject),
		Body:    CanonicalPlaceholders(resp.Body),
		Tags:    make([]string, 0, len(resp.Tags)),
	}
	if resp.Title != nil && strings.TrimSpace(*resp.Title) != "" {
		fields.Title = strings.TrimSpace(*resp.Title)
	}
	for _, tag := range resp.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			fields.Tags = append(fields.Tags, tag)
		}
	}

	return fields, nil
}
