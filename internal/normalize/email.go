package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/cold-outreach/internal/types"
)

// ParseEmailResult extracts {subject, body} from raw model output. It always
// returns a usable email: when the output is not a JSON object carrying a
// string subject or body, the result is the previous subject with the
// stripped raw text as body, and the returned *ParseError says why. That
// error is advisory and callers are expected to keep the email.
func ParseEmailResult(raw string, previous types.GeneratedEmail) (types.GeneratedEmail, error) {
	text := StripCodeFence(raw)

	fields, err := decodeObject(text)
	if err != nil {
		return types.GeneratedEmail{Subject: previous.Subject, Body: text}, err
	}

	subject, hasSubject, err := stringField(fields, "subject")
	if err != nil {
		return types.GeneratedEmail{Subject: previous.Subject, Body: text}, err
	}
	body, hasBody, err := stringField(fields, "body")
	if err != nil {
		return types.GeneratedEmail{Subject: previous.Subject, Body: text}, err
	}
	if !hasSubject && !hasBody {
		return types.GeneratedEmail{Subject: previous.Subject, Body: text},
			&ParseError{Message: "response has neither subject nor body"}
	}

	return types.GeneratedEmail{Subject: subject, Body: body}, nil
}

// ParseSubjectOnlyResult extracts a plain-text subject line. A fence, a
// "Subject:" label and surrounding quotes are removed and only the first
// non-empty line is kept. Empty output yields previous.
func ParseSubjectOnlyResult(raw, previous string) string {
	text := StripCodeFence(raw)

	var line string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			line = l
			break
		}
	}

	if len(line) >= len("subject:") && strings.EqualFold(line[:len("subject:")], "subject:") {
		line = strings.TrimSpace(line[len("subject:"):])
	}
	line = strings.TrimSpace(trimQuotes(line))

	if line == "" {
		return previous
	}
	return line
}

var quotePairs = [][2]string{{`"`, `"`}, {`'`, `'`}, {"“", "”"}, {"`", "`"}}

func trimQuotes(s string) string {
	for _, q := range quotePairs {
		if len(s) >= len(q[0])+len(q[1]) && strings.HasPrefix(s, q[0]) && strings.HasSuffix(s, q[1]) {
			return s[len(q[0]) : len(s)-len(q[1])]
		}
	}
	return s
}

// ParseJobDetails decodes extraction output. Anything unparseable yields an
// empty JobDetails and an advisory *ParseError.
func ParseJobDetails(raw string) (types.JobDetails, error) {
	var details types.JobDetails
	text := StripCodeFence(raw)
	if _, err := decodeObject(text); err != nil {
		return types.JobDetails{}, err
	}
	if err := json.Unmarshal([]byte(text), &details); err != nil {
		return types.JobDetails{}, &ParseError{Message: "job details have unexpected field types", Cause: err}
	}

	details.CompanyName = strings.TrimSpace(details.CompanyName)
	details.RecruiterName = strings.TrimSpace(details.RecruiterName)
	details.RoleTitle = strings.TrimSpace(details.RoleTitle)
	details.JobURL = strings.TrimSpace(details.JobURL)
	return details, nil
}

// decodeObject parses text as a JSON object.
func decodeObject(text string) (map[string]json.RawMessage, error) {
	if text == "" {
		return nil, &ParseError{Message: "empty response"}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, &ParseError{Message: "response is not a JSON object", Cause: err}
	}
	if fields == nil {
		// literal null
		return nil, &ParseError{Message: "response is not a JSON object"}
	}
	return fields, nil
}

// stringField reads key from fields. Absent and null both give "", false.
func stringField(fields map[string]json.RawMessage, key string) (string, bool, error) {
	value, ok := fields[key]
	if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", false, &ParseError{Message: fmt.Sprintf("field %q is not a string", key), Cause: err}
	}
	return s, true, nil
}
