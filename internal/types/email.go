// Package types provides type definitions for structured data used throughout the cold-outreach system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// JobDetails describes the role the candidate is reaching out about.
// Every field may be empty.
type JobDetails struct {
	CompanyName    string `json:"companyName"`
	RecruiterName  string `json:"recruiterName"` // first recruiter only
	RoleTitle      string `json:"roleTitle"`
	JobDescription string `json:"jobDescription"`
	JobURL         string `json:"jobUrl"`
}

// Project is a candidate project rendered as "title: details".
type Project struct {
	Title   string `json:"title"`
	Details string `json:"details"`
}

// Experience is a single work history entry.
type Experience struct {
	Company  string `json:"company"`
	Role     string `json:"role"`
	Duration string `json:"duration"`
	Details  string `json:"details"`
}

// Education is a single degree entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// PersonalInfo is the candidate profile. Slice order is preserved when rendering prompts.
type PersonalInfo struct {
	Name           string       `json:"name"`
	Skills         []string     `json:"skills"`
	Projects       []Project    `json:"projects"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	Links          []string     `json:"links"`
	AdditionalInfo string       `json:"additionalInfo"`
}

// CompanyInfo is optional research about the target company.
type CompanyInfo struct {
	Mission    string `json:"mission"`
	Values     string `json:"values"`
	RecentNews string `json:"recentNews"`
}

// Tone is the requested writing tone. Values outside the known set pass through as free text.
type Tone string

// Known tones
const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneEnthusiastic Tone = "enthusiastic"
	ToneValueDriven  Tone = "value-driven"
	ToneCasual       Tone = "casual"
)

// IsKnown reports whether the tone is one of the predefined tones.
func (t Tone) IsKnown() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneEnthusiastic, ToneValueDriven, ToneCasual:
		return true
	}
	return false
}

// OrDefault returns the tone, or ToneProfessional when empty.
func (t Tone) OrDefault() Tone {
	if t == "" {
		return ToneProfessional
	}
	return t
}

// Length is the length tier governing the target word count of a generated body.
type Length string

// Length tiers
const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// WordRange is an inclusive word count range.
type WordRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

var wordRanges = map[Length]WordRange{
	LengthShort:  {Min: 150, Max: 200},
	LengthMedium: {Min: 200, Max: 250},
	LengthLong:   {Min: 250, Max: 300},
}

// Range returns the target word range for the tier. Unrecognized tiers use the medium range.
func (l Length) Range() WordRange {
	if r, ok := wordRanges[l]; ok {
		return r
	}
	return wordRanges[LengthMedium]
}

// OrDefault returns the tier, or LengthMedium when it is not recognized.
func (l Length) OrDefault() Length {
	if _, ok := wordRanges[l]; ok {
		return l
	}
	return LengthMedium
}

// EmailSettings controls tone, length and an optional fixed subject line.
type EmailSettings struct {
	Tone        Tone   `json:"tone"`
	Length      Length `json:"length" validate:"omitempty,oneof=short medium long"`
	SubjectLine string `json:"subjectLine"`
}

// LineBreak is the marker generated bodies use between lines and paragraphs.
const LineBreak = "<br/>"

// GeneratedEmail is a subject/body pair. Body uses LineBreak markers rather than blank lines.
type GeneratedEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
