//nolint:revive // types is a standard Go package name pattern
package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ExtractJobRequest asks for job details from a pasted description or a posting URL.
type ExtractJobRequest struct {
	Description string `json:"description" validate:"required_without=URL"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
	UseBrowser  bool   `json:"useBrowser,omitempty"`
}

// GenerateRequest carries the wizard state needed to draft a new email.
type GenerateRequest struct {
	JobDetails    JobDetails    `json:"jobDetails"`
	PersonalInfo  PersonalInfo  `json:"personalInfo"`
	CompanyInfo   CompanyInfo   `json:"companyInfo"`
	EmailSettings EmailSettings `json:"emailSettings"`
}

// ReviseRequest carries the wizard state, the current draft and user feedback.
type ReviseRequest struct {
	GenerateRequest
	CurrentEmail GeneratedEmail `json:"currentEmail"`
	Feedback     string         `json:"feedback,omitempty" validate:"max=4000"`
}

// ReviseSubjectRequest asks for a new subject line only.
type ReviseSubjectRequest struct {
	JobDetails     JobDetails   `json:"jobDetails"`
	PersonalInfo   PersonalInfo `json:"personalInfo"`
	CurrentSubject string       `json:"currentSubject"`
	Feedback       string       `json:"feedback,omitempty" validate:"max=4000"`
}

// TemplatizeRequest asks for a finished email to be converted into a template.
type TemplatizeRequest struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
	Save    bool   `json:"save,omitempty"`
	Score   int    `json:"score,omitempty" validate:"min=0,max=100"`
}

// AnalyzeResumeRequest carries raw resume text.
type AnalyzeResumeRequest struct {
	Text string `json:"text" validate:"required,min=30"`
}

// SaveTemplateRequest creates or replaces a template's content.
type SaveTemplateRequest struct {
	Title           string   `json:"title" validate:"required,max=200"`
	Subject         string   `json:"subject" validate:"required"`
	Body            string   `json:"body" validate:"required"`
	Tags            []string `json:"tags" validate:"max=10,dive,required"`
	Category        string   `json:"category,omitempty"`
	AIResponseScore int      `json:"aiResponseScore,omitempty" validate:"min=0,max=100"`
}

// SummarizeCompanyRequest asks for CompanyInfo from company page text or a page URL.
type SummarizeCompanyRequest struct {
	CompanyName string `json:"companyName,omitempty"`
	Text        string `json:"text" validate:"required_without=URL"`
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
	UseBrowser  bool   `json:"useBrowser,omitempty"`
}

// FillTemplateRequest supplies placeholder values.
type FillTemplateRequest struct {
	Values map[string]string `json:"values" validate:"required"`
}

// Validate validates the ExtractJobRequest using the validator.
func (r *ExtractJobRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the GenerateRequest using the validator.
func (r *GenerateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ReviseRequest using the validator.
func (r *ReviseRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the ReviseSubjectRequest using the validator.
func (r *ReviseSubjectRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TemplatizeRequest using the validator.
func (r *TemplatizeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AnalyzeResumeRequest using the validator.
func (r *AnalyzeResumeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SaveTemplateRequest using the validator.
func (r *SaveTemplateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SummarizeCompanyRequest using the validator.
func (r *SummarizeCompanyRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the FillTemplateRequest using the validator.
func (r *FillTemplateRequest) Validate() error {
	return validate.Struct(r)
}

// Fields converts the request into TemplateFields.
func (r *SaveTemplateRequest) Fields() TemplateFields {
	return TemplateFields{
		Title:   r.Title,
		Subject: r.Subject,
		Body:    r.Body,
		Tags:    r.Tags,
	}
}
