package prompts

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/cold-outreach/internal/types"
)

const (
	emailFile      = "email.json"
	extractionFile = "extraction.json"
)

// MinDescriptionLength is the shortest job description worth sending for extraction.
const MinDescriptionLength = 30

// MaxCompanyPageRunes caps the company page text sent for summarization.
const MaxCompanyPageRunes = 12000

// NoFeedback is rendered when the user gave no revision feedback.
const NoFeedback = "No feedback provided."

// CustomToneNote follows a tone that is not one of the predefined tones.
const CustomToneNote = " (a custom tone in the user's own words)"

// Limits stated in the prompts.
const (
	MaxSubjectWords = 8
	MaxTitleWords   = 6
	MinTags         = 4
	MaxTags         = 5
)

// SuggestedPlaceholders is the preferred placeholder vocabulary for templating.
// The model may add others in the same style.
var SuggestedPlaceholders = []string{
	"recruiter_name",
	"company_name",
	"job_title",
	"your_name",
	"skills",
	"years_of_experience",
	"time",
	"location",
	"role_level",
	"project_name",
}

// BuildExtractionPrompt renders the job detail extraction prompt. It returns
// false when the trimmed description is shorter than MinDescriptionLength, in
// which case no provider call should be made.
func BuildExtractionPrompt(description string) (string, bool) {
	description = strings.TrimSpace(description)
	if len([]rune(description)) < MinDescriptionLength {
		return "", false
	}

	template := MustGet(extractionFile, "extract-job-details")
	return Format(template, map[string]string{
		"Description": Quote(description),
	}), true
}

// BuildGenerationPrompt renders the prompt for a new email.
func BuildGenerationPrompt(job types.JobDetails, person types.PersonalInfo, company types.CompanyInfo, settings types.EmailSettings) string {
	data := settingsData(settings)
	data["Context"] = renderContext(job, person, company)

	return Format(MustGet(emailFile, "generate-email"), data)
}

// BuildRevisionPrompt renders the prompt that applies feedback to the current email.
// The current subject and body are included verbatim.
func BuildRevisionPrompt(job types.JobDetails, person types.PersonalInfo, company types.CompanyInfo, settings types.EmailSettings, current types.GeneratedEmail, feedback string) string {
	data := settingsData(settings)
	data["Context"] = renderContext(job, person, company)
	data["CurrentSubject"] = QuoteBlock(current.Subject)
	data["CurrentBody"] = QuoteBlock(current.Body)
	data["Feedback"] = feedbackOrSentinel(feedback)

	return Format(MustGet(emailFile, "revise-email"), data)
}

// BuildSubjectOnlyPrompt renders the prompt asking for a single plain-text subject line.
func BuildSubjectOnlyPrompt(job types.JobDetails, person types.PersonalInfo, currentSubject, feedback string) string {
	return Format(MustGet(emailFile, "revise-subject"), map[string]string{
		"CurrentSubject":  Quote(currentSubject),
		"RoleTitle":       Quote(job.RoleTitle),
		"CompanyName":     Quote(job.CompanyName),
		"Name":            Quote(person.Name),
		"Skills":          joinQuoted(person.Skills, ", "),
		"Feedback":        feedbackOrSentinel(feedback),
		"MaxSubjectWords": strconv.Itoa(MaxSubjectWords),
	})
}

// BuildTemplatingPrompt renders the prompt that turns a finished email into a template.
func BuildTemplatingPrompt(subject, body string) string {
	lines := make([]string, len(SuggestedPlaceholders))
	for i, name := range SuggestedPlaceholders {
		lines[i] = "   - {{" + name + "}}"
	}

	return Format(MustGet(emailFile, "templatize-email"), map[string]string{
		"Placeholders":  strings.Join(lines, "\n"),
		"MaxTitleWords": strconv.Itoa(MaxTitleWords),
		"MinTags":       strconv.Itoa(MinTags),
		"MaxTags":       strconv.Itoa(MaxTags),
		"Subject":       QuoteBlock(subject),
		"Body":          QuoteBlock(body),
	})
}

// BuildResumeAnalysisPrompt renders the prompt that extracts a PersonalInfo from resume text.
func BuildResumeAnalysisPrompt(resumeText string) string {
	return Format(MustGet(extractionFile, "analyze-resume"), map[string]string{
		"ResumeText": Quote(resumeText),
	})
}

// BuildCompanySummaryPrompt renders the prompt that condenses a company page
// into CompanyInfo. Page text beyond MaxCompanyPageRunes is dropped.
func BuildCompanySummaryPrompt(companyName, pageText string) string {
	if runes := []rune(strings.TrimSpace(pageText)); len(runes) > MaxCompanyPageRunes {
		pageText = string(runes[:MaxCompanyPageRunes])
	}
	name := Quote(companyName)
	if name == "" {
		name = "unknown"
	}
	return Format(MustGet(extractionFile, "summarize-company"), map[string]string{
		"CompanyName": name,
		"PageText":    Quote(pageText),
	})
}

func renderContext(job types.JobDetails, person types.PersonalInfo, company types.CompanyInfo) string {
	return Format(MustGet(emailFile, "email-context"), map[string]string{
		"CompanyName":    Quote(job.CompanyName),
		"RoleTitle":      Quote(job.RoleTitle),
		"RecruiterName":  Quote(job.RecruiterName),
		"JobURL":         Quote(job.JobURL),
		"JobDescription": Quote(job.JobDescription),
		"Name":           Quote(person.Name),
		"Education":      FormatEducation(person.Education),
		"Experience":     FormatExperience(person.Experience),
		"Skills":         joinQuoted(person.Skills, ", "),
		"Projects":       FormatProjects(person.Projects),
		"AdditionalInfo": Quote(person.AdditionalInfo),
		"Links":          joinQuoted(person.Links, ", "),
		"Mission":        Quote(company.Mission),
		"Values":         Quote(company.Values),
		"RecentNews":     Quote(company.RecentNews),
	})
}

func settingsData(settings types.EmailSettings) map[string]string {
	length := settings.Length.OrDefault()
	wordRange := length.Range()

	subject := fmt.Sprintf("generate one, at most %d words", MaxSubjectWords)
	if s := Quote(settings.SubjectLine); s != "" {
		subject = `use exactly "` + s + `" as the subject`
	}

	tone := Quote(string(settings.Tone.OrDefault()))
	if !settings.Tone.OrDefault().IsKnown() {
		tone += CustomToneNote
	}

	return map[string]string{
		"Tone":               tone,
		"Length":             string(length),
		"MinWords":           strconv.Itoa(wordRange.Min),
		"MaxWords":           strconv.Itoa(wordRange.Max),
		"SubjectInstruction": subject,
	}
}

func feedbackOrSentinel(feedback string) string {
	if q := Quote(feedback); q != "" {
		return q
	}
	return NoFeedback
}

// FormatProjects renders projects as "title: details" joined by "; ".
func FormatProjects(projects []types.Project) string {
	parts := make([]string, 0, len(projects))
	for _, p := range projects {
		parts = append(parts, Quote(p.Title)+": "+Quote(p.Details))
	}
	return strings.Join(parts, "; ")
}

// FormatEducation renders education as "degree from institution (year)" joined by ", ".
func FormatEducation(education []types.Education) string {
	parts := make([]string, 0, len(education))
	for _, e := range education {
		parts = append(parts, fmt.Sprintf("%s from %s (%s)", Quote(e.Degree), Quote(e.Institution), Quote(e.Year)))
	}
	return strings.Join(parts, ", ")
}

// FormatExperience renders experience as "role at company (duration): details" joined by "; ".
func FormatExperience(experience []types.Experience) string {
	parts := make([]string, 0, len(experience))
	for _, e := range experience {
		entry := fmt.Sprintf("%s at %s (%s)", Quote(e.Role), Quote(e.Company), Quote(e.Duration))
		if d := Quote(e.Details); d != "" {
			entry += ": " + d
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, "; ")
}

func joinQuoted(values []string, sep string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if q := Quote(v); q != "" {
			parts = append(parts, q)
		}
	}
	return strings.Join(parts, sep)
}
