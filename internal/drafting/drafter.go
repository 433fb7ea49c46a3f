// Package drafting implements the outreach operations: job detail extraction,
// email generation and revision, subject regeneration, templating, resume
// analysis and company page summaries. Each operation renders one prompt,
// makes one provider call and normalizes the response.
package drafting

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/llm"
	"github.com/jonathan/cold-outreach/internal/logger"
	"github.com/jonathan/cold-outreach/internal/metrics"
	"github.com/jonathan/cold-outreach/internal/normalize"
	"github.com/jonathan/cold-outreach/internal/prompts"
	"github.com/jonathan/cold-outreach/internal/types"
)

// Operation names used in logs and metrics.
const (
	OpExtract    = "extract"
	OpGenerate   = "generate"
	OpRevise     = "revise"
	OpSubject    = "subject"
	OpTemplatize = "templatize"
	OpAnalyze    = "analyze_resume"
	OpCompany    = "summarize_company"
)

// Sampling temperatures per operation.
const (
	ExtractTemperature    float32 = 0
	GenerateTemperature   float32 = 0.6
	SubjectTemperature    float32 = 0.5
	TemplatizeTemperature float32 = 0.3
	AnalyzeTemperature    float32 = 0.2
	CompanyTemperature    float32 = 0.2
)

// ErrEmptyInput is returned when there is nothing to send to the provider.
var ErrEmptyInput = errors.New("input is empty")

// Drafter runs the outreach operations against an llm.Client. It holds no
// mutable state and is safe for concurrent use.
type Drafter struct {
	client llm.Client
	logger *zap.Logger
}

// New creates a Drafter. A nil logger discards logs.
func New(client llm.Client, log *zap.Logger) *Drafter {
	return &Drafter{client: client, logger: logger.OrNop(log)}
}

// ExtractJobDetails pulls company, recruiter, role and URL out of a pasted job
// description. It returns nil without calling the provider when the
// description is too short to be useful. Unparseable output yields empty
// details rather than an error.
func (d *Drafter) ExtractJobDetails(ctx context.Context, description string) (*types.JobDetails, error) {
	prompt, ok := prompts.BuildExtractionPrompt(description)
	if !ok {
		d.logger.Debug("description too short for extraction",
			zap.Int("length", len(strings.TrimSpace(description))),
			zap.Int("min_length", prompts.MinDescriptionLength))
		return nil, nil
	}

	raw, err := d.complete(ctx, OpExtract, prompt, llm.Options{Tier: llm.TierLite, Temperature: ExtractTemperature})
	if err != nil {
		return nil, err
	}

	details, parseErr := normalize.ParseJobDetails(raw)
	if parseErr != nil {
		d.fallback(OpExtract, parseErr)
	}
	details.JobDescription = strings.TrimSpace(description)
	return &details, nil
}

// GenerateEmail drafts a new email. Malformed output falls back to the raw
// text as body, so the result is always renderable.
func (d *Drafter) GenerateEmail(ctx context.Context, job types.JobDetails, person types.PersonalInfo, company types.CompanyInfo, settings types.EmailSettings) (*Result, error) {
	prompt := prompts.BuildGenerationPrompt(job, person, company, settings)

	raw, err := d.complete(ctx, OpGenerate, prompt, llm.Options{Tier: llm.TierStandard, Temperature: GenerateTemperature})
	if err != nil {
		return nil, err
	}

	previous := types.GeneratedEmail{Subject: strings.TrimSpace(settings.SubjectLine)}
	return d.emailResult(OpGenerate, raw, previous, settings), nil
}

// ReviseEmail applies free-text feedback to current. Malformed output keeps
// current's subject and shows the raw text as body.
func (d *Drafter) ReviseEmail(ctx context.Context, job types.JobDetails, person types.PersonalInfo, company types.CompanyInfo, settings types.EmailSettings, current types.GeneratedEmail, feedback string) (*Result, error) {
	prompt := prompts.BuildRevisionPrompt(job, person, company, settings, current, feedback)

	raw, err := d.complete(ctx, OpRevise, prompt, llm.Options{Tier: llm.TierStandard, Temperature: GenerateTemperature})
	if err != nil {
		return nil, err
	}

	return d.emailResult(OpRevise, raw, current, settings), nil
}

// ReviseSubject regenerates only the subject line. Empty output keeps currentSubject.
func (d *Drafter) ReviseSubject(ctx context.Context, job types.JobDetails, person types.PersonalInfo, currentSubject, feedback string) (string, error) {
	prompt := prompts.BuildSubjectOnlyPrompt(job, person, currentSubject, feedback)

	raw, err := d.complete(ctx, OpSubject, prompt, llm.Options{Tier: llm.TierStandard, Temperature: SubjectTemperature})
	if err != nil {
		return "", err
	}

	subject := normalize.ParseSubjectOnlyResult(raw, "")
	if subject == "" {
		d.fallback(OpSubject, &normalize.ParseError{Message: "empty subject response"})
		return currentSubject, nil
	}
	return subject, nil
}

// Templatize converts a finished email into template fields with
// {{placeholder}} tokens. Unusable output returns *normalize.TemplatingFailedError
// and must not be saved.
func (d *Drafter) Templatize(ctx context.Context, subject, body string) (types.TemplateFields, error) {
	if strings.TrimSpace(body) == "" {
		return types.TemplateFields{}, ErrEmptyInput
	}

	prompt := prompts.BuildTemplatingPrompt(subject, body)

	raw, err := d.complete(ctx, OpTemplatize, prompt, llm.Options{Tier: llm.TierLite, Temperature: TemplatizeTemperature})
	if err != nil {
		return types.TemplateFields{}, err
	}

	fields, err := normalize.ParseTemplateResult(raw)
	if err != nil {
		metrics.TemplatingFailures.Inc()
		d.logger.Warn("templating response rejected", zap.Error(err))
		return types.TemplateFields{}, err
	}

	if invalid := append(normalize.InvalidPlaceholders(fields.Subject), normalize.InvalidPlaceholders(fields.Body)...); len(invalid) > 0 {
		d.logger.Warn("template contains malformed placeholders", zap.Strings("tokens", invalid))
	}
	return fields, nil
}

// AnalyzeResume extracts a candidate profile from plain resume text.
func (d *Drafter) AnalyzeResume(ctx context.Context, resumeText string) (types.PersonalInfo, error) {
	if strings.TrimSpace(resumeText) == "" {
		return types.PersonalInfo{}, ErrEmptyInput
	}

	prompt := prompts.BuildResumeAnalysisPrompt(resumeText)

	raw, err := d.complete(ctx, OpAnalyze, prompt, llm.Options{Tier: llm.TierStandard, Temperature: AnalyzeTemperature})
	if err != nil {
		return types.PersonalInfo{}, err
	}

	info, err := normalize.ParsePersonalInfo(raw)
	if err != nil {
		d.logger.Warn("resume analysis response rejected", zap.Error(err))
		return types.PersonalInfo{}, err
	}
	return info, nil
}

// SummarizeCompany condenses the text of a company page into the mission,
// values and recent news used as email context. Unparseable output yields an
// empty CompanyInfo rather than an error.
func (d *Drafter) SummarizeCompany(ctx context.Context, companyName, pageText string) (types.CompanyInfo, error) {
	if strings.TrimSpace(pageText) == "" {
		return types.CompanyInfo{}, ErrEmptyInput
	}

	prompt := prompts.BuildCompanySummaryPrompt(companyName, pageText)

	raw, err := d.complete(ctx, OpCompany, prompt, llm.Options{Tier: llm.TierLite, Temperature: CompanyTemperature})
	if err != nil {
		return types.CompanyInfo{}, err
	}

	info, parseErr := normalize.ParseCompanyInfo(raw)
	if parseErr != nil {
		d.fallback(OpCompany, parseErr)
	}
	return info, nil
}

func (d *Drafter) emailResult(op, raw string, previous types.GeneratedEmail, settings types.EmailSettings) *Result {
	email, parseErr := normalize.ParseEmailResult(raw, previous)
	if parseErr != nil {
		d.fallback(op, parseErr)
		return &Result{Email: email, Fallback: true}
	}

	if email.Subject == "" && settings.SubjectLine != "" {
		email.Subject = strings.TrimSpace(settings.SubjectLine)
	}

	result := &Result{Email: email}
	if w := checkWordCount(email.Body, settings.Length); w != nil {
		metrics.WordCountWarnings.WithLabelValues(string(settings.Length.OrDefault())).Inc()
		d.logger.Warn("word count outside range",
			zap.String("operation", op),
			zap.Int("words", w.WordCount),
			zap.Int("min", w.Range.Min),
			zap.Int("max", w.Range.Max))
		result.Warnings = append(result.Warnings, *w)
	}
	return result
}

// complete makes the provider call. Provider errors are returned unchanged.
func (d *Drafter) complete(ctx context.Context, op, prompt string, opts llm.Options) (string, error) {
	start := time.Now()
	raw, err := d.client.Complete(ctx, prompt, opts)
	metrics.ProviderDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.ProviderCalls.WithLabelValues(op, metrics.OutcomeError).Inc()
		d.logger.Error("provider call failed", zap.String("operation", op), zap.Error(err))
		return "", err
	}

	metrics.ProviderCalls.WithLabelValues(op, metrics.OutcomeOK).Inc()
	d.logger.Debug("provider call completed",
		zap.String("operation", op),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("response_chars", len(raw)),
		zap.Duration("elapsed", time.Since(start)))
	return raw, nil
}

func (d *Drafter) fallback(op string, err error) {
	metrics.ParseFallbacks.WithLabelValues(op).Inc()
	d.logger.Warn("model response did not parse, using fallback", zap.String("operation", op), zap.Error(err))
}
