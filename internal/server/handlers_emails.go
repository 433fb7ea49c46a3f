package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/fetch"
	"github.com/jonathan/cold-outreach/internal/ingestion"
	"github.com/jonathan/cold-outreach/internal/types"
)

// ExtractJobResponse carries extracted details. JobDetails is null when the
// description was too short to extract from.
type ExtractJobResponse struct {
	JobDetails *types.JobDetails `json:"jobDetails"`
	PostingURL string            `json:"postingUrl,omitempty"`
	Title      string            `json:"title,omitempty"`
	Platform   string            `json:"platform,omitempty"`
}

// SubjectResponse carries a revised subject line.
type SubjectResponse struct {
	Subject string `json:"subject"`
}

// TemplatizeResponse carries the templated fields and, when saved, the stored template.
type TemplatizeResponse struct {
	Fields   types.TemplateFields `json:"fields"`
	Template *types.Template      `json:"template,omitempty"`
}

// AnalyzeResumeResponse carries the extracted candidate profile.
type AnalyzeResumeResponse struct {
	PersonalInfo types.PersonalInfo `json:"personalInfo"`
}

// SummarizeCompanyResponse carries the company context for drafting.
type SummarizeCompanyResponse struct {
	CompanyInfo types.CompanyInfo `json:"companyInfo"`
	SourceURL   string            `json:"sourceUrl,omitempty"`
}

// decode reads a JSON body into v and runs its validation.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := v.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// handleExtractJob extracts job details from a pasted description or a posting URL.
func (s *Server) handleExtractJob(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractJobRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp := ExtractJobResponse{}
	description := req.Description
	if description == "" {
		if err := fetch.ValidateURL(req.URL); err != nil {
			s.writeError(w, r, &ErrValidation{Field: "url", Message: "must be an http or https URL"})
			return
		}
		opts := s.ingest
		opts.UseBrowser = opts.UseBrowser || req.UseBrowser
		posting, err := ingestion.FromURL(r.Context(), req.URL, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		description = posting.Text
		resp.PostingURL = posting.URL
		resp.Title = posting.Title
		resp.Platform = string(posting.Platform)
	}

	details, err := s.drafter.ExtractJobDetails(r.Context(), description)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if details != nil && details.JobURL == "" {
		details.JobURL = resp.PostingURL
	}
	resp.JobDetails = details

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateEmail drafts a new email from the wizard state.
func (s *Server) handleGenerateEmail(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.drafter.GenerateEmail(r.Context(), req.JobDetails, req.PersonalInfo, req.CompanyInfo, req.EmailSettings)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleReviseEmail applies feedback to the current draft.
func (s *Server) handleReviseEmail(w http.ResponseWriter, r *http.Request) {
	var req types.ReviseRequest
	if !s.decode(w, r, &req) {
		return
	}

	result, err := s.drafter.ReviseEmail(r.Context(), req.JobDetails, req.PersonalInfo, req.CompanyInfo, req.EmailSettings, req.CurrentEmail, req.Feedback)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleReviseSubject regenerates the subject line only.
func (s *Server) handleReviseSubject(w http.ResponseWriter, r *http.Request) {
	var req types.ReviseSubjectRequest
	if !s.decode(w, r, &req) {
		return
	}

	subject, err := s.drafter.ReviseSubject(r.Context(), req.JobDetails, req.PersonalInfo, req.CurrentSubject, req.Feedback)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SubjectResponse{Subject: subject})
}

// handleTemplatize converts a finished email into a template, saving it when asked.
func (s *Server) handleTemplatize(w http.ResponseWriter, r *http.Request) {
	var req types.TemplatizeRequest
	if !s.decode(w, r, &req) {
		return
	}

	fields, err := s.drafter.Templatize(r.Context(), req.Subject, req.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := TemplatizeResponse{Fields: fields}
	if req.Save {
		tmpl, err := s.library.SaveFromFields(r.Context(), fields, "", req.Score)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.logger.Info("saved templated email", zap.String("template_id", tmpl.ID))
		resp.Template = tmpl
		s.jsonResponse(w, http.StatusCreated, resp)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleAnalyzeResume extracts a candidate profile from resume text.
func (s *Server) handleAnalyzeResume(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeResumeRequest
	if !s.decode(w, r, &req) {
		return
	}

	info, err := s.drafter.AnalyzeResume(r.Context(), req.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, AnalyzeResumeResponse{PersonalInfo: info})
}

// handleSummarizeCompany condenses pasted company page text, or a fetched page, into CompanyInfo.
func (s *Server) handleSummarizeCompany(w http.ResponseWriter, r *http.Request) {
	var req types.SummarizeCompanyRequest
	if !s.decode(w, r, &req) {
		return
	}

	resp := SummarizeCompanyResponse{}
	text := req.Text
	if text == "" {
		if err := fetch.ValidateURL(req.URL); err != nil {
			s.writeError(w, r, &ErrValidation{Field: "url", Message: "must be an http or https URL"})
			return
		}
		opts := s.ingest
		opts.UseBrowser = opts.UseBrowser || req.UseBrowser
		page, err := ingestion.CompanyPage(r.Context(), req.URL, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		text = page.Text
		resp.SourceURL = page.URL
	}

	info, err := s.drafter.SummarizeCompany(r.Context(), req.CompanyName, text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp.CompanyInfo = info
	s.jsonResponse(w, http.StatusOK, resp)
}
