package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/cold-outreach/internal/templates"
	"github.com/jonathan/cold-outreach/internal/types"
)

// TemplateListResponse is the response for listing templates.
type TemplateListResponse struct {
	Templates []types.Template `json:"templates"`
	Count     int              `json:"count"`
}

// handleListTemplates lists templates filtered by the search, tag, category and view query params.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := templates.Filter{
		Search:   q.Get("search"),
		Tag:      q.Get("tag"),
		Category: q.Get("category"),
		View:     templates.View(strings.ToLower(q.Get("view"))),
	}
	switch filter.View {
	case "", templates.ViewAll, templates.ViewHighPerforming, templates.ViewRecent:
	default:
		s.writeError(w, r, &ErrValidation{Field: "view", Message: "must be all, high-performing or recent"})
		return
	}

	list, err := s.library.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []types.Template{}
	}
	s.jsonResponse(w, http.StatusOK, TemplateListResponse{Templates: list, Count: len(list)})
}

// handleCreateTemplate saves edited content as a new template.
func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req types.SaveTemplateRequest
	if !s.decode(w, r, &req) {
		return
	}

	tmpl, err := s.library.SaveFromFields(r.Context(), req.Fields(), req.Category, req.AIResponseScore)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, tmpl)
}

// handleGetTemplate returns one template.
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.library.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tmpl)
}

// handleUpdateTemplate replaces a template's content, keeping its usage stats.
func (s *Server) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var req types.SaveTemplateRequest
	if !s.decode(w, r, &req) {
		return
	}

	tmpl, err := s.library.Update(r.Context(), r.PathValue("id"), req.Fields(), req.Category, req.AIResponseScore)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tmpl)
}

// handleDeleteTemplate removes a template.
func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUseTemplate records a use and returns the updated template.
func (s *Server) handleUseTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := s.library.Use(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tmpl)
}

// handleFillTemplate substitutes placeholder values and reports any left unfilled.
func (s *Server) handleFillTemplate(w http.ResponseWriter, r *http.Request) {
	var req types.FillTemplateRequest
	if !s.decode(w, r, &req) {
		return
	}

	filled, err := s.library.Fill(r.Context(), r.PathValue("id"), req.Values)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, filled)
}
