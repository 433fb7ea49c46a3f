package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/drafting"
	"github.com/jonathan/cold-outreach/internal/fetch"
	"github.com/jonathan/cold-outreach/internal/ingestion"
	"github.com/jonathan/cold-outreach/internal/llm"
	"github.com/jonathan/cold-outreach/internal/normalize"
	"github.com/jonathan/cold-outreach/internal/templates"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		errValidation *ErrValidation
		fieldErrs     validator.ValidationErrors
		templateErr   *templates.ValidationError
		providerErr   *llm.ProviderError
		templatingErr *normalize.TemplatingFailedError
		parseErr      *normalize.ParseError
		fetchErr      *fetch.Error
	)

	switch {
	case errors.As(err, &errValidation),
		errors.As(err, &fieldErrs),
		errors.As(err, &templateErr),
		errors.Is(err, drafting.ErrEmptyInput),
		errors.Is(err, ingestion.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, templates.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &providerErr),
		errors.As(err, &templatingErr),
		errors.As(err, &parseErr),
		errors.As(err, &fetchErr),
		errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and writes it. Server errors are logged and
// their detail is not echoed to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	if status == http.StatusInternalServerError {
		s.errorResponse(w, status, "Internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}
