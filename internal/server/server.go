// Package server provides the HTTP REST API for drafting outreach emails and
// managing the template library.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/config"
	"github.com/jonathan/cold-outreach/internal/drafting"
	"github.com/jonathan/cold-outreach/internal/ingestion"
	applog "github.com/jonathan/cold-outreach/internal/logger"
	"github.com/jonathan/cold-outreach/internal/metrics"
	"github.com/jonathan/cold-outreach/internal/server/ratelimit"
	"github.com/jonathan/cold-outreach/internal/templates"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	drafter     *drafting.Drafter
	library     *templates.Library
	rateLimiter *ratelimit.Limiter
	logger      *zap.Logger
	ingest      ingestion.Options
	corsOrigin  string
	onShutdown  []func()
}

// Deps are the collaborators the server routes to.
type Deps struct {
	Drafter   *drafting.Drafter
	Library   *templates.Library
	Logger    *zap.Logger
	RateLimit *ratelimit.Config
	Ingestion ingestion.Options
	// OnShutdown runs after the listener stops, e.g. closing the provider client.
	OnShutdown []func()
}

// New creates a new server instance
func New(cfg config.ServerConfig, deps Deps) *Server {
	logger := applog.OrNop(deps.Logger)
	if deps.Ingestion.Logger == nil {
		deps.Ingestion.Logger = logger
	}

	s := &Server{
		drafter:     deps.Drafter,
		library:     deps.Library,
		rateLimiter: ratelimit.NewLimiter(deps.RateLimit),
		logger:      logger,
		ingest:      deps.Ingestion,
		corsOrigin:  cfg.CORSOrigin,
		onShutdown:  deps.OnShutdown,
	}

	writeTimeout := cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 120 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout, // model calls can take tens of seconds
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", metrics.Handler())

	// Drafting
	mux.HandleFunc("POST /jobs/extract", s.handleExtractJob)
	mux.HandleFunc("POST /emails", s.handleGenerateEmail)
	mux.HandleFunc("POST /emails/revise", s.handleReviseEmail)
	mux.HandleFunc("POST /emails/subject", s.handleReviseSubject)
	mux.HandleFunc("POST /emails/templatize", s.handleTemplatize)
	mux.HandleFunc("POST /resumes/analyze", s.handleAnalyzeResume)
	mux.HandleFunc("POST /companies/summarize", s.handleSummarizeCompany)

	// Template library
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("POST /templates", s.handleCreateTemplate)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("PUT /templates/{id}", s.handleUpdateTemplate)
	mux.HandleFunc("DELETE /templates/{id}", s.handleDeleteTemplate)
	mux.HandleFunc("POST /templates/{id}/use", s.handleUseTemplate)
	mux.HandleFunc("POST /templates/{id}/fill", s.handleFillTemplate)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.cleanup()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.cleanup()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

func (s *Server) cleanup() {
	s.rateLimiter.Stop()
	for _, fn := range s.onShutdown {
		fn()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
