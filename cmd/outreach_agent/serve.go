package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/config"
	"github.com/jonathan/cold-outreach/internal/server"
	"github.com/jonathan/cold-outreach/internal/server/ratelimit"
)

var serveFlags config.Config

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for drafting emails and managing templates.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveFlags.Server.Port, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringVar(&serveFlags.Server.CORSOrigin, "cors-origin", "", "Allowed CORS origin")
	serveCmd.Flags().StringVar(&serveFlags.Database.URL, "db-url", "", "Database URL (templates are kept in memory when unset)")
	serveCmd.Flags().StringVar(&serveFlags.LLM.Provider, "provider", "", "Pin every call to gemini or groq (default splits by tier)")
	serveCmd.Flags().StringVar(&serveFlags.LLM.GeminiAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveFlags.LLM.GroqAPIKey, "groq-api-key", "", "Groq API key (overrides GROQ_API_KEY env var)")
	serveCmd.Flags().BoolVar(&serveFlags.Fetch.UseBrowser, "use-browser", false, "Render posting pages in headless Chrome when static content is thin")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	loaded, err := loadConfig()
	if err != nil {
		return err
	}
	cfg := serveFlags.MergeWithDefaults(*loaded)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := newLogger(&cfg)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	drafter, closeClient, err := newDrafter(ctx, &cfg, log)
	if err != nil {
		return err
	}

	library, closeLibrary, err := openLibrary(ctx, &cfg, log)
	if err != nil {
		closeClient()
		return err
	}

	srv := server.New(cfg.Server, server.Deps{
		Drafter:    drafter,
		Library:    library,
		Logger:     log,
		RateLimit:  ratelimit.FromSettings(cfg.RateLimit),
		Ingestion:  ingestionOptions(&cfg, log),
		OnShutdown: []func(){closeClient, closeLibrary},
	})

	log.Info("starting outreach API",
		zap.Int("port", cfg.Server.Port),
		zap.Bool("database", cfg.Database.URL != ""),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled))

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
