package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/config"
	"github.com/jonathan/cold-outreach/internal/db"
	"github.com/jonathan/cold-outreach/internal/drafting"
	"github.com/jonathan/cold-outreach/internal/ingestion"
	"github.com/jonathan/cold-outreach/internal/llm"
	"github.com/jonathan/cold-outreach/internal/logger"
	"github.com/jonathan/cold-outreach/internal/observability"
	"github.com/jonathan/cold-outreach/internal/templates"
)

// stderr receives the --verbose output. Tests swap it out.
var stderr io.Writer = os.Stderr

// newClient builds the provider client. Tests replace it with a stub.
var newClient = func(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if pinned, ok := cfg.PinnedProvider(); ok {
		return llm.NewClient(ctx, pinned, cfg.Keys())
	}
	return llm.NewSplitClient(ctx, cfg.GeminiConfig(), cfg.GroqConfig(), cfg.Keys())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *zap.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logger.New(level, cfg.Logging.Format)
}

// printer returns a Printer when --verbose is set, otherwise nil.
func printer() *observability.Printer {
	if !verbose {
		return nil
	}
	return observability.NewPrinter(stderr)
}

// newDrafter returns a drafter and a func that closes its provider client.
func newDrafter(ctx context.Context, cfg *config.Config, log *zap.Logger) (*drafting.Drafter, func(), error) {
	if !cfg.HasLLMKey() {
		return nil, nil, fmt.Errorf("API key is required (set GEMINI_API_KEY or GROQ_API_KEY)")
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return drafting.New(client, log), func() { _ = client.Close() }, nil
}

// openLibrary opens the template library on Postgres when a database URL is
// configured and in memory otherwise. Defaults are seeded when enabled.
func openLibrary(ctx context.Context, cfg *config.Config, log *zap.Logger) (*templates.Library, func(), error) {
	closeFn := func() {}
	var store templates.Store = templates.NewMemoryStore()

	if cfg.Database.URL != "" {
		database, err := db.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.EnsureSchema(ctx); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
		}
		store = db.NewTemplateStore(database)
		closeFn = database.Close
	} else {
		log.Info("no database configured, templates are kept in memory")
	}

	library := templates.NewLibrary(store, log)
	if cfg.Templates.SeedDefaults {
		if _, err := library.Seed(ctx); err != nil {
			closeFn()
			return nil, nil, fmt.Errorf("failed to seed templates: %w", err)
		}
	}
	return library, closeFn, nil
}

func ingestionOptions(cfg *config.Config, log *zap.Logger) ingestion.Options {
	return ingestion.Options{
		Timeout:    cfg.Fetch.Timeout,
		UseBrowser: cfg.Fetch.UseBrowser,
		Logger:     log,
	}
}

// readJSONFile decodes path into v and runs v's validation when it has one.
func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if validator, ok := v.(interface{ Validate() error }); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("invalid input in %s: %w", path, err)
		}
	}
	return nil
}

// writeJSON writes v as indented JSON to out, or to stdout when out is empty.
func writeJSON(out string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
