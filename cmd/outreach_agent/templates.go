package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-outreach/internal/templates"
	"github.com/jonathan/cold-outreach/internal/types"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage the template library",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List templates",
	RunE:  runTemplatesList,
}

var templatesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default templates that are not already stored",
	RunE:  runTemplatesSeed,
}

var (
	listSearch     string
	listTag        string
	listCategory   string
	listView       string
	listOutputFile string
)

func init() {
	templatesListCmd.Flags().StringVar(&listSearch, "search", "", "Match title, preview or tags")
	templatesListCmd.Flags().StringVar(&listTag, "tag", "", "Only templates with this tag")
	templatesListCmd.Flags().StringVar(&listCategory, "category", "", "Only templates in this category")
	templatesListCmd.Flags().StringVar(&listView, "view", string(templates.ViewAll), "all, high-performing or recent")
	templatesListCmd.Flags().StringVarP(&listOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")

	templatesCmd.AddCommand(templatesListCmd, templatesSeedCmd)
	rootCmd.AddCommand(templatesCmd)
}

func runTemplatesList(cmd *cobra.Command, _ []string) error {
	view := templates.View(listView)
	switch view {
	case templates.ViewAll, templates.ViewHighPerforming, templates.ViewRecent:
	default:
		return fmt.Errorf("invalid --view %q: must be all, high-performing or recent", listView)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	library, closeLibrary, err := openLibrary(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeLibrary()

	list, err := library.List(cmd.Context(), templates.Filter{
		Search:   listSearch,
		Tag:      listTag,
		Category: listCategory,
		View:     view,
	})
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	if list == nil {
		list = []types.Template{}
	}

	if p := printer(); p != nil {
		p.PrintTemplates(list)
	}
	return writeJSON(listOutputFile, list)
}

func runTemplatesSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required to seed templates")
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	// openLibrary seeds on its own when enabled; seed explicitly either way.
	cfg.Templates.SeedDefaults = false
	library, closeLibrary, err := openLibrary(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeLibrary()

	n, err := library.Seed(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to seed templates: %w", err)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Seeded %d default templates\n", n)
	return nil
}
