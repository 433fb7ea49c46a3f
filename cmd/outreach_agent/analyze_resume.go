package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-outreach/internal/ingestion"
)

var analyzeResumeCmd = &cobra.Command{
	Use:   "analyze-resume",
	Short: "Extract a candidate profile from a resume",
	Long:  "Extract personal info (skills, projects, experience, education, links) from a plain text or Markdown resume.",
	RunE:  runAnalyzeResume,
}

var (
	analyzeInputFile  string
	analyzeOutputFile string
)

func init() {
	analyzeResumeCmd.Flags().StringVarP(&analyzeInputFile, "in", "i", "", "Path to resume file (.txt or .md) (required)")
	analyzeResumeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = analyzeResumeCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(analyzeResumeCmd)
}

func runAnalyzeResume(cmd *cobra.Command, _ []string) error {
	text, err := ingestion.ReadResume(analyzeInputFile)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()

	drafter, closeClient, err := newDrafter(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	info, err := drafter.AnalyzeResume(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}

	if p := printer(); p != nil {
		p.PrintPersonalInfo(&info)
	}
	return writeJSON(analyzeOutputFile, info)
}
