package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-outreach/internal/types"
)

var reviseCmd = &cobra.Command{
	Use:   "revise",
	Short: "Revise an email with free-text feedback",
	Long:  "Revise the current email in a revise request file (the generate request plus currentEmail and feedback). --feedback overrides the feedback in the file.",
	RunE:  runRevise,
}

var (
	reviseInputFile  string
	reviseFeedback   string
	reviseOutputFile string
)

func init() {
	reviseCmd.Flags().StringVarP(&reviseInputFile, "in", "i", "", "Path to revise request JSON (required)")
	reviseCmd.Flags().StringVarP(&reviseFeedback, "feedback", "f", "", "Revision feedback")
	reviseCmd.Flags().StringVarP(&reviseOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = reviseCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(reviseCmd)
}

func runRevise(cmd *cobra.Command, _ []string) error {
	var req types.ReviseRequest
	if err := readJSONFile(reviseInputFile, &req); err != nil {
		return err
	}
	if reviseFeedback != "" {
		req.Feedback = reviseFeedback
		if err := req.Validate(); err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
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

	result, err := drafter.ReviseEmail(cmd.Context(), req.JobDetails, req.PersonalInfo, req.CompanyInfo, req.EmailSettings, req.CurrentEmail, req.Feedback)
	if err != nil {
		return fmt.Errorf("failed to revise email: %w", err)
	}

	if p := printer(); p != nil {
		p.PrintEmail(result, req.EmailSettings.Length)
		p.PrintWarnings(result.Warnings)
	}
	return writeJSON(reviseOutputFile, result)
}
