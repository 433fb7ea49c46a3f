package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-outreach/internal/types"
)

var subjectCmd = &cobra.Command{
	Use:   "subject",
	Short: "Regenerate only the subject line",
	RunE:  runSubject,
}

var (
	subjectInputFile  string
	subjectFeedback   string
	subjectOutputFile string
)

func init() {
	subjectCmd.Flags().StringVarP(&subjectInputFile, "in", "i", "", "Path to subject request JSON (jobDetails, personalInfo, currentSubject, feedback) (required)")
	subjectCmd.Flags().StringVarP(&subjectFeedback, "feedback", "f", "", "Feedback for the new subject")
	subjectCmd.Flags().StringVarP(&subjectOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	_ = subjectCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(subjectCmd)
}

func runSubject(cmd *cobra.Command, _ []string) error {
	var req types.ReviseSubjectRequest
	if err := readJSONFile(subjectInputFile, &req); err != nil {
		return err
	}
	if subjectFeedback != "" {
		req.Feedback = subjectFeedback
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

	subject, err := drafter.ReviseSubject(cmd.Context(), req.JobDetails, req.PersonalInfo, req.CurrentSubject, req.Feedback)
	if err != nil {
		return fmt.Errorf("failed to revise subject: %w", err)
	}

	if p := printer(); p != nil {
		p.PrintSubject(req.CurrentSubject, subject)
	}
	return writeJSON(subjectOutputFile, map[string]string{"subject": subject})
}
