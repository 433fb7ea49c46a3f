package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-outreach/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Draft a new outreach email",
	Long: `Draft a new outreach email. Provide either a full request file with --in
(jobDetails, personalInfo, companyInfo, emailSettings) or the individual
--job and --profile files with optional --company and settings flags.`,
	RunE: runGenerate,
}

var (
	generateInputFile   string
	generateJobFile     string
	generateProfileFile string
	generateCompanyFile string
	generateTone        string
	generateLength      string
	generateSubject     string
	generateOutputFile  string
)

func init() {
	generateCmd.Flags().StringVarP(&generateInputFile, "in", "i", "", "Path to generate request JSON")
	generateCmd.Flags().StringVar(&generateJobFile, "job", "", "Path to job details JSON")
	generateCmd.Flags().StringVar(&generateProfileFile, "profile", "", "Path to personal info JSON")
	generateCmd.Flags().StringVar(&generateCompanyFile, "company", "", "Path to company info JSON")
	generateCmd.Flags().StringVar(&generateTone, "tone", "", "Tone (professional, friendly, enthusiastic, value-driven, casual or free text)")
	generateCmd.Flags().StringVar(&generateLength, "length", "", "Length tier (short, medium, long)")
	generateCmd.Flags().StringVar(&generateSubject, "subject", "", "Use this subject line instead of generating one")
	generateCmd.Flags().StringVarP(&generateOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	generateCmd.MarkFlagsMutuallyExclusive("in", "job")
	generateCmd.MarkFlagsMutuallyExclusive("in", "profile")
	generateCmd.MarkFlagsOneRequired("in", "job")

	rootCmd.AddCommand(generateCmd)
}

// loadGenerateRequest builds the request from --in or from the individual files.
func loadGenerateRequest() (*types.GenerateRequest, error) {
	var req types.GenerateRequest
	if generateInputFile != "" {
		if err := readJSONFile(generateInputFile, &req); err != nil {
			return nil, err
		}
	} else {
		if generateProfileFile == "" {
			return nil, fmt.Errorf("--profile is required with --job")
		}
		if err := readJSONFile(generateJobFile, &req.JobDetails); err != nil {
			return nil, err
		}
		if err := readJSONFile(generateProfileFile, &req.PersonalInfo); err != nil {
			return nil, err
		}
		if generateCompanyFile != "" {
			if err := readJSONFile(generateCompanyFile, &req.CompanyInfo); err != nil {
				return nil, err
			}
		}
	}

	if generateTone != "" {
		req.EmailSettings.Tone = types.Tone(generateTone)
	}
	if generateLength != "" {
		req.EmailSettings.Length = types.Length(generateLength)
	}
	if generateSubject != "" {
		req.EmailSettings.SubjectLine = generateSubject
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req, err := loadGenerateRequest()
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

	result, err := drafter.GenerateEmail(cmd.Context(), req.JobDetails, req.PersonalInfo, req.CompanyInfo, req.EmailSettings)
	if err != nil {
		return fmt.Errorf("failed to generate email: %w", err)
	}

	if p := printer(); p != nil {
		p.PrintEmail(result, req.EmailSettings.Length)
		p.PrintWarnings(result.Warnings)
	}
	return writeJSON(generateOutputFile, result)
}
