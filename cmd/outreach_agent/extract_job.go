package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/cold-outreach/internal/ingestion"
	"github.com/jonathan/cold-outreach/internal/types"
)

var extractJobCmd = &cobra.Command{
	Use:   "extract-job",
	Short: "Extract company, recruiter and role from a job posting",
	Long:  "Extract structured job details from a job description text file or a posting URL. With --company-url the company page is fetched alongside the posting and summarized into companyInfo.",
	RunE:  runExtractJob,
}

var (
	extractInputFile  string
	extractURL        string
	extractCompanyURL string
	extractOutputFile string
	extractUseBrowser bool
)

// extractJobOutput is the extract-job result. JobDetails is null when the
// description was too short.
type extractJobOutput struct {
	JobDetails  *types.JobDetails  `json:"jobDetails"`
	Title       string             `json:"title,omitempty"`
	Platform    string             `json:"platform,omitempty"`
	ContentHash string             `json:"contentHash,omitempty"`
	CompanyInfo *types.CompanyInfo `json:"companyInfo,omitempty"`
}

func init() {
	extractJobCmd.Flags().StringVarP(&extractInputFile, "in", "i", "", "Path to job description text file")
	extractJobCmd.Flags().StringVar(&extractURL, "url", "", "Job posting URL")
	extractJobCmd.Flags().StringVar(&extractCompanyURL, "company-url", "", "Company about page URL (requires --url)")
	extractJobCmd.Flags().StringVarP(&extractOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	extractJobCmd.Flags().BoolVar(&extractUseBrowser, "use-browser", false, "Render pages in headless Chrome when static content is thin")
	extractJobCmd.MarkFlagsMutuallyExclusive("in", "url")
	extractJobCmd.MarkFlagsOneRequired("in", "url")

	rootCmd.AddCommand(extractJobCmd)
}

func runExtractJob(cmd *cobra.Command, _ []string) error {
	if extractCompanyURL != "" && extractURL == "" {
		return fmt.Errorf("--company-url requires --url")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()
	ctx := cmd.Context()

	drafter, closeClient, err := newDrafter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeClient()

	var out extractJobOutput
	var description, companyPage string

	if extractInputFile != "" {
		description, err = ingestion.ReadText(extractInputFile)
		if err != nil {
			return err
		}
	} else {
		opts := ingestionOptions(cfg, log)
		opts.UseBrowser = opts.UseBrowser || extractUseBrowser

		gathered, err := ingestion.Gather(ctx, extractURL, extractCompanyURL, opts)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		description = gathered.Job.Text
		out.Title = gathered.Job.Title
		out.Platform = string(gathered.Job.Platform)
		out.ContentHash = gathered.Job.Hash
		if gathered.Company != nil {
			companyPage = gathered.Company.Text
		} else if gathered.CompanyErr != nil {
			log.Warn("company page unavailable", zap.Error(gathered.CompanyErr))
		}
	}

	details, err := drafter.ExtractJobDetails(ctx, description)
	if err != nil {
		return fmt.Errorf("failed to extract job details: %w", err)
	}
	if details == nil {
		_, _ = fmt.Fprintln(os.Stderr, "Warning: description is too short to extract details from")
	} else if details.JobURL == "" {
		details.JobURL = extractURL
	}
	out.JobDetails = details

	if companyPage != "" {
		name := ""
		if details != nil {
			name = details.CompanyName
		}
		info, err := drafter.SummarizeCompany(ctx, name, companyPage)
		if err != nil {
			log.Warn("company summary failed", zap.Error(err))
		} else {
			out.CompanyInfo = &info
		}
	}

	if p := printer(); p != nil && details != nil {
		p.PrintJobDetails(details)
	}
	return writeJSON(extractOutputFile, out)
}
