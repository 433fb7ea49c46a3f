package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-outreach/internal/ingestion"
	"github.com/jonathan/cold-outreach/internal/types"
)

var templatizeCmd = &cobra.Command{
	Use:   "templatize",
	Short: "Convert a finished email into a reusable template",
	Long: `Replace the dynamic parts of a finished email with {{placeholder}} tokens.
Read the email from --in (a JSON object with subject and body, or the
output of generate) or from
--subject and --body-file. With --save the template is stored in the library.`,
	RunE: runTemplatize,
}

var (
	templatizeInputFile  string
	templatizeSubject    string
	templatizeBodyFile   string
	templatizeSave       bool
	templatizeScore      int
	templatizeCategory   string
	templatizeOutputFile string
)

// templatizeOutput is the templatize result; Template is set when saved.
type templatizeOutput struct {
	Fields   types.TemplateFields `json:"fields"`
	Template *types.Template      `json:"template,omitempty"`
}

func init() {
	templatizeCmd.Flags().StringVarP(&templatizeInputFile, "in", "i", "", "Path to email JSON with subject and body")
	templatizeCmd.Flags().StringVar(&templatizeSubject, "subject", "", "Email subject")
	templatizeCmd.Flags().StringVar(&templatizeBodyFile, "body-file", "", "Path to email body text file")
	templatizeCmd.Flags().BoolVar(&templatizeSave, "save", false, "Save the template to the library")
	templatizeCmd.Flags().IntVar(&templatizeScore, "score", 0, "Response score (0-100) stored with a saved template")
	templatizeCmd.Flags().StringVar(&templatizeCategory, "category", "", "Category stored with a saved template")
	templatizeCmd.Flags().StringVarP(&templatizeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	templatizeCmd.MarkFlagsMutuallyExclusive("in", "body-file")
	templatizeCmd.MarkFlagsOneRequired("in", "body-file")

	rootCmd.AddCommand(templatizeCmd)
}

func loadTemplatizeRequest() (*types.TemplatizeRequest, error) {
	req := types.TemplatizeRequest{Save: templatizeSave, Score: templatizeScore}
	if templatizeInputFile != "" {
		// accepts a bare email or the output of generate/revise
		var input struct {
			types.GeneratedEmail
			Email *types.GeneratedEmail `json:"email"`
		}
		if err := readJSONFile(templatizeInputFile, &input); err != nil {
			return nil, err
		}
		email := input.GeneratedEmail
		if input.Email != nil {
			email = *input.Email
		}
		req.Subject, req.Body = email.Subject, email.Body
	} else {
		body, err := ingestion.ReadText(templatizeBodyFile)
		if err != nil {
			return nil, err
		}
		req.Subject, req.Body = templatizeSubject, body
	}

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return &req, nil
}

func runTemplatize(cmd *cobra.Command, _ []string) error {
	req, err := loadTemplatizeRequest()
	if err != nil {
		return err
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

	fields, err := drafter.Templatize(ctx, req.Subject, req.Body)
	if err != nil {
		return fmt.Errorf("failed to templatize email: %w", err)
	}
	out := templatizeOutput{Fields: fields}

	if req.Save {
		library, closeLibrary, err := openLibrary(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeLibrary()

		out.Template, err = library.SaveFromFields(ctx, fields, templatizeCategory, req.Score)
		if err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Saved template %s\n", out.Template.ID)
	}

	if p := printer(); p != nil {
		p.PrintTemplateFields(&fields)
	}
	return writeJSON(templatizeOutputFile, out)
}
