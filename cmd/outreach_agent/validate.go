package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cold-outreach/internal/schemas"
	schemafiles "github.com/jonathan/cold-outreach/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON file against one of the built-in schemas",
	Long:  "Validate a JSON file against a built-in schema (job-details, personal-info, template-fields or template) or a schema file given with --schema-file.",
	RunE:  runValidate,
}

var (
	validateSchema     string
	validateSchemaFile string
	validateInputFile  string
)

var schemaNames = map[string]string{
	"job-details":     schemafiles.JobDetails,
	"personal-info":   schemafiles.PersonalInfo,
	"template-fields": schemafiles.TemplateFields,
	"template":        schemafiles.Template,
}

func init() {
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Built-in schema name")
	validateCmd.Flags().StringVar(&validateSchemaFile, "schema-file", "", "Path to a JSON Schema file")
	validateCmd.Flags().StringVarP(&validateInputFile, "in", "i", "", "Path to JSON file (required)")
	validateCmd.MarkFlagsMutuallyExclusive("schema", "schema-file")
	validateCmd.MarkFlagsOneRequired("schema", "schema-file")
	_ = validateCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	if validateSchemaFile != "" {
		return validateAgainstFile()
	}

	name, ok := schemaNames[validateSchema]
	if !ok {
		return fmt.Errorf("unknown schema %q (use job-details, personal-info, template-fields or template)", validateSchema)
	}

	content, err := os.ReadFile(validateInputFile)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	if err := schemas.Validate(name, content); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%s does not validate against %s: %w", validateInputFile, validateSchema, err)
		}
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s is valid\n", validateInputFile)
	return nil
}

func validateAgainstFile() error {
	err := schemas.ValidateJSON(validateSchemaFile, validateInputFile)
	if err != nil {
		var schemaLoadErr *schemas.SchemaLoadError
		if errors.As(err, &schemaLoadErr) {
			return fmt.Errorf("could not load schema: %w", err)
		}
		return fmt.Errorf("%s does not validate against %s: %w", validateInputFile, validateSchemaFile, err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "%s is valid\n", validateInputFile)
	return nil
}
