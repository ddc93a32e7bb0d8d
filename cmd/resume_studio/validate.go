package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/resume"
)

var validateCmd = &cobra.Command{
	Use:   "validate <resume.json>",
	Short: "Check resume data for missing content",
	Long: `Checks resume JSON against the resume schema and reports missing or invalid
content. Findings are advisory unless --strict is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var validateStrict bool

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit with an error when errors are found")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	schemaErrs, err := resume.ValidateJSON(raw)
	if err != nil {
		return err
	}
	for _, fe := range schemaErrs {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schema: %s: %s\n", fe.Field, fe.Message)
	}

	data, err := resume.Parse(raw)
	if err != nil {
		return err
	}
	report := resume.Validate(data)
	observability.NewPrinter(cmd.OutOrStdout()).PrintReport(report)

	if validateStrict && (!report.OK() || len(schemaErrs) > 0) {
		return fmt.Errorf("resume has %d error(s) and %d schema violation(s)", len(report.Errors), len(schemaErrs))
	}
	return nil
}
