package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/document"
)

var htmlCmd = &cobra.Command{
	Use:   "html",
	Short: "Render a resume to self-contained HTML",
	Long:  "Renders resume JSON with a template into a standalone HTML document. This is the markup the PDF export rasterizes.",
	RunE:  runHTML,
}

var (
	htmlResumeFile string
	htmlTemplateID string
	htmlOutput     string
)

func init() {
	htmlCmd.Flags().StringVarP(&htmlResumeFile, "resume", "r", "", "Path to resume JSON file (required)")
	htmlCmd.Flags().StringVarP(&htmlTemplateID, "template", "t", "", "Template ID (required)")
	htmlCmd.Flags().StringVarP(&htmlOutput, "out", "o", "", "Output file (default: stdout)")

	if err := htmlCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := htmlCmd.MarkFlagRequired("template"); err != nil {
		panic(fmt.Sprintf("failed to mark template flag as required: %v", err))
	}

	rootCmd.AddCommand(htmlCmd)
}

func runHTML(cmd *cobra.Command, _ []string) error {
	data, t, err := loadInputs(cmd.Context(), htmlResumeFile, htmlTemplateID)
	if err != nil {
		return err
	}

	markup, err := document.Render(data, t)
	if err != nil {
		return err
	}

	if htmlOutput == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), markup)
		return err
	}
	dir, name := splitOutput(htmlOutput)
	path, err := writeOutput(dir, name, []byte(markup))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", path)
	return nil
}
