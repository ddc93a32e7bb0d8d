package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/resume"
	"github.com/jonathan/resume-studio/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume to PDF",
	Long: `Renders resume JSON with a template and exports it to PDF. The document is
rasterized by a headless browser and split into pages; if rasterization fails
the browser's native print is used instead.`,
	RunE: runExport,
}

var (
	exportResumeFile  string
	exportTemplateID  string
	exportOutput      string
	exportFilename    string
	exportFormat      string
	exportOrientation string
	exportQuality     float64
	exportPrintOnly   bool
	exportSave        bool
)

func init() {
	exportCmd.Flags().StringVarP(&exportResumeFile, "resume", "r", "", "Path to resume JSON file (required)")
	exportCmd.Flags().StringVarP(&exportTemplateID, "template", "t", "", "Template ID (required)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output directory (default: current directory)")
	exportCmd.Flags().StringVar(&exportFilename, "filename", "", "Output file name (default: {first}_{last}_{template}.pdf)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Page format: a4 or letter")
	exportCmd.Flags().StringVar(&exportOrientation, "orientation", "", "Page orientation: portrait or landscape")
	exportCmd.Flags().Float64Var(&exportQuality, "quality", 0, "JPEG quality factor in (0, 1]")
	exportCmd.Flags().BoolVar(&exportPrintOnly, "print", false, "Skip rasterization and use native print")
	exportCmd.Flags().BoolVar(&exportSave, "save", false, "Store the export in the database (requires DATABASE_URL)")

	if err := exportCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := exportCmd.MarkFlagRequired("template"); err != nil {
		panic(fmt.Sprintf("failed to mark template flag as required: %v", err))
	}

	rootCmd.AddCommand(exportCmd)
}

// loadInputs reads the resume file and resolves the template ID.
func loadInputs(ctx context.Context, resumePath, templateID string) (types.ResumeData, types.Template, error) {
	data, err := resume.Load(resumePath)
	if err != nil {
		return types.ResumeData{}, types.Template{}, err
	}

	reg, err := buildRegistry(ctx, appConfig)
	if err != nil {
		return types.ResumeData{}, types.Template{}, err
	}
	t, ok := reg.Get(templateID)
	if !ok {
		return types.ResumeData{}, types.Template{}, fmt.Errorf("template not found: %s", templateID)
	}
	return resume.EnsureIDs(data), t, nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := observability.Logger(ctx)

	data, t, err := loadInputs(ctx, exportResumeFile, exportTemplateID)
	if err != nil {
		return err
	}

	report := resume.Validate(data)
	for _, w := range report.Errors {
		logger.Warn("resume data incomplete", "field", w.Field, "message", w.Message)
	}

	opts := exportOptions(appConfig, export.Options{
		Filename:    exportFilename,
		Quality:     exportQuality,
		Format:      exportFormat,
		Orientation: exportOrientation,
	})

	var store *db.DB
	if exportSave {
		store, err = requireStore(ctx, appConfig)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	svc, release := buildExportService(appConfig)
	defer release()

	generate := svc.GeneratePDF
	if exportPrintOnly {
		generate = svc.GeneratePDFViaPrint
	}
	res, err := generate(ctx, data, t, opts)
	if err != nil {
		return exportFailure(err)
	}

	path, err := writeOutput(exportOutput, res.Filename, res.PDF)
	if err != nil {
		return err
	}

	if store != nil {
		resolved, _ := opts.WithDefaults()
		if _, err := store.SaveExport(ctx, &db.Export{
			ID:          res.ID,
			TemplateID:  t.ID,
			Filename:    res.Filename,
			Method:      res.Method,
			Format:      resolved.Format,
			Orientation: resolved.Orientation,
			Pages:       res.Pages,
			Warnings:    res.Warnings,
			PDF:         res.PDF,
		}); err != nil {
			return fmt.Errorf("export written to %s but not stored: %w", path, err)
		}
		logger.Debug("stored export", "id", res.ID)
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintExport(path, res.Method, res.Pages, res.Warnings)
	return nil
}

// writeOutput writes content to dir/name, creating dir as needed.
func writeOutput(dir, name string, content []byte) (string, error) {
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return path, nil
}

// splitOutput splits a file path into the directory and name writeOutput takes.
func splitOutput(path string) (string, string) {
	return filepath.Dir(path), filepath.Base(path)
}

// exportFailure prepares a generation error for the user. A blocked print
// window already carries the manual print instruction.
func exportFailure(err error) error {
	var popup *export.PopupBlockedError
	if errors.As(err, &popup) {
		return err
	}
	return fmt.Errorf("export failed: %w", err)
}
