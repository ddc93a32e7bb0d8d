package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/db"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "Manage stored PDF exports (requires DATABASE_URL)",
}

var exportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored exports, newest first",
	Args:  cobra.NoArgs,
	RunE:  runExportsList,
}

var exportsGetCmd = &cobra.Command{
	Use:   "get <export-id>",
	Short: "Write a stored export to disk",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportsGet,
}

var exportsDeleteCmd = &cobra.Command{
	Use:   "delete <export-id>",
	Short: "Delete a stored export",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportsDelete,
}

var (
	exportsTemplateID string
	exportsMethod     string
	exportsLimit      int
	exportsOutput     string
)

func init() {
	exportsListCmd.Flags().StringVarP(&exportsTemplateID, "template", "t", "", "Only exports of this template")
	exportsListCmd.Flags().StringVar(&exportsMethod, "method", "", "Only raster or print exports")
	exportsListCmd.Flags().IntVarP(&exportsLimit, "limit", "n", db.DefaultListLimit, "Maximum exports to list")

	exportsGetCmd.Flags().StringVarP(&exportsOutput, "out", "o", "", "Output directory (default: current directory)")

	exportsCmd.AddCommand(exportsListCmd, exportsGetCmd, exportsDeleteCmd)
	rootCmd.AddCommand(exportsCmd)
}

func runExportsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	store, err := requireStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	exports, err := store.ListExportsFiltered(ctx, db.ExportFilters{
		TemplateID: exportsTemplateID,
		Method:     exportsMethod,
		Limit:      exportsLimit,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTEMPLATE\tMETHOD\tPAGES\tFILE\tCREATED")
	for _, e := range exports {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.ID, e.TemplateID, e.Method, e.Pages, e.Filename, e.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func parseExportID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid export id: %w", err)
	}
	return id, nil
}

func runExportsGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseExportID(args[0])
	if err != nil {
		return err
	}
	store, err := requireStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	e, err := store.GetExport(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("export not found: %s", id)
	}

	path, err := writeOutput(exportsOutput, e.Filename, e.PDF)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", path)
	return nil
}

func runExportsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseExportID(args[0])
	if err != nil {
		return err
	}
	store, err := requireStore(ctx, appConfig)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteExport(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted export %s\n", id)
	return nil
}
