package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/cssvars"
)

var varsCmd = &cobra.Command{
	Use:   "vars <template-id>",
	Short: "Print a template's CSS custom properties",
	Args:  cobra.ExactArgs(1),
	RunE:  runVars,
}

var varsFormat string

func init() {
	varsCmd.Flags().StringVar(&varsFormat, "format", "css", "Output format: css, json or list")
	rootCmd.AddCommand(varsCmd)
}

func runVars(cmd *cobra.Command, args []string) error {
	reg, err := buildRegistry(cmd.Context(), appConfig)
	if err != nil {
		return err
	}
	t, ok := reg.Get(args[0])
	if !ok {
		return fmt.Errorf("template not found: %s", args[0])
	}

	vars := cssvars.ToVariables(t.Config)
	out := cmd.OutOrStdout()
	switch varsFormat {
	case "css":
		_, err = io.WriteString(out, cssvars.Stylesheet(vars))
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(vars)
	case "list":
		names := make([]string, 0, len(vars))
		for name := range vars {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err = fmt.Fprintf(out, "%s=%s\n", name, vars[name]); err != nil {
				break
			}
		}
	default:
		return fmt.Errorf("unknown format %q (want css, json or list)", varsFormat)
	}
	return err
}
