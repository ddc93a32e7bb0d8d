// Package main provides the resume_studio CLI and HTTP API server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/observability"
)

var (
	verbose    bool
	configPath string

	// appConfig is resolved once per invocation in the root pre-run.
	appConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:   "resume_studio",
	Short: "Resume template registry and PDF exporter",
	Long: `resume_studio browses a registry of resume templates, renders resume data
into self-contained HTML, and exports it to PDF through a headless browser.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
}

// loadConfig resolves the config file, environment and defaults, then
// attaches a logger to the command context.
func loadConfig(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = *loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}
	cfg = cfg.MergeWithDefaults(config.Config{})
	if verbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	logger := observability.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	if !cfg.Verbose {
		logger.SetLevel(observability.ParseLevel(cfg.LogLevel))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(observability.WithLogger(ctx, logger))
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// maxprocs.Set only fails on an invalid GOMAXPROCS; runtime defaults apply then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
