package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/server"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes template browsing and resume export endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or config, else 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := observability.Logger(ctx)

	port := appConfig.Port
	if servePort > 0 {
		port = servePort
	}

	reg, err := buildRegistry(ctx, appConfig)
	if err != nil {
		return err
	}

	svc, release := buildExportService(appConfig)
	defer release()

	cfg := server.Config{
		Port:           port,
		Registry:       reg,
		Exports:        svc,
		Logger:         logger,
		RateLimit:      ratelimit.LoadConfig(os.Getenv),
		// Rasterization and the print fallback each get a full render timeout.
		ExportTimeout:  2 * appConfig.RenderTimeout(),
		ExportDefaults: exportDefaults(appConfig),
	}

	store, err := connectStore(ctx, appConfig)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		cfg.Store = store
	} else {
		logger.Info("DATABASE_URL not set; exports will not be stored")
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
