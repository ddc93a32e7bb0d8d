package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/catalog"
	"github.com/jonathan/resume-studio/internal/config"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/fetch"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/registry"
)

// buildRegistry registers the builtin catalog plus any manifests in the
// configured templates directory.
func buildRegistry(ctx context.Context, cfg config.Config) (*registry.Registry, error) {
	reg := registry.New()
	if err := catalog.Bootstrap(reg); err != nil {
		return nil, fmt.Errorf("failed to bootstrap template catalog: %w", err)
	}

	if cfg.TemplatesDir != "" {
		templates, err := catalog.LoadDir(cfg.TemplatesDir)
		if err != nil {
			return nil, err
		}
		res := reg.RegisterBatch(templates)
		for _, f := range res.Failed {
			observability.Logger(ctx).Warn("skipped template manifest",
				"id", f.Template.ID, "errors", strings.Join(f.Errors, "; "))
		}
		observability.Logger(ctx).Debug("loaded template manifests",
			"dir", cfg.TemplatesDir, "registered", len(res.Success), "failed", len(res.Failed))
	}

	if cfg.SealRegistry {
		reg.Seal()
	}
	return reg, nil
}

// engine is a browser that can both rasterize and print.
type engine interface {
	export.Renderer
	export.Printer
	Close() error
}

func newEngine(cfg config.Config) engine {
	if cfg.Engine == config.EngineRod {
		return &export.RodRenderer{
			BrowserPath:   cfg.ChromePath,
			Timeout:       cfg.RenderTimeout(),
			SettleTimeout: cfg.SettleTimeout(),
		}
	}
	return &export.ChromiumRenderer{
		BrowserPath:   cfg.ChromePath,
		Timeout:       cfg.RenderTimeout(),
		SettleTimeout: cfg.SettleTimeout(),
	}
}

// buildExportService wires the configured engine into both export paths.
// The returned func releases the browser.
func buildExportService(cfg config.Config) (*export.Service, func()) {
	eng := newEngine(cfg)

	printPath := &export.PrintPath{Printer: eng, Timeout: cfg.RenderTimeout()}
	if cfg.HostDocumentURL != "" {
		printPath.Styles = &export.StylesheetCollector{
			HostURL: cfg.HostDocumentURL,
			Fetch:   fetch.DefaultOptions(),
		}
	}

	svc := &export.Service{
		Renderer:      eng,
		Print:         printPath,
		Scale:         cfg.DeviceScale,
		RasterTimeout: cfg.RenderTimeout(),
	}
	return svc, func() { _ = eng.Close() }
}

// exportDefaults returns the export options configured for this process.
func exportDefaults(cfg config.Config) export.Options {
	return export.Options{Format: cfg.Format, Quality: cfg.Quality}
}

// exportOptions fills unset export options from the config.
func exportOptions(cfg config.Config, opts export.Options) export.Options {
	return opts.Inherit(exportDefaults(cfg))
}

// connectStore opens the export database when one is configured. It returns
// nil without error otherwise.
func connectStore(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// requireStore is connectStore for commands that cannot run without one.
func requireStore(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return connectStore(ctx, cfg)
}
