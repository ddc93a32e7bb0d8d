// Package export turns resume data and a template into a PDF.
//
// The primary path rasterizes the generated document with a Renderer and
// slices the bitmap into pages. When rasterization fails with a
// *RenderError, the Service retries once through the native print path.
// A failure there is returned to the caller.
package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/types"
)

// Export methods recorded on a Result.
const (
	MethodRaster = "raster"
	MethodPrint  = "print"
)

// Result is a generated PDF. Delivering it is up to the caller.
type Result struct {
	ID       uuid.UUID `json:"id"`
	Filename string    `json:"filename"`
	PDF      []byte    `json:"-"`
	Pages    int       `json:"pages"`
	Method   string    `json:"method"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Service runs exports. Renderer or Print may be nil; a nil Renderer sends
// every export to the print path.
type Service struct {
	Renderer Renderer
	Print    *PrintPath
	// Scale is the device pixel ratio for rasterization.
	Scale float64
	// RasterTimeout bounds rasterization alone so a slow capture leaves the
	// rest of ctx's deadline to the print fallback. Zero means ctx only.
	RasterTimeout time.Duration
}

// GeneratePDF renders data with template t. Rasterization failures fall back
// to the print path automatically.
func (s *Service) GeneratePDF(ctx context.Context, data types.ResumeData, t types.Template, opts Options) (*Result, error) {
	opts, err := opts.WithDefaults()
	if err != nil {
		return nil, err
	}
	logger := observability.Logger(ctx).With("template", t.ID)

	markup, err := document.Render(data, t)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ID:       uuid.New(),
		Filename: filename(data, t, opts),
	}

	if s.Renderer == nil {
		logger.Debug("no renderer configured; using print path")
		return s.printInto(ctx, result, markup, opts)
	}

	progress := observability.NewProgress(logger)
	pdf, pages, err := s.rasterize(ctx, markup, opts)
	if err == nil {
		result.PDF, result.Pages, result.Method = pdf, pages, MethodRaster
		progress.Done("rendered PDF", "pages", pages, "method", MethodRaster)
		return result, nil
	}

	if ctx.Err() != nil {
		// Cancelled or out of time: no print fallback.
		return nil, fmt.Errorf("export aborted during rasterization: %w", ctx.Err())
	}
	var renderErr *RenderError
	if !errors.As(err, &renderErr) {
		return nil, err
	}
	logger.Warn("rasterization failed; falling back to print", "err", err)
	result.Warnings = append(result.Warnings, "rasterization failed: "+err.Error())
	return s.printInto(ctx, result, markup, opts)
}

// GeneratePDFViaPrint renders data with template t through the print path
// only.
func (s *Service) GeneratePDFViaPrint(ctx context.Context, data types.ResumeData, t types.Template, opts Options) (*Result, error) {
	opts, err := opts.WithDefaults()
	if err != nil {
		return nil, err
	}
	markup, err := document.Render(data, t)
	if err != nil {
		return nil, err
	}
	result := &Result{
		ID:       uuid.New(),
		Filename: filename(data, t, opts),
	}
	return s.printInto(ctx, result, markup, opts)
}

func (s *Service) rasterize(ctx context.Context, markup string, opts Options) ([]byte, int, error) {
	page := opts.Page()
	rctx := ctx
	if s.RasterTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, s.RasterTimeout)
		defer cancel()
	}
	img, err := s.Renderer.Render(rctx, RenderRequest{
		Markup: markup,
		Page:   page,
		Scale:  s.Scale,
	})
	if err != nil {
		var renderErr *RenderError
		if errors.As(err, &renderErr) {
			return nil, 0, err
		}
		if ctx.Err() != nil {
			return nil, 0, err
		}
		return nil, 0, &RenderError{Message: "renderer failed", Cause: err}
	}

	layout := Paginate(img.Width, img.Height, page)
	pdf, err := Assemble(img, layout, opts.Quality)
	if err != nil {
		return nil, 0, err
	}
	return pdf, layout.Pages(), nil
}

func (s *Service) printInto(ctx context.Context, result *Result, markup string, opts Options) (*Result, error) {
	portrait, _ := LookupPageSize(opts.Format)
	pr, err := s.Print.Print(ctx, markup, PrintOptions{
		Page:      portrait,
		Landscape: opts.Orientation == OrientationLandscape,
	})
	if err != nil {
		observability.Logger(ctx).Error("print export failed", "err", err)
		return nil, err
	}
	result.PDF, result.Pages, result.Method = pr.PDF, pr.Pages, MethodPrint
	result.Warnings = append(result.Warnings, pr.Warnings...)
	return result, nil
}

func filename(data types.ResumeData, t types.Template, opts Options) string {
	if opts.Filename != "" {
		return SanitizeFilename(opts.Filename)
	}
	return DefaultFilename(data.Personal, t.Name)
}
