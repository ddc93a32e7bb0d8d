package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jonathan/resume-studio/internal/observability"
)

// RodRenderer rasterizes and prints through headless Chrome driven by go-rod.
// Rod downloads a browser on first use when BrowserPath and ROD_BROWSER_BIN
// are unset.
type RodRenderer struct {
	BrowserPath   string
	Timeout       time.Duration
	SettleTimeout time.Duration

	mu      sync.Mutex
	browser *rod.Browser
}

var (
	_ Renderer = (*RodRenderer)(nil)
	_ Printer  = (*RodRenderer)(nil)
)

// ensureBrowser lazily launches and connects to the browser.
func (r *RodRenderer) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()
	bin := r.BrowserPath
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}
	if os.Getenv("CI") == "true" || bin != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	r.browser = b
	return b, nil
}

// Close releases browser resources.
func (r *RodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

func (r *RodRenderer) newPage(ctx context.Context) (*rod.Page, error) {
	b, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}
	p, err := b.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	p = p.Context(ctx)
	if r.Timeout > 0 {
		p = p.Timeout(r.Timeout)
	}
	return p, nil
}

// Render loads markup into a page sized to the page width and captures the
// full document height as PNG.
func (r *RodRenderer) Render(ctx context.Context, req RenderRequest) (*RasterImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p, err := r.newPage(ctx)
	if err != nil {
		return nil, &RenderError{Message: "rod unavailable", Cause: err}
	}
	defer func() { _ = p.Close() }()

	scale := req.Scale
	if scale <= 0 {
		scale = DefaultDeviceScale
	}
	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             int(req.Page.WidthCSSPixels()),
		Height:            int(req.Page.HeightCSSPixels()),
		DeviceScaleFactor: scale,
	})
	if err != nil {
		return nil, &RenderError{Message: "failed to size page", Cause: err}
	}

	if err := r.load(ctx, p, withStyles(req.Markup, req.Styles)); err != nil {
		return nil, &RenderError{Message: "failed to load markup", Cause: err}
	}

	shot, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, &RenderError{Message: "rod capture failed", Cause: err}
	}

	img, err := NewRasterImage(shot)
	if err != nil {
		return nil, &RenderError{Message: "rod capture unreadable", Cause: err}
	}
	return img, nil
}

// load sets the document content and waits for load signals, bounded by
// SettleTimeout.
func (r *RodRenderer) load(ctx context.Context, p *rod.Page, markup string) error {
	if err := p.SetDocumentContent(markup); err != nil {
		return err
	}

	settle := r.SettleTimeout
	if settle <= 0 {
		settle = DefaultSettleTimeout
	}
	_, err := p.Timeout(settle).Eval(loadSignalsJS)
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		observability.Logger(ctx).Warn("load signals did not settle; capturing anyway", "timeout", settle)
		return nil
	}
	return err
}

// Open creates a new page for the print flow.
func (r *RodRenderer) Open(ctx context.Context) (PrintContext, error) {
	p, err := r.newPage(ctx)
	if err != nil {
		return nil, err
	}
	return &rodPrintContext{renderer: r, page: p}, nil
}

type rodPrintContext struct {
	renderer *RodRenderer
	page     *rod.Page
}

func (c *rodPrintContext) Print(ctx context.Context, markup string, opts PrintOptions) ([]byte, error) {
	p := c.page.Context(ctx)
	if err := c.renderer.load(ctx, p, markup); err != nil {
		return nil, err
	}

	zero := 0.0
	width, height := opts.Page.WidthInches(), opts.Page.HeightInches()
	reader, err := p.PDF(&proto.PagePrintToPDF{
		Landscape:       opts.Landscape,
		PaperWidth:      &width,
		PaperHeight:     &height,
		MarginTop:       &zero,
		MarginBottom:    &zero,
		MarginLeft:      &zero,
		MarginRight:     &zero,
		PrintBackground: true,
	})
	if err != nil {
		return nil, err
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading PDF stream: %w", err)
	}
	return pdf, nil
}

func (c *rodPrintContext) Close() error {
	return c.page.Close()
}
