package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-studio/internal/observability"
)

// ChromiumRenderer rasterizes and prints through a shared headless Chromium
// driven by chromedp. Each request gets its own tab.
type ChromiumRenderer struct {
	BrowserPath   string
	Args          []string
	Timeout       time.Duration
	SettleTimeout time.Duration

	mu            sync.Mutex
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

var (
	_ Renderer = (*ChromiumRenderer)(nil)
	_ Printer  = (*ChromiumRenderer)(nil)
)

// Render loads the markup into a tab sized to the page width and captures
// the full document height as PNG.
func (e *ChromiumRenderer) Render(ctx context.Context, req RenderRequest) (*RasterImage, error) {
	browserCtx, err := e.ensureBrowser()
	if err != nil {
		return nil, &RenderError{Message: "chromium unavailable", Cause: err}
	}

	tabCtx, cancel := e.newTab(ctx, browserCtx)
	defer cancel()

	scale := req.Scale
	if scale <= 0 {
		scale = DefaultDeviceScale
	}

	var shot []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(req.Page.WidthCSSPixels(), req.Page.HeightCSSPixels(), chromedp.EmulateScale(scale)),
		chromedp.Navigate("about:blank"),
		setDocumentContent(withStyles(req.Markup, req.Styles)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		e.waitForLoadSignals(),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		return nil, &RenderError{Message: "chromium capture failed", Cause: err}
	}

	img, err := NewRasterImage(shot)
	if err != nil {
		return nil, &RenderError{Message: "chromium capture unreadable", Cause: err}
	}
	return img, nil
}

// Open creates a fresh tab for the print flow.
func (e *ChromiumRenderer) Open(ctx context.Context) (PrintContext, error) {
	browserCtx, err := e.ensureBrowser()
	if err != nil {
		return nil, err
	}
	tabCtx, cancel := e.newTab(ctx, browserCtx)
	// Running with no actions creates the target.
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	return &chromiumPrintContext{engine: e, tabCtx: tabCtx, cancel: cancel}, nil
}

type chromiumPrintContext struct {
	engine *ChromiumRenderer
	tabCtx context.Context
	cancel context.CancelFunc
}

func (c *chromiumPrintContext) Print(ctx context.Context, markup string, opts PrintOptions) ([]byte, error) {
	runCtx, cancel := bindContext(ctx, c.tabCtx)
	defer cancel()

	var pdf []byte
	err := chromedp.Run(runCtx,
		chromedp.Navigate("about:blank"),
		setDocumentContent(markup),
		chromedp.WaitReady("body", chromedp.ByQuery),
		c.engine.waitForLoadSignals(),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPaperWidth(opts.Page.WidthInches()).
				WithPaperHeight(opts.Page.HeightInches()).
				WithLandscape(opts.Landscape).
				WithPrintBackground(true).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}

func (c *chromiumPrintContext) Close() error {
	c.cancel()
	return nil
}

// Close releases Chromium resources if they have been initialized.
func (e *ChromiumRenderer) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.release()
	return nil
}

func (e *ChromiumRenderer) release() {
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	e.allocCtx, e.allocCancel = nil, nil
	e.browserCtx, e.browserCancel = nil, nil
}

// ensureBrowser returns the shared browser context, launching Chromium when
// none is running. A failed launch or an exited browser is retried on the
// next call.
func (e *ChromiumRenderer) ensureBrowser() (context.Context, error) {
	if e == nil {
		return nil, errors.New("chromium renderer is nil")
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browserCtx != nil {
		if e.browserCtx.Err() == nil {
			return e.browserCtx, nil
		}
		e.release()
	}

	options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if e.BrowserPath != "" {
		options = append(options, chromedp.ExecPath(e.BrowserPath))
	}
	options = append(options,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	options = append(options, allocatorOptionsFromArgs(e.Args)...)

	e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
	e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	// Start the browser now so a missing binary is reported here.
	if err := chromedp.Run(e.browserCtx); err != nil {
		e.release()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}
	return e.browserCtx, nil
}

// newTab opens a tab in browserCtx bound to ctx and the renderer timeout.
func (e *ChromiumRenderer) newTab(ctx, browserCtx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	runCtx, cancelRun := bindContext(ctx, tabCtx)
	cancelTimeout := context.CancelFunc(func() {})
	if e.Timeout > 0 {
		runCtx, cancelTimeout = context.WithTimeout(runCtx, e.Timeout)
	}
	return runCtx, func() {
		cancelTimeout()
		cancelRun()
		cancelTab()
	}
}

// bindContext derives a context from target that is also cancelled when
// ctx is done. chromedp needs its own context lineage for the tab.
func bindContext(ctx, target context.Context) (context.Context, context.CancelFunc) {
	out, cancel := context.WithCancel(target)
	if ctx == nil {
		return out, cancel
	}
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-out.Done():
		}
	}()
	return out, cancel
}

func setDocumentContent(markup string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(tree.Frame.ID, markup).Do(ctx)
	})
}

// waitForLoadSignals waits for readyState, fonts and images. The wait is
// bounded by SettleTimeout; on expiry the capture proceeds with a warning.
func (e *ChromiumRenderer) waitForLoadSignals() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		settle := e.SettleTimeout
		if settle <= 0 {
			settle = DefaultSettleTimeout
		}
		waitCtx, cancel := context.WithTimeout(ctx, settle)
		defer cancel()

		var ok bool
		err := chromedp.Evaluate("("+loadSignalsJS+")()", &ok, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}).Do(waitCtx)
		if err != nil && ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			observability.Logger(ctx).Warn("load signals did not settle; capturing anyway", "timeout", settle)
			return nil
		}
		return err
	})
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
