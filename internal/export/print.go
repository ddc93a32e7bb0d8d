package export

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-studio/internal/fetch"
	"github.com/jonathan/resume-studio/internal/observability"
)

// Printer opens isolated documents for the native print flow.
type Printer interface {
	// Open creates a new, isolated rendering target. An error here means
	// the host refused to create it.
	Open(ctx context.Context) (PrintContext, error)
}

// PrintContext is one isolated document.
type PrintContext interface {
	// Print loads markup, waits for load signals, and runs the engine's
	// native print to PDF.
	Print(ctx context.Context, markup string, opts PrintOptions) ([]byte, error)
	Close() error
}

// PrintOptions controls the native print.
type PrintOptions struct {
	// Page is the portrait page size; Landscape rotates it.
	Page      PageSize
	Landscape bool
}

// StyleSource supplies stylesheet text to inline into the print document.
type StyleSource interface {
	Collect(ctx context.Context) (sheets []string, warnings []string)
}

// DefaultFetchConcurrency bounds concurrent stylesheet downloads.
const DefaultFetchConcurrency = 4

// StylesheetCollector gathers the stylesheets of a host document. Inline
// <style> blocks are kept, same-origin linked sheets are downloaded, and
// cross-origin sheets are skipped with a warning. No failure is fatal.
type StylesheetCollector struct {
	// HostURL is the document whose stylesheets are collected.
	HostURL string
	// HTML, when set, is used instead of downloading HostURL.
	HTML        string
	Fetch       *fetch.Options
	Concurrency int
}

// Collect returns stylesheet text in document order and any warnings.
func (c *StylesheetCollector) Collect(ctx context.Context) ([]string, []string) {
	logger := observability.Logger(ctx)
	var warnings []string
	warn := func(msg string, keyvals ...any) {
		logger.Warn(msg, keyvals...)
		warnings = append(warnings, formatWarning(msg, keyvals...))
	}

	if c == nil || c.HostURL == "" {
		return nil, nil
	}
	base, err := url.Parse(c.HostURL)
	if err != nil {
		warn("invalid host document URL", "url", c.HostURL, "err", err)
		return nil, warnings
	}

	html := c.HTML
	if html == "" {
		res, err := fetch.URL(ctx, c.HostURL, c.Fetch)
		if err != nil {
			warn("failed to read host document", "url", c.HostURL, "err", err)
			return nil, warnings
		}
		html = res.Body
	}

	refs, err := fetch.ExtractStylesheets(html, base)
	if err != nil {
		warn("failed to parse host document", "url", c.HostURL, "err", err)
		return nil, warnings
	}

	sheets := make([]string, len(refs))
	fetchErrs := make([]error, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	limit := c.Concurrency
	if limit <= 0 {
		limit = DefaultFetchConcurrency
	}
	g.SetLimit(limit)

	for i, ref := range refs {
		if ref.Href == "" {
			sheets[i] = withMedia(ref.Inline, ref.Media)
			continue
		}
		if !fetch.SameOrigin(base, ref.Href) {
			warn("skipping cross-origin stylesheet", "href", ref.Href)
			continue
		}
		g.Go(func() error {
			res, err := fetch.URL(gctx, ref.Href, c.Fetch)
			if err != nil {
				fetchErrs[i] = err
				return nil
			}
			sheets[i] = withMedia(res.Body, ref.Media)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(sheets))
	for i, s := range sheets {
		if fetchErrs[i] != nil {
			warn("failed to fetch stylesheet", "href", refs[i].Href, "err", fetchErrs[i])
			continue
		}
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out, warnings
}

func formatWarning(msg string, keyvals ...any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	return b.String()
}

func withMedia(css, media string) string {
	media = strings.TrimSpace(media)
	if media == "" || strings.EqualFold(media, "all") {
		return css
	}
	return fmt.Sprintf("@media %s {\n%s\n}", media, css)
}

// PrintPath exports through the engine's native print flow.
type PrintPath struct {
	Printer Printer
	// Styles is optional; without it only the generated markup's own
	// styling applies.
	Styles StyleSource
	// Timeout bounds the whole print, including load waits.
	Timeout time.Duration
}

// PrintResult is the output of the print path.
type PrintResult struct {
	PDF      []byte
	Pages    int
	Warnings []string
}

// Print opens an isolated document, inlines markup and collected
// stylesheets, and prints it. A failure to open the document is returned as
// *PopupBlockedError.
func (p *PrintPath) Print(ctx context.Context, markup string, opts PrintOptions) (*PrintResult, error) {
	if p == nil || p.Printer == nil {
		return nil, &PopupBlockedError{Cause: fmt.Errorf("no print engine configured")}
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	pc, err := p.Printer.Open(ctx)
	if err != nil {
		return nil, &PopupBlockedError{Cause: err}
	}
	defer func() {
		if cerr := pc.Close(); cerr != nil {
			observability.Logger(ctx).Debug("failed to close print document", "err", cerr)
		}
	}()

	var sheets, warnings []string
	if p.Styles != nil {
		sheets, warnings = p.Styles.Collect(ctx)
	}

	pdf, err := pc.Print(ctx, withStyles(markup, sheets), opts)
	if err != nil {
		return nil, &PrintError{Message: "native print failed", Cause: err}
	}
	return &PrintResult{PDF: pdf, Pages: pdfPageCount(pdf), Warnings: warnings}, nil
}

// injectBeforeHeadClose inserts fragment before the first </head>, or at the
// start of the document when there is none.
func injectBeforeHeadClose(markup, fragment string) string {
	idx := strings.Index(strings.ToLower(markup), "</head>")
	if idx < 0 {
		return fragment + markup
	}
	return markup[:idx] + fragment + markup[idx:]
}
