package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"time"
)

// DefaultDeviceScale is the device pixel ratio used for rasterization.
const DefaultDeviceScale = 2.0

// DefaultSettleTimeout bounds the wait for fonts and images.
const DefaultSettleTimeout = 10 * time.Second

// Renderer rasterizes self-contained markup into a single bitmap spanning the
// full rendered height.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) (*RasterImage, error)
}

// RenderRequest describes one rasterization.
type RenderRequest struct {
	Markup string
	// Styles are appended to the document head in order.
	Styles []string
	// Page fixes the surface width. Height grows with content.
	Page PageSize
	// Scale is the device pixel ratio. Zero means DefaultDeviceScale.
	Scale float64
}

// RasterImage is a PNG bitmap of the rendered document.
type RasterImage struct {
	PNG    []byte
	Width  int
	Height int
}

// NewRasterImage reads the dimensions of a PNG.
func NewRasterImage(data []byte) (*RasterImage, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return nil, fmt.Errorf("screenshot is empty (%dx%d)", cfg.Width, cfg.Height)
	}
	return &RasterImage{PNG: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// Decode returns the bitmap as an image.
func (r *RasterImage) Decode() (image.Image, error) {
	return png.Decode(bytes.NewReader(r.PNG))
}

// loadSignalsJS resolves once the document, its web fonts and its images
// have finished loading.
const loadSignalsJS = `() => new Promise(resolve => {
  const images = () => Promise.all(Array.from(document.images)
    .filter(img => !img.complete)
    .map(img => new Promise(done => { img.addEventListener('load', done, {once: true}); img.addEventListener('error', done, {once: true}); })));
  const fonts = () => (document.fonts && document.fonts.ready) ? document.fonts.ready : Promise.resolve();
  const ready = () => fonts().then(images).then(() => resolve(true));
  if (document.readyState === 'complete') { ready(); } else { window.addEventListener('load', ready, {once: true}); }
})`

// withStyles inserts extra stylesheets before </head>.
func withStyles(markup string, styles []string) string {
	if len(styles) == 0 {
		return markup
	}
	var b bytes.Buffer
	for _, s := range styles {
		b.WriteString("<style>\n")
		b.WriteString(s)
		b.WriteString("\n</style>\n")
	}
	return injectBeforeHeadClose(markup, b.String())
}
