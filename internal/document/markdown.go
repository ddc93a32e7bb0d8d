package document

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md renders free-text fields. Raw HTML in the source is dropped because
// html.WithUnsafe is not set.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// markdownHTML converts a free-text field to trusted HTML.
func markdownHTML(src string) (template.HTML, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil //nolint:gosec // goldmark escapes raw HTML in safe mode
}
