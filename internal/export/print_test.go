package export

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stylesheetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/app.css", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = fmt.Fprint(w, ".resume { color: #111; }")
	})
	mux.HandleFunc("/print.css", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, ".nav { display: none; }")
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestStylesheetCollector_Collect(t *testing.T) {
	server := stylesheetServer(t)
	html := `<html><head>
<style>body { margin: 0; }</style>
<link rel="stylesheet" href="/app.css">
<link rel="stylesheet" href="https://fonts.example.com/inter.css">
<link rel="stylesheet" href="/missing.css">
<link rel="Stylesheet" href="/print.css" media="print">
</head><body></body></html>`

	c := &StylesheetCollector{HostURL: server.URL + "/editor", HTML: html}
	sheets, warnings := c.Collect(context.Background())

	require.Len(t, sheets, 3)
	assert.Equal(t, "body { margin: 0; }", sheets[0])
	assert.Equal(t, ".resume { color: #111; }", sheets[1])
	assert.Equal(t, "@media print {\n.nav { display: none; }\n}", sheets[2])

	require.Len(t, warnings, 2)
	assert.Equal(t, "skipping cross-origin stylesheet href=https://fonts.example.com/inter.css", warnings[0])
	assert.True(t, strings.HasPrefix(warnings[1], "failed to fetch stylesheet href="+server.URL+"/missing.css"))
}

func TestStylesheetCollector_DownloadsHostDocument(t *testing.T) {
	server := stylesheetServer(t)
	mux := http.NewServeMux()
	host := httptest.NewServer(mux)
	t.Cleanup(host.Close)
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprintf(w, `<html><head><link rel="stylesheet" href="%s/app.css"><style>h1{}</style></head></html>`, server.URL)
	})

	sheets, warnings := (&StylesheetCollector{HostURL: host.URL + "/"}).Collect(context.Background())

	// The stylesheet server is on another port, so it is a different origin.
	assert.Equal(t, []string{"h1{}"}, sheets)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "skipping cross-origin stylesheet")
}

func TestStylesheetCollector_UnreachableHostIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	sheets, warnings := (&StylesheetCollector{HostURL: server.URL}).Collect(context.Background())
	assert.Empty(t, sheets)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "failed to read host document")
}

func TestStylesheetCollector_NilOrEmpty(t *testing.T) {
	var c *StylesheetCollector
	sheets, warnings := c.Collect(context.Background())
	assert.Nil(t, sheets)
	assert.Nil(t, warnings)
}

func TestPrintPath_InlinesStyles(t *testing.T) {
	printer := &fakePrinter{}
	p := &PrintPath{Printer: printer, Styles: staticStyles{sheets: []string{"a{}", "b{}"}}}

	res, err := p.Print(context.Background(), "<html><head><title>x</title></head><body></body></html>", PrintOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)

	markup := printer.markup[0]
	assert.Less(t, strings.Index(markup, "a{}"), strings.Index(markup, "b{}"))
	assert.Less(t, strings.Index(markup, "b{}"), strings.Index(markup, "</head>"))
}

func TestPrintPath_NilPrinter(t *testing.T) {
	_, err := (&PrintPath{}).Print(context.Background(), "<html></html>", PrintOptions{})
	var popup *PopupBlockedError
	assert.ErrorAs(t, err, &popup)
}

func TestInjectBeforeHeadClose(t *testing.T) {
	assert.Equal(t, "<head>X</HEAD>", injectBeforeHeadClose("<head></HEAD>", "X"))
	assert.Equal(t, "X<p>no head</p>", injectBeforeHeadClose("<p>no head</p>", "X"))
}

func TestWithMedia(t *testing.T) {
	assert.Equal(t, "a{}", withMedia("a{}", ""))
	assert.Equal(t, "a{}", withMedia("a{}", "ALL"))
	assert.Equal(t, "@media screen {\na{}\n}", withMedia("a{}", " screen "))
}

func TestWithStyles_NoStylesUnchanged(t *testing.T) {
	markup := "<html><head></head></html>"
	assert.Equal(t, markup, withStyles(markup, nil))
	assert.Equal(t, "<html><head><style>\nx\n</style>\n</head></html>", withStyles(markup, []string{"x"}))
}
