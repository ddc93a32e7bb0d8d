package export

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChromiumRenderer_RetriesFailedLaunch(t *testing.T) {
	dir := t.TempDir()
	engine := &ChromiumRenderer{BrowserPath: filepath.Join(dir, "chrome-first")}
	t.Cleanup(func() { _ = engine.Close() })

	_, err := engine.ensureBrowser()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome-first")
	assert.Nil(t, engine.browserCtx)

	engine.BrowserPath = filepath.Join(dir, "chrome-second")
	_, err = engine.ensureBrowser()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome-second")
}

func TestChromiumRenderer_RelaunchesExitedBrowser(t *testing.T) {
	dead, cancel := context.WithCancel(context.Background())
	cancel()
	engine := &ChromiumRenderer{
		BrowserPath:   filepath.Join(t.TempDir(), "chrome-missing"),
		browserCtx:    dead,
		browserCancel: cancel,
	}
	t.Cleanup(func() { _ = engine.Close() })

	_, err := engine.ensureBrowser()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome-missing")
}

func TestChromiumRenderer_RenderReportsLaunchFailureAsRenderError(t *testing.T) {
	engine := &ChromiumRenderer{BrowserPath: filepath.Join(t.TempDir(), "chrome-missing")}
	t.Cleanup(func() { _ = engine.Close() })

	_, err := engine.Render(context.Background(), RenderRequest{Markup: "<p>x</p>", Page: Options{}.Page()})
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}
