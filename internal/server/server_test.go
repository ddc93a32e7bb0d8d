package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-studio/internal/catalog"
	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
)

const printedPDF = "%PDF-1.4\n<</Type /Page>>\n%%EOF"

type stubRenderer struct {
	err error
}

func (r stubRenderer) Render(context.Context, export.RenderRequest) (*export.RasterImage, error) {
	if r.err != nil {
		return nil, r.err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 100, 100))); err != nil {
		return nil, err
	}
	return export.NewRasterImage(buf.Bytes())
}

// hangingRenderer never finishes a capture on its own.
type hangingRenderer struct{}

func (hangingRenderer) Render(ctx context.Context, _ export.RenderRequest) (*export.RasterImage, error) {
	<-ctx.Done()
	return nil, &export.RenderError{Message: "capture aborted", Cause: ctx.Err()}
}

type stubPrinter struct {
	openErr error
}

func (p stubPrinter) Open(context.Context) (export.PrintContext, error) {
	if p.openErr != nil {
		return nil, p.openErr
	}
	return stubPrintContext{}, nil
}

type stubPrintContext struct{}

func (stubPrintContext) Print(context.Context, string, export.PrintOptions) ([]byte, error) {
	return []byte(printedPDF), nil
}

func (stubPrintContext) Close() error { return nil }

type memoryStore struct {
	mu      sync.Mutex
	exports map[uuid.UUID]*db.Export
	order   []uuid.UUID
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{exports: make(map[uuid.UUID]*db.Export)}
}

func (m *memoryStore) SaveExport(_ context.Context, e *db.Export) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return uuid.Nil, m.saveErr
	}
	e.SizeBytes = len(e.PDF)
	e.CreatedAt = time.Now()
	m.exports[e.ID] = e
	m.order = append(m.order, e.ID)
	return e.ID, nil
}

func (m *memoryStore) GetExport(_ context.Context, id uuid.UUID) (*db.Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exports[id], nil
}

func (m *memoryStore) ListExports(_ context.Context, limit int) ([]db.ExportSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.ExportSummary{}
	for i := len(m.order) - 1; i >= 0; i-- {
		e := m.exports[m.order[i]]
		out = append(out, db.ExportSummary{ID: e.ID, TemplateID: e.TemplateID, Filename: e.Filename, Method: e.Method, Pages: e.Pages})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

type testOptions struct {
	renderer  export.Renderer
	printer   export.Printer
	store     ExportStore
	rateLimit *ratelimit.Config
	defaults  export.Options
	timeout   time.Duration
}

func newTestServer(t *testing.T, opts testOptions) *Server {
	t.Helper()
	reg := registry.New()
	require.NoError(t, catalog.Bootstrap(reg))
	reg.Seal()

	if opts.renderer == nil {
		opts.renderer = stubRenderer{}
	}
	if opts.printer == nil {
		opts.printer = stubPrinter{}
	}
	if opts.rateLimit == nil {
		opts.rateLimit = &ratelimit.Config{Enabled: false}
	}

	s, err := New(Config{
		Registry: reg,
		Exports: &export.Service{
			Renderer: opts.renderer,
			Print:    &export.PrintPath{Printer: opts.printer},
		},
		Store:          opts.store,
		Logger:         log.New(io.Discard),
		RateLimit:      opts.rateLimit,
		ExportTimeout:  opts.timeout,
		ExportDefaults: opts.defaults,
	})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func exportBody(templateID string) map[string]any {
	return map[string]any{
		"templateId": templateID,
		"resume": map[string]any{
			"personal": map[string]any{"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
			"experience": []any{
				map[string]any{"company": "Analytical Engines", "position": "Programmer", "startDate": "1842"},
			},
		},
	}
}

func TestNew_RequiresRegistry(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, testOptions{})
	rec := do(t, s, "GET", "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(12), body["templates"])
	assert.Equal(t, false, body["storage"])
}

func TestListTemplates(t *testing.T) {
	s := newTestServer(t, testOptions{})

	all := decode[TemplateListResponse](t, do(t, s, "GET", "/templates", nil))
	assert.Equal(t, 12, all.Count)

	popular := decode[TemplateListResponse](t, do(t, s, "GET", "/templates?filter=popular", nil))
	for _, tmpl := range popular.Templates {
		assert.True(t, tmpl.Popular, tmpl.ID)
	}

	technical := decode[TemplateListResponse](t, do(t, s, "GET", "/templates?category=technical", nil))
	assert.Equal(t, 2, technical.Count)

	premiumCreative := decode[TemplateListResponse](t, do(t, s, "GET", "/templates?category=creative&filter=premium", nil))
	require.Equal(t, 1, premiumCreative.Count)
	assert.Equal(t, "creative-portfolio", premiumCreative.Templates[0].ID)
}

func TestListTemplates_BadQuery(t *testing.T) {
	s := newTestServer(t, testOptions{})
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/templates?filter=cheap", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/templates?category=retro", nil).Code)
}

func TestSearchTemplates(t *testing.T) {
	s := newTestServer(t, testOptions{})
	res := decode[TemplateListResponse](t, do(t, s, "GET", "/templates/search?q=Technical", nil))

	ids := make([]string, 0, res.Count)
	for _, tmpl := range res.Templates {
		ids = append(ids, tmpl.ID)
	}
	assert.Contains(t, ids, "technical-developer")
	assert.Contains(t, ids, "technical-engineer")
}

func TestRecommendTemplates(t *testing.T) {
	s := newTestServer(t, testOptions{})

	res := decode[TemplateListResponse](t, do(t, s, "POST", "/templates/recommend", nil))
	assert.Equal(t, 3, res.Count)
	for _, tmpl := range res.Templates {
		assert.True(t, tmpl.Popular)
	}

	res = decode[TemplateListResponse](t, do(t, s, "POST", "/templates/recommend", map[string]any{"role": "developer"}))
	require.NotEmpty(t, res.Templates)
	assert.Equal(t, "technical-developer", res.Templates[0].ID)

	assert.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/templates/recommend", "{not json").Code)
}

func TestGetTemplate(t *testing.T) {
	s := newTestServer(t, testOptions{})

	rec := do(t, s, "GET", "/templates/modern-professional", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "Modern Professional", body["name"])

	rec = do(t, s, "GET", "/templates/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "template not found: nope")
}

func TestTemplateVariables(t *testing.T) {
	s := newTestServer(t, testOptions{})

	rec := do(t, s, "GET", "/templates/modern-professional/variables", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		ID        string            `json:"id"`
		Variables map[string]string `json:"variables"`
	}](t, rec)
	assert.Equal(t, "modern-professional", body.ID)
	assert.Contains(t, body.Variables, "--colors-primary")

	rec = do(t, s, "GET", "/templates/modern-professional/variables?format=css", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/css; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), ":root {"))

	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/templates/nope/variables", nil).Code)
}

func TestCategoriesAndStats(t *testing.T) {
	s := newTestServer(t, testOptions{})

	cats := decode[map[string][]map[string]any](t, do(t, s, "GET", "/categories", nil))
	require.Len(t, cats["categories"], 6)
	for _, c := range cats["categories"] {
		assert.Equal(t, float64(2), c["count"], c["id"])
	}

	stats := decode[registry.Stats](t, do(t, s, "GET", "/stats", nil))
	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, 2, stats.ByCategory["modern"])
}

func TestValidateTemplate(t *testing.T) {
	s := newTestServer(t, testOptions{})

	valid := `{"id":"ocean","name":"Ocean","preset":"modern","component":"single-column"}`
	res := decode[registry.Result](t, do(t, s, "POST", "/templates/validate", valid))
	assert.True(t, res.IsValid, res.Errors)

	duplicate := `{"id":"modern-professional","name":"Copy","preset":"modern","component":"single-column"}`
	res = decode[registry.Result](t, do(t, s, "POST", "/templates/validate", duplicate))
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Errors, "Template with ID 'modern-professional' already exists")

	schemaViolation := `{"id":"Bad ID","name":"Bad","preset":"retro","component":"single-column"}`
	res = decode[registry.Result](t, do(t, s, "POST", "/templates/validate", schemaViolation))
	assert.False(t, res.IsValid)
	assert.GreaterOrEqual(t, len(res.Errors), 2)
}

func TestValidateResume(t *testing.T) {
	s := newTestServer(t, testOptions{})

	rec := do(t, s, "POST", "/resume/validate", `{"personal":{"firstName":"","lastName":"Lovelace"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[ResumeValidationResponse](t, rec)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Errors)
	assert.NotEmpty(t, res.Warnings)

	assert.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/resume/validate", "{oops").Code)
}

func TestExportHTML(t *testing.T) {
	s := newTestServer(t, testOptions{})

	rec := do(t, s, "POST", "/export/html", exportBody("technical-engineer"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Analytical Engines")
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
}

func TestExportPDF_Raster(t *testing.T) {
	store := newMemoryStore()
	s := newTestServer(t, testOptions{store: store})

	rec := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="Ada_Lovelace_Modern_Professional.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, export.MethodRaster, rec.Header().Get("X-Export-Method"))
	assert.Equal(t, "1", rec.Header().Get("X-Export-Pages"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))

	id, err := uuid.Parse(rec.Header().Get("X-Export-ID"))
	require.NoError(t, err)
	stored, _ := store.GetExport(context.Background(), id)
	require.NotNil(t, stored)
	assert.Equal(t, "modern-professional", stored.TemplateID)
	assert.Equal(t, export.FormatA4, stored.Format)
	assert.Equal(t, export.OrientationPortrait, stored.Orientation)
}

func TestExportPDF_FallsBackToPrint(t *testing.T) {
	s := newTestServer(t, testOptions{renderer: stubRenderer{err: &export.RenderError{Message: "surface lost"}}})

	rec := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, export.MethodPrint, rec.Header().Get("X-Export-Method"))
	assert.Equal(t, printedPDF, rec.Body.String())
}

func TestExportPDF_PopupBlocked(t *testing.T) {
	s := newTestServer(t, testOptions{
		renderer: stubRenderer{err: &export.RenderError{Message: "surface lost"}},
		printer:  stubPrinter{openErr: errors.New("target refused")},
	})

	rec := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "popup_blocked", body["error"])
	assert.Equal(t, export.ManualPrintInstruction, body["message"])
}

func TestExportPDF_DeadlineIsGatewayTimeout(t *testing.T) {
	s := newTestServer(t, testOptions{renderer: hangingRenderer{}, timeout: 20 * time.Millisecond})

	rec := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code, rec.Body.String())
}

func TestExportPDF_UsesConfiguredDefaults(t *testing.T) {
	store := newMemoryStore()
	s := newTestServer(t, testOptions{
		store:    store,
		defaults: export.Options{Format: export.FormatLetter, Quality: 0.5},
	})

	rec := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id, err := uuid.Parse(rec.Header().Get("X-Export-ID"))
	require.NoError(t, err)
	stored, _ := store.GetExport(context.Background(), id)
	require.NotNil(t, stored)
	assert.Equal(t, export.FormatLetter, stored.Format)

	body := exportBody("modern-professional")
	body["options"] = map[string]any{"format": "a4"}
	rec = do(t, s, "POST", "/export/pdf", body)
	require.Equal(t, http.StatusOK, rec.Code)
	id, err = uuid.Parse(rec.Header().Get("X-Export-ID"))
	require.NoError(t, err)
	stored, _ = store.GetExport(context.Background(), id)
	require.NotNil(t, stored)
	assert.Equal(t, export.FormatA4, stored.Format)
}

func TestExportPrint(t *testing.T) {
	s := newTestServer(t, testOptions{})

	rec := do(t, s, "POST", "/export/print", exportBody("classic-elegant"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.MethodPrint, rec.Header().Get("X-Export-Method"))
}

func TestExportPDF_StoreFailureStillDelivers(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("disk full")
	s := newTestServer(t, testOptions{store: store})

	rec := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportPDF_BadRequests(t *testing.T) {
	s := newTestServer(t, testOptions{})

	assert.Equal(t, http.StatusNotFound, do(t, s, "POST", "/export/pdf", exportBody("nope")).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/export/pdf", exportBody("")).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/export/pdf", "{").Code)

	body := exportBody("modern-professional")
	body["options"] = map[string]any{"quality": 2, "format": "legal"}
	rec := do(t, s, "POST", "/export/pdf", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	res := decode[map[string]any](t, rec)
	assert.Len(t, res["errors"], 2)
}

func TestExports_WithStore(t *testing.T) {
	store := newMemoryStore()
	s := newTestServer(t, testOptions{store: store})

	first := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, do(t, s, "POST", "/export/print", exportBody("minimal-clean")).Code)

	list := decode[struct {
		Exports []db.ExportSummary `json:"exports"`
		Count   int                `json:"count"`
	}](t, do(t, s, "GET", "/exports", nil))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "minimal-clean", list.Exports[0].TemplateID)

	limited := decode[map[string]any](t, do(t, s, "GET", "/exports?limit=1", nil))
	assert.Equal(t, float64(1), limited["count"])
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/exports?limit=x", nil).Code)

	rec := do(t, s, "GET", "/exports/"+first.Header().Get("X-Export-ID"), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.Body.Bytes(), rec.Body.Bytes())
	assert.Equal(t, export.MethodRaster, rec.Header().Get("X-Export-Method"))

	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/exports/"+uuid.NewString(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "GET", "/exports/not-a-uuid", nil).Code)
}

func TestExports_WithoutStore(t *testing.T) {
	s := newTestServer(t, testOptions{})
	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/exports", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/exports/"+uuid.NewString(), nil).Code)
}

func TestRateLimit_ExportsStrict(t *testing.T) {
	s := newTestServer(t, testOptions{rateLimit: &ratelimit.Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{{Path: "/export/pdf", Method: "POST", Limit: 1, Window: time.Hour}},
	}})

	require.Equal(t, http.StatusOK, do(t, s, "POST", "/export/pdf", exportBody("modern-professional")).Code)

	rec := do(t, s, "POST", "/export/pdf", exportBody("modern-professional"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	// Other endpoints are unaffected
	assert.Equal(t, http.StatusOK, do(t, s, "GET", "/templates", nil).Code)
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer(t, testOptions{})
	rec := do(t, s, "OPTIONS", "/export/pdf", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), "X-Export-Method")
}
