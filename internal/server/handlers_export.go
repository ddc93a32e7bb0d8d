package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/resume"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// ExportRequest is the body of the /export endpoints
type ExportRequest struct {
	Resume     types.ResumeData `json:"resume"`
	TemplateID string           `json:"templateId"`
	Options    export.Options   `json:"options"`
}

// ResumeValidationResponse is the advisory report for /resume/validate
type ResumeValidationResponse struct {
	OK           bool                               `json:"ok"`
	SchemaErrors []schemas.FieldError               `json:"schemaErrors"`
	Errors       []resume.DataIncompletenessWarning `json:"errors"`
	Warnings     []resume.DataIncompletenessWarning `json:"warnings"`
}

// handleValidateResume checks resume JSON shape and completeness. Findings are
// advisory and returned with 200.
func (s *Server) handleValidateResume(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.errorFor(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	schemaErrs, err := resume.ValidateJSON(raw)
	if err != nil {
		s.errorFor(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	data, err := resume.Parse(raw)
	if err != nil {
		s.errorFor(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	report := resume.Validate(data)
	if schemaErrs == nil {
		schemaErrs = []schemas.FieldError{}
	}
	s.jsonResponse(w, r, http.StatusOK, ResumeValidationResponse{
		OK:           report.OK() && len(schemaErrs) == 0,
		SchemaErrors: schemaErrs,
		Errors:       nonNil(report.Errors),
		Warnings:     nonNil(report.Warnings),
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// readExportRequest decodes the body and resolves the template.
func (s *Server) readExportRequest(r *http.Request) (ExportRequest, types.Template, error) {
	var req ExportRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, types.Template{}, &ErrValidation{Field: "body", Message: err.Error()}
	}
	if req.TemplateID == "" {
		return req, types.Template{}, &ErrValidation{Field: "templateId", Message: "is required"}
	}
	t, ok := s.registry.Get(req.TemplateID)
	if !ok {
		return req, types.Template{}, &ErrNotFound{Kind: "template", ID: req.TemplateID}
	}
	req.Resume = resume.EnsureIDs(req.Resume)
	return req, t, nil
}

// handleExportHTML returns the generated, self-contained document.
func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	req, t, err := s.readExportRequest(r)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}

	markup, err := document.Render(req.Resume, t)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, markup)
}

// handleExportPDF rasterizes the document, falling back to print.
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	s.exportPDF(w, r, s.exports.GeneratePDF)
}

// handleExportPrint uses the print path only.
func (s *Server) handleExportPrint(w http.ResponseWriter, r *http.Request) {
	s.exportPDF(w, r, s.exports.GeneratePDFViaPrint)
}

type generateFunc func(ctx context.Context, data types.ResumeData, t types.Template, opts export.Options) (*export.Result, error)

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request, generate generateFunc) {
	req, t, err := s.readExportRequest(r)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}

	req.Options = req.Options.Inherit(s.defaults)
	res, err := generate(r.Context(), req.Resume, t, req.Options)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}

	if s.store != nil {
		opts, _ := req.Options.WithDefaults()
		rec := &db.Export{
			ID:          res.ID,
			TemplateID:  t.ID,
			Filename:    res.Filename,
			Method:      res.Method,
			Format:      opts.Format,
			Orientation: opts.Orientation,
			Pages:       res.Pages,
			Warnings:    res.Warnings,
			PDF:         res.PDF,
		}
		if _, err := s.store.SaveExport(r.Context(), rec); err != nil {
			// The PDF is still delivered.
			observability.Logger(r.Context()).Error("failed to store export", "id", res.ID, "err", err)
		}
	}

	writePDF(w, res.ID, res.Filename, res.Method, res.Pages, res.PDF)
}

func writePDF(w http.ResponseWriter, id uuid.UUID, filename, method string, pages int, pdf []byte) {
	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(pdf)))
	h.Set("X-Export-ID", id.String())
	h.Set("X-Export-Method", method)
	h.Set("X-Export-Pages", strconv.Itoa(pages))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// handleListExports lists stored exports, newest first
func (s *Server) handleListExports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFor(w, r, &ErrNotFound{Kind: "export storage", ID: "not configured"})
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.errorFor(w, r, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}

	exports, err := s.store.ListExports(r.Context(), limit)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}
	s.jsonResponse(w, r, http.StatusOK, map[string]any{"exports": exports, "count": len(exports)})
}

// handleGetExport returns a stored PDF
func (s *Server) handleGetExport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.errorFor(w, r, &ErrNotFound{Kind: "export storage", ID: "not configured"})
		return
	}

	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorFor(w, r, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}

	e, err := s.store.GetExport(r.Context(), id)
	if err != nil {
		s.errorFor(w, r, err)
		return
	}
	if e == nil {
		s.errorFor(w, r, &ErrNotFound{Kind: "export", ID: idStr})
		return
	}
	writePDF(w, e.ID, e.Filename, e.Method, e.Pages, e.PDF)
}
