package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/resume-studio/internal/catalog"
	"github.com/jonathan/resume-studio/internal/cssvars"
	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 2 << 20

// TemplateListResponse wraps template lists
type TemplateListResponse struct {
	Templates []types.Template `json:"templates"`
	Count     int              `json:"count"`
}

func listResponse(templates []types.Template) TemplateListResponse {
	return TemplateListResponse{Templates: templates, Count: len(templates)}
}

// handleListTemplates returns every template, optionally narrowed by
// ?category= and ?filter=popular|featured|premium|ats.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	var templates []types.Template
	switch filter := r.URL.Query().Get("filter"); filter {
	case "":
		templates = s.registry.All()
	case "popular":
		templates = s.registry.Popular()
	case "featured":
		templates = s.registry.Featured()
	case "premium":
		templates = s.registry.Premium()
	case "ats":
		templates = s.registry.ATSOptimized()
	default:
		s.errorFor(w, r, &ErrValidation{Field: "filter", Message: "must be one of popular, featured, premium, ats"})
		return
	}

	if category := r.URL.Query().Get("category"); category != "" {
		if _, ok := s.registry.Category(category); !ok {
			s.errorFor(w, r, &ErrNotFound{Kind: "category", ID: category})
			return
		}
		filtered := templates[:0]
		for _, t := range templates {
			if t.Category == category {
				filtered = append(filtered, t)
			}
		}
		templates = filtered
	}

	s.jsonResponse(w, r, http.StatusOK, listResponse(templates))
}

// handleSearchTemplates searches names, categories and features.
func (s *Server) handleSearchTemplates(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, listResponse(s.registry.Search(r.URL.Query().Get("q"))))
}

// handleRecommendTemplates ranks templates for the given criteria. An empty
// body means no criteria.
func (s *Server) handleRecommendTemplates(w http.ResponseWriter, r *http.Request) {
	var criteria registry.Criteria
	if err := decodeJSON(r, &criteria); err != nil && !errors.Is(err, io.EOF) {
		s.errorFor(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	s.jsonResponse(w, r, http.StatusOK, listResponse(s.registry.Recommend(&criteria)))
}

// handleGetTemplate returns one template
func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, ok := s.registry.Get(id)
	if !ok {
		s.errorFor(w, r, &ErrNotFound{Kind: "template", ID: id})
		return
	}
	s.jsonResponse(w, r, http.StatusOK, t)
}

// handleTemplateVariables returns a template's CSS custom properties as JSON,
// or as a :root stylesheet with ?format=css.
func (s *Server) handleTemplateVariables(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, ok := s.registry.Get(id)
	if !ok {
		s.errorFor(w, r, &ErrNotFound{Kind: "template", ID: id})
		return
	}

	vars := cssvars.ToVariables(t.Config)
	if strings.EqualFold(r.URL.Query().Get("format"), "css") {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, cssvars.Stylesheet(vars))
		return
	}
	s.jsonResponse(w, r, http.StatusOK, map[string]any{"id": t.ID, "variables": vars})
}

// handleListCategories returns categories with their template projections
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]any{"categories": s.registry.Categories()})
}

// handleStats returns registry totals
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, s.registry.Stats())
}

// handleValidateTemplate checks a candidate template manifest against the
// manifest schema, composes it, and runs registry validation. The result is
// always 200 with isValid set; nothing is registered.
func (s *Server) handleValidateTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.errorFor(w, r, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}

	t, err := catalog.ParseManifest("request", body)
	if err != nil {
		s.jsonResponse(w, r, http.StatusOK, registry.Result{IsValid: false, Errors: manifestMessages(err)})
		return
	}
	s.jsonResponse(w, r, http.StatusOK, s.registry.Validate(t))
}

func manifestMessages(err error) []string {
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		out := make([]string, 0, len(schemaErr.Errors))
		for _, fe := range schemaErr.Errors {
			out = append(out, fe.Field+": "+fe.Message)
		}
		return out
	}
	return []string{err.Error()}
}

// decodeJSON decodes a bounded JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodySize))
	return dec.Decode(v)
}
