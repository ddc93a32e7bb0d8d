// Package server provides the HTTP API for template browsing and resume export.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/db"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/observability"
	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/server/ratelimit"
)

// ExportStore persists generated PDFs. *db.DB implements it.
type ExportStore interface {
	SaveExport(ctx context.Context, e *db.Export) (uuid.UUID, error)
	GetExport(ctx context.Context, id uuid.UUID) (*db.Export, error)
	ListExports(ctx context.Context, limit int) ([]db.ExportSummary, error)
}

var _ ExportStore = (*db.DB)(nil)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	registry    *registry.Registry
	exports     *export.Service
	store       ExportStore
	logger      *log.Logger
	rateLimiter *ratelimit.Limiter
	defaults    export.Options
}

// Config holds server configuration
type Config struct {
	Port     int
	Registry *registry.Registry
	Exports  *export.Service
	// Store is optional; without it exports are not persisted and the
	// /exports routes answer 404.
	Store     ExportStore
	Logger    *log.Logger
	RateLimit *ratelimit.Config
	// ExportTimeout bounds a single PDF export. Zero means no extra bound.
	ExportTimeout time.Duration
	// ExportDefaults supplies format, quality and orientation for export
	// requests that leave them unset.
	ExportDefaults export.Options
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("server requires a template registry")
	}
	if cfg.Exports == nil {
		cfg.Exports = &export.Service{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig(os.Getenv)
	}

	s := &Server{
		registry:    cfg.Registry,
		exports:     cfg.Exports,
		store:       cfg.Store,
		logger:      cfg.Logger,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		defaults:    cfg.ExportDefaults,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Templates
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /templates/search", s.handleSearchTemplates)
	mux.HandleFunc("POST /templates/recommend", s.handleRecommendTemplates)
	mux.HandleFunc("POST /templates/validate", s.handleValidateTemplate)
	mux.HandleFunc("GET /templates/{id}", s.handleGetTemplate)
	mux.HandleFunc("GET /templates/{id}/variables", s.handleTemplateVariables)
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("GET /stats", s.handleStats)

	// Resume data and export
	mux.HandleFunc("POST /resume/validate", s.handleValidateResume)
	mux.HandleFunc("POST /export/html", s.handleExportHTML)
	mux.HandleFunc("POST /export/pdf", s.handleExportPDF)
	mux.HandleFunc("POST /export/print", s.handleExportPrint)

	// Stored exports
	mux.HandleFunc("GET /exports", s.handleListExports)
	mux.HandleFunc("GET /exports/{id}", s.handleGetExport)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	if cfg.ExportTimeout > 0 {
		s.handler = withExportTimeout(s.handler, cfg.ExportTimeout)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for browser exports
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.rateLimiter.Stop()
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work without serving. It is used by tests and by
// callers that only need Handler.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Export-Method, X-Export-Pages, X-Export-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging logs each request and attaches a request-scoped logger to the
// context.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := s.logger.With("method", r.Method, "path", r.URL.Path)
		ctx := observability.WithLogger(r.Context(), reqLogger)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		reqLogger.Info("request",
			"status", status,
			"bytes", rec.bytes,
			"remote", r.RemoteAddr,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func withExportTimeout(next http.Handler, d time.Duration) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || (r.URL.Path != "/export/pdf" && r.URL.Path != "/export/print") {
			next.ServeHTTP(w, r)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), d)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"templates": len(s.registry.All()),
		"storage":   s.store != nil,
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		observability.Logger(r.Context()).Error("failed to encode JSON response", "err", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.jsonResponse(w, r, status, map[string]string{"error": message})
}

// errorFor writes err with the status HTTPStatus assigns it.
func (s *Server) errorFor(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		observability.Logger(r.Context()).Error("request failed", "err", err)
	}
	s.jsonResponse(w, r, status, errorBody(err))
}

// clientID extracts the client identifier from the request.
// X-Forwarded-For is not trusted.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		secs := max(1, int(info.RetryAfter.Seconds()+0.5))
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.logger.Warn("rate limit exceeded", "client", clientID(r), "path", r.URL.Path, "limit", info.Limit)
	s.jsonResponse(w, r, http.StatusTooManyRequests, response)
}
