package db

import (
	"time"

	"github.com/google/uuid"
)

// Export methods stored in the method column
const (
	MethodRaster = "raster"
	MethodPrint  = "print"
)

// Export is a stored PDF with its metadata
type Export struct {
	ID          uuid.UUID `json:"id"`
	TemplateID  string    `json:"template_id"`
	Filename    string    `json:"filename"`
	Method      string    `json:"method"`
	Format      string    `json:"format"`
	Orientation string    `json:"orientation"`
	Pages       int       `json:"pages"`
	SizeBytes   int       `json:"size_bytes"`
	Warnings    []string  `json:"warnings"`
	PDF         []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExportSummary is a lightweight view of an export for listing
type ExportSummary struct {
	ID         uuid.UUID `json:"id"`
	TemplateID string    `json:"template_id"`
	Filename   string    `json:"filename"`
	Method     string    `json:"method"`
	Pages      int       `json:"pages"`
	SizeBytes  int       `json:"size_bytes"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExportFilters holds optional filters for listing exports
type ExportFilters struct {
	TemplateID string
	Method     string
	Limit      int
}

// DefaultListLimit applies when ExportFilters.Limit is zero
const DefaultListLimit = 50

// MaxListLimit caps ExportFilters.Limit
const MaxListLimit = 500
