package types

import (
	"slices"

	"github.com/jonathan/resume-studio/internal/design"
)

// Document layout components a template can reference
const (
	ComponentSingleColumn = "single-column"
	ComponentTwoColumn    = "two-column"
	ComponentSidebar      = "sidebar"
)

// Template is a registered resume template. It is immutable once registered.
type Template struct {
	ID           string                `json:"id" validate:"required"`
	Name         string                `json:"name" validate:"required"`
	Category     string                `json:"category" validate:"required"`
	Component    string                `json:"component" validate:"required,oneof=single-column two-column sidebar"`
	Config       design.TemplateConfig `json:"config" validate:"-"`
	Thumbnail    string                `json:"thumbnail"`
	Description  string                `json:"description"`
	Features     []string              `json:"features"`
	ATSOptimized bool                  `json:"atsOptimized"`
	Popular      bool                  `json:"popular"`
	Featured     bool                  `json:"featured"`
	Premium      bool                  `json:"premium,omitempty"`
}

// Clone returns a copy that shares no slices with t
func (t Template) Clone() Template {
	out := t
	out.Features = slices.Clone(t.Features)
	out.Config.Sections.Order = slices.Clone(t.Config.Sections.Order)
	return out
}

// CategoryInfo is the static description of a template category
type CategoryInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Category is a CategoryInfo with its derived template projection.
// Count and Templates are recomputed by the registry on every registration.
type Category struct {
	CategoryInfo
	Count     int      `json:"count"`
	Templates []string `json:"templates"`
}
