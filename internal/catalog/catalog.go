// Package catalog holds the compiled-in template catalog and loads external
// template manifests.
package catalog

import (
	"fmt"

	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/types"
)

var categories = []types.CategoryInfo{
	{
		ID:          design.PresetModern,
		Name:        "Modern",
		Description: "Contemporary layouts with bold accents and clean typography",
		Icon:        "sparkles",
	},
	{
		ID:          design.PresetClassic,
		Name:        "Classic",
		Description: "Traditional serif layouts suited to conservative industries",
		Icon:        "book-open",
	},
	{
		ID:          design.PresetCreative,
		Name:        "Creative",
		Description: "Expressive two-column designs for design and media roles",
		Icon:        "palette",
	},
	{
		ID:          design.PresetMinimal,
		Name:        "Minimal",
		Description: "Quiet monochrome layouts that let content lead",
		Icon:        "minus",
	},
	{
		ID:          design.PresetProfessional,
		Name:        "Professional",
		Description: "Corporate layouts tuned for applicant tracking systems",
		Icon:        "briefcase",
	},
	{
		ID:          design.PresetTechnical,
		Name:        "Technical",
		Description: "Skills-first layouts for engineering roles",
		Icon:        "code",
	},
}

// Categories returns the category metadata for every preset.
func Categories() []types.CategoryInfo {
	out := make([]types.CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// Builtin returns every compiled-in template.
func Builtin() []types.Template {
	var out []types.Template
	for _, family := range [][]types.Template{
		modernTemplates(),
		classicTemplates(),
		creativeTemplates(),
		minimalTemplates(),
		professionalTemplates(),
		technicalTemplates(),
	} {
		out = append(out, family...)
	}
	return out
}

// Bootstrap registers the category metadata and the compiled-in templates.
func Bootstrap(reg *registry.Registry) error {
	for _, c := range categories {
		if err := reg.RegisterCategory(c); err != nil {
			return fmt.Errorf("failed to register category %s: %w", c.ID, err)
		}
	}

	res := reg.RegisterBatch(Builtin())
	if len(res.Failed) > 0 {
		f := res.Failed[0]
		return &registry.ValidationError{TemplateID: f.Template.ID, Errors: f.Errors}
	}
	return nil
}

// compose resolves a compiled-in config. The template ID becomes the config ID.
func compose(id, preset string, overrides merge.Tree) design.TemplateConfig {
	return design.MustCompose(merge.Merge(overrides, merge.Tree{"id": id}), preset)
}
