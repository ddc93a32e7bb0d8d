package catalog

import (
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/types"
)

func minimalTemplates() []types.Template {
	return []types.Template{
		{
			ID:           "minimal-clean",
			Name:         "Minimal Clean",
			Category:     design.PresetMinimal,
			Component:    types.ComponentSingleColumn,
			Config:       compose("minimal-clean", design.PresetMinimal, nil),
			Thumbnail:    "/templates/minimal-clean.png",
			Description:  "Monochrome, generous whitespace, no ornament",
			Features:     []string{"ATS Friendly", "Monochrome", "Whitespace"},
			ATSOptimized: true,
		},
		{
			ID:        "minimal-compact",
			Name:      "Minimal Compact",
			Category:  design.PresetMinimal,
			Component: types.ComponentSingleColumn,
			Config: compose("minimal-compact", design.PresetMinimal, merge.Tree{
				"features": merge.Tree{"compactMode": true},
				"layout": merge.Tree{
					"spacing": merge.Tree{"section": "14px", "item": "8px"},
				},
			}),
			Thumbnail:    "/templates/minimal-compact.png",
			Description:  "Dense one-page layout for long careers",
			Features:     []string{"ATS Friendly", "Compact", "One Page"},
			ATSOptimized: true,
		},
	}
}
