package catalog

import (
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/types"
)

func classicTemplates() []types.Template {
	return []types.Template{
		{
			ID:           "classic-elegant",
			Name:         "Classic Elegant",
			Category:     design.PresetClassic,
			Component:    types.ComponentSingleColumn,
			Config:       compose("classic-elegant", design.PresetClassic, nil),
			Thumbnail:    "/templates/classic-elegant.png",
			Description:  "Centered serif header with restrained dividers",
			Features:     []string{"ATS Friendly", "Serif", "Traditional"},
			ATSOptimized: true,
			Popular:      true,
		},
		{
			ID:        "classic-executive",
			Name:      "Classic Executive",
			Category:  design.PresetClassic,
			Component: types.ComponentSingleColumn,
			Config: compose("classic-executive", design.PresetClassic, merge.Tree{
				"colors": merge.Tree{"primary": "#0b2545"},
				"layout": merge.Tree{"headerAlign": "left"},
				"sections": merge.Tree{
					"experience": merge.Tree{"layout": "list"},
				},
			}),
			Thumbnail:    "/templates/classic-executive.png",
			Description:  "Left-aligned executive layout with navy headings",
			Features:     []string{"ATS Friendly", "Executive", "Serif"},
			ATSOptimized: true,
			Premium:      true,
		},
	}
}
