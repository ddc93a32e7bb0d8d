package catalog

import (
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/types"
)

func modernTemplates() []types.Template {
	return []types.Template{
		{
			ID:           "modern-professional",
			Name:         "Modern Professional",
			Category:     design.PresetModern,
			Component:    types.ComponentSingleColumn,
			Config:       compose("modern-professional", design.PresetModern, nil),
			Thumbnail:    "/templates/modern-professional.png",
			Description:  "A clean single-column layout with a blue accent and timeline experience",
			Features:     []string{"ATS Friendly", "Timeline", "Clean Layout"},
			ATSOptimized: true,
			Popular:      true,
			Featured:     true,
		},
		{
			ID:        "modern-sidebar",
			Name:      "Modern Sidebar",
			Category:  design.PresetModern,
			Component: types.ComponentSidebar,
			Config: compose("modern-sidebar", design.PresetModern, merge.Tree{
				"layout": merge.Tree{
					"columns":      2,
					"sidebarWidth": "32%",
				},
				"features": merge.Tree{"showSkillLevels": true},
				"sections": merge.Tree{
					"skills": merge.Tree{"layout": "bars"},
				},
			}),
			Thumbnail:   "/templates/modern-sidebar.png",
			Description: "Skills and languages in a tinted sidebar beside the main column",
			Features:    []string{"Sidebar", "Skill Levels", "Two Column"},
			Popular:     true,
		},
	}
}
