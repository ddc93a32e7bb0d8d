package catalog

import (
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/types"
)

func technicalTemplates() []types.Template {
	return []types.Template{
		{
			ID:           "technical-developer",
			Name:         "Technical Developer",
			Category:     design.PresetTechnical,
			Component:    types.ComponentSingleColumn,
			Config:       compose("technical-developer", design.PresetTechnical, nil),
			Thumbnail:    "/templates/technical-developer.png",
			Description:  "Skills grid up top, monospace headings, project links",
			Features:     []string{"ATS Friendly", "Skills First", "Developer"},
			ATSOptimized: true,
			Popular:      true,
			Featured:     true,
		},
		{
			ID:        "technical-engineer",
			Name:      "Technical Engineer",
			Category:  design.PresetTechnical,
			Component: types.ComponentSidebar,
			Config: compose("technical-engineer", design.PresetTechnical, merge.Tree{
				"layout":   merge.Tree{"columns": 2, "sidebarWidth": "30%"},
				"features": merge.Tree{"showSkillLevels": true},
				"sections": merge.Tree{"skills": merge.Tree{"layout": "bars"}},
			}),
			Thumbnail:   "/templates/technical-engineer.png",
			Description: "Sidebar with rated skills for engineering roles",
			Features:    []string{"Sidebar", "Skill Levels", "Engineer"},
		},
	}
}
