package catalog

import (
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/types"
)

func creativeTemplates() []types.Template {
	return []types.Template{
		{
			ID:          "creative-bold",
			Name:        "Creative Bold",
			Category:    design.PresetCreative,
			Component:   types.ComponentTwoColumn,
			Config:      compose("creative-bold", design.PresetCreative, nil),
			Thumbnail:   "/templates/creative-bold.png",
			Description: "Purple and pink two-column layout with photo and skill bars",
			Features:    []string{"Photo", "Two Column", "Skill Levels", "Colorful"},
			Featured:    true,
		},
		{
			ID:        "creative-portfolio",
			Name:      "Creative Portfolio",
			Category:  design.PresetCreative,
			Component: types.ComponentSidebar,
			Config: compose("creative-portfolio", design.PresetCreative, merge.Tree{
				"colors": merge.Tree{"primary": "#ea580c", "secondary": "#0d9488"},
				"sections": merge.Tree{
					"order": []any{
						design.SectionSummary,
						design.SectionProjects,
						design.SectionExperience,
						design.SectionSkills,
						design.SectionEducation,
						design.SectionLanguages,
						design.SectionCertifications,
						design.SectionCustom,
					},
				},
			}),
			Thumbnail:   "/templates/creative-portfolio.png",
			Description: "Projects first, presented as cards beside a sidebar",
			Features:    []string{"Portfolio", "Project Cards", "Sidebar"},
			Premium:     true,
		},
	}
}
