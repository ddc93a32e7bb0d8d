package catalog

import (
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/merge"
	"github.com/jonathan/resume-studio/internal/types"
)

func professionalTemplates() []types.Template {
	return []types.Template{
		{
			ID:           "professional-corporate",
			Name:         "Professional Corporate",
			Category:     design.PresetProfessional,
			Component:    types.ComponentSingleColumn,
			Config:       compose("professional-corporate", design.PresetProfessional, nil),
			Thumbnail:    "/templates/professional-corporate.png",
			Description:  "Navy headings and conservative spacing for corporate applications",
			Features:     []string{"ATS Friendly", "Corporate", "Clean Layout"},
			ATSOptimized: true,
			Popular:      true,
		},
		{
			ID:        "professional-consultant",
			Name:      "Professional Consultant",
			Category:  design.PresetProfessional,
			Component: types.ComponentTwoColumn,
			Config: compose("professional-consultant", design.PresetProfessional, merge.Tree{
				"layout": merge.Tree{"columns": 2},
				"sections": merge.Tree{
					"experience": merge.Tree{"layout": "cards"},
				},
			}),
			Thumbnail:   "/templates/professional-consultant.png",
			Description: "Engagement cards with certifications alongside",
			Features:    []string{"Two Column", "Certifications", "Cards"},
			Featured:    true,
		},
	}
}
