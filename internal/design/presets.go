package design

import (
	"sort"

	"github.com/jonathan/resume-studio/internal/merge"
)

// Preset keys. Each matches a template category.
const (
	PresetModern       = "modern"
	PresetClassic      = "classic"
	PresetCreative     = "creative"
	PresetMinimal      = "minimal"
	PresetProfessional = "professional"
	PresetTechnical    = "technical"
)

// Defaults returns the built-in default layer. It defines every schema leaf.
func Defaults() merge.Tree {
	return merge.Tree{
		"id":       "custom",
		"category": PresetModern,
		"colors": merge.Tree{
			"primary":    "#2563eb",
			"secondary":  "#475569",
			"accent":     "#0ea5e9",
			"background": "#ffffff",
			"border":     "#e2e8f0",
			"text": merge.Tree{
				"primary":   "#0f172a",
				"secondary": "#334155",
				"muted":     "#64748b",
			},
		},
		"typography": merge.Tree{
			"fontFamily": merge.Tree{
				"heading": "'Helvetica Neue', Arial, sans-serif",
				"body":    "'Helvetica Neue', Arial, sans-serif",
			},
			"fontSize": merge.Tree{
				"name":       "28px",
				"heading":    "16px",
				"subheading": "13px",
				"body":       "11px",
				"small":      "9.5px",
			},
			"fontWeight": merge.Tree{
				"heading": 700,
				"body":    400,
				"bold":    600,
			},
			"lineHeight": 1.5,
		},
		"layout": merge.Tree{
			"columns":      1,
			"sidebarWidth": "32%",
			"headerAlign":  "left",
			"spacing": merge.Tree{
				"section": "18px",
				"item":    "10px",
				"line":    "4px",
			},
			"margins": merge.Tree{
				"top":    "15mm",
				"right":  "15mm",
				"bottom": "15mm",
				"left":   "15mm",
			},
		},
		"features": merge.Tree{
			"showPhoto":       false,
			"showIcons":       true,
			"showSkillLevels": false,
			"coloredHeaders":  true,
			"sectionDividers": true,
			"compactMode":     false,
		},
		"sections": merge.Tree{
			"order": []any{
				SectionSummary,
				SectionExperience,
				SectionEducation,
				SectionSkills,
				SectionProjects,
				SectionCertifications,
				SectionLanguages,
				SectionCustom,
			},
			"experience": merge.Tree{"layout": "list", "showDates": true},
			"education":  merge.Tree{"layout": "list"},
			"skills":     merge.Tree{"layout": "tags"},
			"languages":  merge.Tree{"layout": "list"},
			"projects":   merge.Tree{"layout": "list"},
		},
	}
}

var presets = map[string]merge.Tree{
	PresetModern: {
		"category": PresetModern,
		"colors": merge.Tree{
			"primary": "#2563eb",
			"accent":  "#06b6d4",
		},
		"typography": merge.Tree{
			"fontFamily": merge.Tree{
				"heading": "Inter, 'Helvetica Neue', Arial, sans-serif",
				"body":    "Inter, 'Helvetica Neue', Arial, sans-serif",
			},
		},
		"sections": merge.Tree{
			"experience": merge.Tree{"layout": "timeline"},
		},
	},
	PresetClassic: {
		"category": PresetClassic,
		"colors": merge.Tree{
			"primary":   "#1f2937",
			"secondary": "#4b5563",
			"accent":    "#7c2d12",
			"text": merge.Tree{
				"primary": "#111827",
			},
		},
		"typography": merge.Tree{
			"fontFamily": merge.Tree{
				"heading": "Georgia, 'Times New Roman', serif",
				"body":    "Georgia, 'Times New Roman', serif",
			},
			"lineHeight": 1.4,
		},
		"layout": merge.Tree{"headerAlign": "center"},
		"features": merge.Tree{
			"showIcons":      false,
			"coloredHeaders": false,
		},
		"sections": merge.Tree{
			"skills": merge.Tree{"layout": "list"},
		},
	},
	PresetCreative: {
		"category": PresetCreative,
		"colors": merge.Tree{
			"primary":   "#9333ea",
			"secondary": "#db2777",
			"accent":    "#f59e0b",
			"border":    "#f3e8ff",
		},
		"typography": merge.Tree{
			"fontFamily": merge.Tree{
				"heading": "Poppins, 'Helvetica Neue', Arial, sans-serif",
			},
			"fontSize": merge.Tree{"name": "32px"},
		},
		"layout": merge.Tree{"columns": 2},
		"features": merge.Tree{
			"showPhoto":       true,
			"showSkillLevels": true,
		},
		"sections": merge.Tree{
			"skills":   merge.Tree{"layout": "bars"},
			"projects": merge.Tree{"layout": "cards"},
		},
	},
	PresetMinimal: {
		"category": PresetMinimal,
		"colors": merge.Tree{
			"primary":   "#111111",
			"secondary": "#555555",
			"accent":    "#111111",
			"border":    "#eeeeee",
		},
		"features": merge.Tree{
			"showIcons":       false,
			"coloredHeaders":  false,
			"sectionDividers": false,
		},
		"layout": merge.Tree{
			"spacing": merge.Tree{"section": "22px"},
		},
		"sections": merge.Tree{
			"skills": merge.Tree{"layout": "inline"},
		},
	},
	PresetProfessional: {
		"category": PresetProfessional,
		"colors": merge.Tree{
			"primary":   "#1e3a8a",
			"secondary": "#334155",
			"accent":    "#0f766e",
		},
		"typography": merge.Tree{
			"fontFamily": merge.Tree{
				"heading": "Calibri, 'Segoe UI', Arial, sans-serif",
				"body":    "Calibri, 'Segoe UI', Arial, sans-serif",
			},
		},
		"features": merge.Tree{"showIcons": false},
	},
	PresetTechnical: {
		"category": PresetTechnical,
		"colors": merge.Tree{
			"primary": "#0f766e",
			"accent":  "#22c55e",
		},
		"typography": merge.Tree{
			"fontFamily": merge.Tree{
				"heading": "'JetBrains Mono', 'Fira Code', monospace",
			},
		},
		"sections": merge.Tree{
			"order": []any{
				SectionSummary,
				SectionSkills,
				SectionExperience,
				SectionProjects,
				SectionEducation,
				SectionCertifications,
				SectionLanguages,
				SectionCustom,
			},
			"skills": merge.Tree{"layout": "grid"},
		},
	},
}

// Preset returns a copy of the named preset layer.
func Preset(key string) (merge.Tree, bool) {
	p, ok := presets[key]
	if !ok {
		return nil, false
	}
	return merge.Clone(p), true
}

// PresetKeys returns the preset keys in sorted order.
func PresetKeys() []string {
	keys := make([]string, 0, len(presets))
	for k := range presets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
