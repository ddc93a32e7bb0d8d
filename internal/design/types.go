// Package design defines the template config schema, its category presets,
// and the composer that resolves partial configs into complete ones.
package design

// TemplateConfig is a fully resolved template design. Every leaf is present
// after Compose; a missing leaf is reported as an IncompleteConfigError.
type TemplateConfig struct {
	ID         string     `json:"id" validate:"required"`
	Category   string     `json:"category" validate:"required"`
	Colors     Colors     `json:"colors"`
	Typography Typography `json:"typography"`
	Layout     Layout     `json:"layout"`
	Features   Features   `json:"features"`
	Sections   Sections   `json:"sections"`
}

// Colors holds the palette. Values are CSS colors.
type Colors struct {
	Primary    string     `json:"primary" validate:"required,iscolor"`
	Secondary  string     `json:"secondary" validate:"required,iscolor"`
	Accent     string     `json:"accent" validate:"required,iscolor"`
	Background string     `json:"background" validate:"required,iscolor"`
	Border     string     `json:"border" validate:"required,iscolor"`
	Text       TextColors `json:"text"`
}

// TextColors holds text tones.
type TextColors struct {
	Primary   string `json:"primary" validate:"required,iscolor"`
	Secondary string `json:"secondary" validate:"required,iscolor"`
	Muted     string `json:"muted" validate:"required,iscolor"`
}

// Typography holds font families, sizes, weights and line height.
type Typography struct {
	FontFamily FontFamily `json:"fontFamily"`
	FontSize   FontSize   `json:"fontSize"`
	FontWeight FontWeight `json:"fontWeight"`
	LineHeight float64    `json:"lineHeight" validate:"gt=0,lte=3"`
}

// FontFamily holds CSS font stacks.
type FontFamily struct {
	Heading string `json:"heading" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// FontSize holds CSS lengths.
type FontSize struct {
	Name       string `json:"name" validate:"required"`
	Heading    string `json:"heading" validate:"required"`
	Subheading string `json:"subheading" validate:"required"`
	Body       string `json:"body" validate:"required"`
	Small      string `json:"small" validate:"required"`
}

// FontWeight holds numeric CSS font weights.
type FontWeight struct {
	Heading int `json:"heading" validate:"min=100,max=900"`
	Body    int `json:"body" validate:"min=100,max=900"`
	Bold    int `json:"bold" validate:"min=100,max=900"`
}

// Layout holds page structure and spacing.
type Layout struct {
	Columns      int     `json:"columns" validate:"min=1,max=2"`
	SidebarWidth string  `json:"sidebarWidth" validate:"required"`
	HeaderAlign  string  `json:"headerAlign" validate:"oneof=left center right"`
	Spacing      Spacing `json:"spacing"`
	Margins      Margins `json:"margins"`
}

// Spacing holds vertical rhythm lengths.
type Spacing struct {
	Section string `json:"section" validate:"required"`
	Item    string `json:"item" validate:"required"`
	Line    string `json:"line" validate:"required"`
}

// Margins holds page padding lengths.
type Margins struct {
	Top    string `json:"top" validate:"required"`
	Right  string `json:"right" validate:"required"`
	Bottom string `json:"bottom" validate:"required"`
	Left   string `json:"left" validate:"required"`
}

// Features holds rendering toggles.
type Features struct {
	ShowPhoto       bool `json:"showPhoto"`
	ShowIcons       bool `json:"showIcons"`
	ShowSkillLevels bool `json:"showSkillLevels"`
	ColoredHeaders  bool `json:"coloredHeaders"`
	SectionDividers bool `json:"sectionDividers"`
	CompactMode     bool `json:"compactMode"`
}

// Section keys accepted in Sections.Order.
const (
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionLanguages      = "languages"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
	SectionCustom         = "custom"
)

// Sections holds section ordering and per-section layout choices.
type Sections struct {
	Order      []string          `json:"order" validate:"min=1,dive,oneof=summary experience education skills languages projects certifications custom"`
	Experience ExperienceSection `json:"experience"`
	Education  LayoutChoice      `json:"education"`
	Skills     LayoutChoice      `json:"skills"`
	Languages  LayoutChoice      `json:"languages"`
	Projects   LayoutChoice      `json:"projects"`
}

// ExperienceSection configures the experience section.
type ExperienceSection struct {
	Layout    string `json:"layout" validate:"oneof=timeline list cards"`
	ShowDates bool   `json:"showDates"`
}

// LayoutChoice names a section's layout variant.
type LayoutChoice struct {
	Layout string `json:"layout" validate:"oneof=list timeline compact tags bars grid inline cards"`
}
