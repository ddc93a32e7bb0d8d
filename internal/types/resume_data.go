// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeData is the structured resume passed into the export pipeline.
// It is owned by the caller and never mutated by this module.
type ResumeData struct {
	Personal        PersonalInfo    `json:"personal"`
	Experience      []Experience    `json:"experience"`
	Education       []Education     `json:"education"`
	TechnicalSkills []Skill         `json:"technicalSkills"`
	SoftSkills      []Skill         `json:"softSkills"`
	Languages       []Language      `json:"languages"`
	Projects        []Project       `json:"projects"`
	CustomSections  []CustomSection `json:"customSections"`
	Certifications  []Certification `json:"certifications"`
}

// PersonalInfo holds contact details and the profile summary
type PersonalInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Title     string `json:"title,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Website   string `json:"website,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Summary   string `json:"summary,omitempty"`
	Photo     string `json:"photo,omitempty"`
}

// FullName joins first and last name with a single space
func (p PersonalInfo) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// Experience represents one position. Company or Position defines it.
type Experience struct {
	ID           string   `json:"id"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
	Current      bool     `json:"current,omitempty"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Education represents one degree. Institution or Degree defines it.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

// Skill is a named skill with an optional 1-5 level
type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

// Language is a spoken language with a proficiency label
type Language struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

// Project is a portfolio entry
type Project struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	StartDate    string   `json:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty"`
}

// CustomSection is a user-defined titled section
type CustomSection struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Items []CustomItem `json:"items"`
}

// CustomItem is an entry within a CustomSection
type CustomItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// Certification is a credential entry
type Certification struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	Date         string `json:"date,omitempty"`
	URL          string `json:"url,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}
