package resume

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jonathan/resume-studio/internal/types"
)

// Load reads resume JSON from path.
func Load(path string) (types.ResumeData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to read resume %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes resume JSON.
func Parse(raw []byte) (types.ResumeData, error) {
	var data types.ResumeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to parse resume JSON: %w", err)
	}
	return data, nil
}

// EnsureIDs returns a copy of data where every list item has an ID. Existing
// IDs are kept; the input is not modified.
func EnsureIDs(data types.ResumeData) types.ResumeData {
	out := data

	out.Experience = withIDs(data.Experience, func(e *types.Experience) *string { return &e.ID })
	for i := range out.Experience {
		out.Experience[i].Achievements = cloneStrings(data.Experience[i].Achievements)
	}
	out.Education = withIDs(data.Education, func(e *types.Education) *string { return &e.ID })
	out.TechnicalSkills = withIDs(data.TechnicalSkills, func(s *types.Skill) *string { return &s.ID })
	out.SoftSkills = withIDs(data.SoftSkills, func(s *types.Skill) *string { return &s.ID })
	out.Languages = withIDs(data.Languages, func(l *types.Language) *string { return &l.ID })
	out.Projects = withIDs(data.Projects, func(p *types.Project) *string { return &p.ID })
	for i := range out.Projects {
		out.Projects[i].Technologies = cloneStrings(data.Projects[i].Technologies)
	}
	out.Certifications = withIDs(data.Certifications, func(c *types.Certification) *string { return &c.ID })
	out.CustomSections = withIDs(data.CustomSections, func(c *types.CustomSection) *string { return &c.ID })
	for i := range out.CustomSections {
		out.CustomSections[i].Items = withIDs(data.CustomSections[i].Items, func(it *types.CustomItem) *string { return &it.ID })
	}
	return out
}

func withIDs[T any](items []T, id func(*T) *string) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	for i := range out {
		if p := id(&out[i]); *p == "" {
			*p = uuid.NewString()
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
