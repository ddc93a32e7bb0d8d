package document

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/types"
)

// Section titles. The experience title doubles as the section marker that
// callers look for in generated markup.
const (
	TitleSummary        = "Professional Summary"
	TitleExperience     = "Professional Experience"
	TitleEducation      = "Education"
	TitleSkills         = "Skills"
	TitleLanguages      = "Languages"
	TitleProjects       = "Projects"
	TitleCertifications = "Certifications"
)

// asideSections move into the side column for sidebar and two-column layouts.
var asideSections = map[string]bool{
	design.SectionSkills:         true,
	design.SectionLanguages:      true,
	design.SectionCertifications: true,
}

type page struct {
	Title     string
	ConfigID  string
	Component string
	BodyClass string
	Variables template.CSS
	BaseCSS   template.CSS
	Header    header
	Main      []section
	Aside     []section
}

type header struct {
	Name     string
	Title    string
	Align    string
	Photo    template.URL
	Contacts []contact
}

type contact struct {
	Kind  string
	Label string
	Href  string
}

type section struct {
	Key        string
	ID         string
	Title      string
	Layout     string
	Summary    template.HTML
	Entries    []entry
	Skills     []skillGroup
	ShowLevels bool
}

type entry struct {
	ID          string
	Title       string
	Subtitle    string
	Meta        string
	URL         string
	Description template.HTML
	Bullets     []string
	Tags        []string
}

type skillGroup struct {
	Label string
	Items []skillItem
}

type skillItem struct {
	ID      string
	Name    string
	Level   int
	Percent int
}

// builder collects sections in configured order. The first markdown error
// is kept and reported after the walk.
type builder struct {
	data types.ResumeData
	cfg  design.TemplateConfig
	err  error
}

func (b *builder) markdown(field, src string) template.HTML {
	out, err := markdownHTML(src)
	if err != nil && b.err == nil {
		b.err = fmt.Errorf("failed to render %s: %w", field, err)
	}
	return out
}

func (b *builder) sections() []section {
	var out []section
	for _, key := range b.cfg.Sections.Order {
		switch key {
		case design.SectionSummary:
			out = appendNonEmpty(out, b.summary())
		case design.SectionExperience:
			out = appendNonEmpty(out, b.experience())
		case design.SectionEducation:
			out = appendNonEmpty(out, b.education())
		case design.SectionSkills:
			out = appendNonEmpty(out, b.skills())
		case design.SectionLanguages:
			out = appendNonEmpty(out, b.languages())
		case design.SectionProjects:
			out = appendNonEmpty(out, b.projects())
		case design.SectionCertifications:
			out = appendNonEmpty(out, b.certifications())
		case design.SectionCustom:
			out = append(out, b.custom()...)
		}
	}
	return out
}

func appendNonEmpty(out []section, s section) []section {
	if s.Summary == "" && len(s.Entries) == 0 && len(s.Skills) == 0 {
		return out
	}
	return append(out, s)
}

func (b *builder) header() header {
	p := b.data.Personal
	h := header{
		Name:  p.FullName(),
		Title: p.Title,
		Align: b.cfg.Layout.HeaderAlign,
	}
	if b.cfg.Features.ShowPhoto {
		h.Photo = photoURL(p.Photo)
	}

	add := func(kind, label, href string) {
		if label != "" {
			h.Contacts = append(h.Contacts, contact{Kind: kind, Label: label, Href: href})
		}
	}
	add("email", p.Email, "mailto:"+p.Email)
	add("phone", p.Phone, "tel:"+strings.ReplaceAll(p.Phone, " ", ""))
	add("location", p.Location, "")
	add("website", p.Website, absoluteURL(p.Website))
	add("linkedin", p.LinkedIn, absoluteURL(p.LinkedIn))
	add("github", p.GitHub, absoluteURL(p.GitHub))
	return h
}

// photoURL accepts inline images and http(s) links. Anything else is dropped.
func photoURL(u string) template.URL {
	lower := strings.ToLower(strings.TrimSpace(u))
	switch {
	case strings.HasPrefix(lower, "data:image/"),
		strings.HasPrefix(lower, "https://"),
		strings.HasPrefix(lower, "http://"):
		return template.URL(u) //nolint:gosec // scheme checked above
	}
	return ""
}

func absoluteURL(u string) string {
	if u == "" || strings.Contains(u, "://") {
		return u
	}
	return "https://" + u
}

func (b *builder) summary() section {
	return section{
		Key:     design.SectionSummary,
		Title:   TitleSummary,
		Layout:  "text",
		Summary: b.markdown("summary", b.data.Personal.Summary),
	}
}

func (b *builder) experience() section {
	s := section{
		Key:    design.SectionExperience,
		Title:  TitleExperience,
		Layout: b.cfg.Sections.Experience.Layout,
	}
	for i, e := range b.data.Experience {
		if e.Company == "" && e.Position == "" {
			continue
		}
		title, sub := e.Position, e.Company
		if title == "" {
			title, sub = e.Company, ""
		}
		item := entry{
			ID:          e.ID,
			Title:       title,
			Subtitle:    joinNonEmpty(" · ", sub, e.Location),
			Description: b.markdown(fmt.Sprintf("experience[%d].description", i), e.Description),
			Bullets:     nonEmpty(e.Achievements),
		}
		if b.cfg.Sections.Experience.ShowDates {
			item.Meta = dateRange(e.StartDate, e.EndDate, e.Current)
		}
		s.Entries = append(s.Entries, item)
	}
	return s
}

func (b *builder) education() section {
	s := section{
		Key:    design.SectionEducation,
		Title:  TitleEducation,
		Layout: b.cfg.Sections.Education.Layout,
	}
	for i, e := range b.data.Education {
		if e.Institution == "" && e.Degree == "" {
			continue
		}
		title := joinNonEmpty(" in ", e.Degree, e.Field)
		sub := e.Institution
		if title == "" {
			title, sub = e.Institution, ""
		}
		var gpa string
		if e.GPA != "" {
			gpa = "GPA " + e.GPA
		}
		s.Entries = append(s.Entries, entry{
			ID:          e.ID,
			Title:       title,
			Subtitle:    joinNonEmpty(" · ", sub, e.Location, gpa),
			Meta:        dateRange(e.StartDate, e.EndDate, false),
			Description: b.markdown(fmt.Sprintf("education[%d].description", i), e.Description),
		})
	}
	return s
}

func (b *builder) skills() section {
	s := section{
		Key:        design.SectionSkills,
		Title:      TitleSkills,
		Layout:     b.cfg.Sections.Skills.Layout,
		ShowLevels: b.cfg.Features.ShowSkillLevels,
	}
	for _, g := range []struct {
		label  string
		skills []types.Skill
	}{
		{"Technical", b.data.TechnicalSkills},
		{"Soft Skills", b.data.SoftSkills},
	} {
		var items []skillItem
		for _, sk := range g.skills {
			if sk.Name == "" {
				continue
			}
			level := min(max(sk.Level, 0), 5)
			items = append(items, skillItem{ID: sk.ID, Name: sk.Name, Level: level, Percent: level * 20})
		}
		if len(items) > 0 {
			s.Skills = append(s.Skills, skillGroup{Label: g.label, Items: items})
		}
	}
	return s
}

func (b *builder) languages() section {
	s := section{
		Key:    design.SectionLanguages,
		Title:  TitleLanguages,
		Layout: b.cfg.Sections.Languages.Layout,
	}
	for _, l := range b.data.Languages {
		if l.Name == "" {
			continue
		}
		s.Entries = append(s.Entries, entry{ID: l.ID, Title: l.Name, Subtitle: l.Proficiency})
	}
	return s
}

func (b *builder) projects() section {
	s := section{
		Key:    design.SectionProjects,
		Title:  TitleProjects,
		Layout: b.cfg.Sections.Projects.Layout,
	}
	for i, p := range b.data.Projects {
		if p.Name == "" {
			continue
		}
		s.Entries = append(s.Entries, entry{
			ID:          p.ID,
			Title:       p.Name,
			Meta:        dateRange(p.StartDate, p.EndDate, false),
			URL:         absoluteURL(p.URL),
			Description: b.markdown(fmt.Sprintf("projects[%d].description", i), p.Description),
			Tags:        nonEmpty(p.Technologies),
		})
	}
	return s
}

func (b *builder) certifications() section {
	s := section{
		Key:    design.SectionCertifications,
		Title:  TitleCertifications,
		Layout: "list",
	}
	for _, c := range b.data.Certifications {
		if c.Name == "" {
			continue
		}
		var credential string
		if c.CredentialID != "" {
			credential = "ID " + c.CredentialID
		}
		s.Entries = append(s.Entries, entry{
			ID:       c.ID,
			Title:    c.Name,
			Subtitle: joinNonEmpty(" · ", c.Issuer, credential),
			Meta:     c.Date,
			URL:      absoluteURL(c.URL),
		})
	}
	return s
}

// custom returns one section per custom section that has a title and at
// least one item with a title or description.
func (b *builder) custom() []section {
	var out []section
	for i, cs := range b.data.CustomSections {
		if cs.Title == "" {
			continue
		}
		s := section{
			Key:    design.SectionCustom,
			ID:     cs.ID,
			Title:  cs.Title,
			Layout: "list",
		}
		for j, it := range cs.Items {
			if it.Title == "" && it.Description == "" {
				continue
			}
			s.Entries = append(s.Entries, entry{
				ID:          it.ID,
				Title:       it.Title,
				Subtitle:    it.Subtitle,
				Meta:        it.Date,
				Description: b.markdown(fmt.Sprintf("customSections[%d].items[%d].description", i, j), it.Description),
			})
		}
		out = appendNonEmpty(out, s)
	}
	return out
}

func dateRange(start, end string, current bool) string {
	if current {
		end = "Present"
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	default:
		return start + " - " + end
	}
}

func joinNonEmpty(sep string, parts ...string) string {
	return strings.Join(nonEmpty(parts), sep)
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
