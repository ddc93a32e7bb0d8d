package registry

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

const (
	defaultRecommendations = 3
	maxRecommendations     = 6
)

// Criteria narrows Recommend. Every non-empty field contributes a keyword.
type Criteria struct {
	Industry        string   `json:"industry,omitempty"`
	Role            string   `json:"role,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}

func (c *Criteria) keywords() []string {
	if c == nil {
		return nil
	}
	raw := append([]string{c.Industry, c.Role, c.ExperienceLevel}, c.Keywords...)
	out := make([]string, 0, len(raw))
	for _, k := range raw {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Stats summarizes the registry contents.
type Stats struct {
	Total        int            `json:"total"`
	Popular      int            `json:"popular"`
	Featured     int            `json:"featured"`
	Premium      int            `json:"premium"`
	ATSOptimized int            `json:"atsOptimized"`
	ByCategory   map[string]int `json:"byCategory"`
}

// Search matches query case-insensitively against name, category and
// features. An empty query returns every template.
func (r *Registry) Search(query string) []types.Template {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return r.All()
	}
	return r.filter(func(t types.Template) bool { return matchesAny(t, []string{q}) })
}

// Recommend returns up to six templates matching the criteria, popular ones
// first, then featured. With no criteria it returns the top three popular
// templates.
func (r *Registry) Recommend(criteria *Criteria) []types.Template {
	keywords := criteria.keywords()
	if len(keywords) == 0 {
		popular := r.Popular()
		return popular[:min(len(popular), defaultRecommendations)]
	}

	matches := r.filter(func(t types.Template) bool { return matchesAny(t, keywords) })
	slices.SortStableFunc(matches, func(a, b types.Template) int {
		if c := cmp.Compare(rank(b.Popular), rank(a.Popular)); c != 0 {
			return c
		}
		return cmp.Compare(rank(b.Featured), rank(a.Featured))
	})
	return matches[:min(len(matches), maxRecommendations)]
}

func rank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func matchesAny(t types.Template, keywords []string) bool {
	fields := make([]string, 0, 2+len(t.Features))
	fields = append(fields, strings.ToLower(t.Name), strings.ToLower(t.Category))
	for _, f := range t.Features {
		fields = append(fields, strings.ToLower(f))
	}
	for _, k := range keywords {
		for _, f := range fields {
			if strings.Contains(f, k) {
				return true
			}
		}
	}
	return false
}

// Stats counts templates by flag and category.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Stats{Total: len(r.templates), ByCategory: make(map[string]int, len(r.categories))}
	for id, c := range r.categories {
		s.ByCategory[id] = c.Count
	}
	for _, t := range r.templates {
		if t.Popular {
			s.Popular++
		}
		if t.Featured {
			s.Featured++
		}
		if t.Premium {
			s.Premium++
		}
		if t.ATSOptimized {
			s.ATSOptimized++
		}
	}
	return s
}
