// Package registry stores resume templates by ID and answers catalog queries.
//
// A Registry is constructed explicitly and handed to its readers. Bootstrap
// code registers every template, optionally calls Seal, and only then shares
// the instance. All methods are safe for concurrent use.
package registry

import (
	"slices"
	"sync"

	"github.com/jonathan/resume-studio/internal/types"
)

// Registry holds templates and the categories they belong to.
type Registry struct {
	mu         sync.RWMutex
	templates  map[string]types.Template
	order      []string
	categories map[string]*types.Category
	catOrder   []string
	sealed     bool
}

// New creates a registry that knows the given categories.
func New(categories ...types.CategoryInfo) *Registry {
	r := &Registry{
		templates:  make(map[string]types.Template),
		categories: make(map[string]*types.Category),
	}
	for _, c := range categories {
		r.addCategory(c)
	}
	return r
}

// RegisterCategory adds or replaces category metadata. The derived
// projection of an existing category is preserved.
func (r *Registry) RegisterCategory(info types.CategoryInfo) error {
	if info.ID == "" {
		return &ValidationError{Errors: []string{"Category ID is required"}}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrSealed
	}
	r.addCategory(info)
	return nil
}

func (r *Registry) addCategory(info types.CategoryInfo) {
	if existing, ok := r.categories[info.ID]; ok {
		existing.CategoryInfo = info
		return
	}
	r.categories[info.ID] = &types.Category{CategoryInfo: info, Templates: []string{}}
	r.catOrder = append(r.catOrder, info.ID)
}

// Register validates t and stores a copy of it. Duplicate IDs are rejected
// rather than overwritten.
func (r *Registry) Register(t types.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrSealed
	}
	if res := r.validateLocked(t); !res.IsValid {
		return &ValidationError{TemplateID: t.ID, Errors: res.Errors}
	}

	r.insertLocked(t)
	return nil
}

func (r *Registry) insertLocked(t types.Template) {
	r.templates[t.ID] = t.Clone()
	r.order = append(r.order, t.ID)
	r.recomputeCategoryLocked(t.Category)
}

// recomputeCategoryLocked rebuilds the count and template list of one category.
func (r *Registry) recomputeCategoryLocked(categoryID string) {
	cat, ok := r.categories[categoryID]
	if !ok {
		return
	}
	ids := make([]string, 0, cat.Count+1)
	for _, id := range r.order {
		if r.templates[id].Category == categoryID {
			ids = append(ids, id)
		}
	}
	cat.Templates = ids
	cat.Count = len(ids)
}

// RegisterBatch validates and registers each template independently.
// A failing item neither blocks nor rolls back the others.
func (r *Registry) RegisterBatch(templates []types.Template) BatchResult {
	result := BatchResult{
		Success: []types.Template{},
		Failed:  []BatchFailure{},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range templates {
		if r.sealed {
			result.Failed = append(result.Failed, BatchFailure{Template: t, Errors: []string{ErrSealed.Error()}})
			continue
		}
		res := r.validateLocked(t)
		if !res.IsValid {
			result.Failed = append(result.Failed, BatchFailure{Template: t, Errors: res.Errors})
			continue
		}
		r.insertLocked(t)
		result.Success = append(result.Success, t)
	}
	return result
}

// Seal rejects any further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Get returns the template with the given ID.
func (r *Registry) Get(id string) (types.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return types.Template{}, false
	}
	return t.Clone(), true
}

// All returns every template in registration order.
func (r *Registry) All() []types.Template {
	return r.filter(func(types.Template) bool { return true })
}

// ByCategory returns the templates of one category.
func (r *Registry) ByCategory(categoryID string) []types.Template {
	return r.filter(func(t types.Template) bool { return t.Category == categoryID })
}

// Popular returns templates flagged popular.
func (r *Registry) Popular() []types.Template {
	return r.filter(func(t types.Template) bool { return t.Popular })
}

// Featured returns templates flagged featured.
func (r *Registry) Featured() []types.Template {
	return r.filter(func(t types.Template) bool { return t.Featured })
}

// Premium returns templates flagged premium.
func (r *Registry) Premium() []types.Template {
	return r.filter(func(t types.Template) bool { return t.Premium })
}

// ATSOptimized returns templates flagged ATS-optimized.
func (r *Registry) ATSOptimized() []types.Template {
	return r.filter(func(t types.Template) bool { return t.ATSOptimized })
}

func (r *Registry) filter(keep func(types.Template) bool) []types.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Template, 0, len(r.order))
	for _, id := range r.order {
		t := r.templates[id]
		if keep(t) {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Categories returns every known category with its derived projection.
func (r *Registry) Categories() []types.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Category, 0, len(r.catOrder))
	for _, id := range r.catOrder {
		out = append(out, cloneCategory(r.categories[id]))
	}
	return out
}

// Category returns one category by ID.
func (r *Registry) Category(id string) (types.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.categories[id]
	if !ok {
		return types.Category{}, false
	}
	return cloneCategory(c), true
}

func cloneCategory(c *types.Category) types.Category {
	out := *c
	out.Templates = slices.Clone(c.Templates)
	return out
}
