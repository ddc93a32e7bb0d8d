package registry

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-studio/internal/types"
)

var validate = validator.New()

// requiredMessages maps top-level template fields to their error text.
var requiredMessages = map[string]string{
	"Template.ID":        "Template ID is required",
	"Template.Name":      "Template name is required",
	"Template.Category":  "Template category is required",
	"Template.Component": "Template component is required",
}

// Result is the outcome of Validate. Errors are data, never panics.
type Result struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks required fields, that the category is registered, and that
// the ID is not taken.
func (r *Registry) Validate(t types.Template) Result {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.validateLocked(t)
}

func (r *Registry) validateLocked(t types.Template) Result {
	errs := fieldErrors(t)

	if t.Category != "" {
		if _, ok := r.categories[t.Category]; !ok {
			errs = append(errs, fmt.Sprintf("Category '%s' does not exist", t.Category))
		}
	}
	if t.ID != "" {
		if _, exists := r.templates[t.ID]; exists {
			errs = append(errs, fmt.Sprintf("Template with ID '%s' already exists", t.ID))
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func fieldErrors(t types.Template) []string {
	errs := []string{}
	// Config is resolved by design.Compose; only its identity matters here.
	if err := validate.Struct(t); err != nil {
		errs = append(errs, translate(err)...)
	}
	if t.Config.ID == "" {
		errs = append(errs, "Template config ID is required")
	}
	return errs
}

func translate(err error) []string {
	var errs []string

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return append(errs, fmt.Sprintf("Template is invalid: %v", err))
	}

	for _, fe := range verrs {
		ns := fe.Namespace()
		if msg, ok := requiredMessages[ns]; ok && fe.Tag() == "required" {
			errs = append(errs, msg)
			continue
		}
		switch {
		case ns == "Template.Component":
			errs = append(errs, fmt.Sprintf("Template component '%v' is not supported", fe.Value()))
		default:
			errs = append(errs, fmt.Sprintf("Field '%s' failed '%s' validation", ns, fe.Tag()))
		}
	}
	return errs
}
