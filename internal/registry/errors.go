package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// ErrSealed is returned when registering into a sealed registry.
var ErrSealed = errors.New("registry is sealed")

// ValidationError is returned by Register when a template fails validation.
type ValidationError struct {
	TemplateID string
	Errors     []string
}

func (e *ValidationError) Error() string {
	if e.TemplateID == "" {
		return fmt.Sprintf("invalid template: %s", strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("invalid template %q: %s", e.TemplateID, strings.Join(e.Errors, "; "))
}

// BatchFailure pairs a rejected template with its validation errors.
type BatchFailure struct {
	Template types.Template `json:"template"`
	Errors   []string       `json:"errors"`
}

// BatchResult reports which templates of a batch were registered.
type BatchResult struct {
	Success []types.Template `json:"success"`
	Failed  []BatchFailure   `json:"failed"`
}
