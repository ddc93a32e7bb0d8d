package design

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UnknownPresetError is returned when Compose is given a preset key that does not exist.
type UnknownPresetError struct {
	Key string
}

func (e *UnknownPresetError) Error() string {
	return fmt.Sprintf("unknown preset: %q (known: %s)", e.Key, strings.Join(PresetKeys(), ", "))
}

// IncompleteConfigError lists schema leaves that did not resolve.
type IncompleteConfigError struct {
	Missing []string
}

func (e *IncompleteConfigError) Error() string {
	return fmt.Sprintf("config incomplete: unresolved fields: %s", strings.Join(e.Missing, ", "))
}

// InvalidConfigError represents a resolved config whose values break schema constraints.
type InvalidConfigError struct {
	Message string
	Fields  []string
	Cause   error
}

func (e *InvalidConfigError) Error() string {
	msg := fmt.Sprintf("invalid config: %s", e.Message)
	if len(e.Fields) > 0 {
		msg += ": " + strings.Join(e.Fields, "; ")
	}
	if e.Cause != nil && len(e.Fields) == 0 {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Cause
}

func newInvalidConfigError(err error) *InvalidConfigError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &InvalidConfigError{Message: "validation failed", Cause: err}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return &InvalidConfigError{Message: "constraint violations", Fields: fields, Cause: err}
}
