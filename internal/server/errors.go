package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-studio/internal/catalog"
	"github.com/jonathan/resume-studio/internal/design"
	"github.com/jonathan/resume-studio/internal/document"
	"github.com/jonathan/resume-studio/internal/export"
	"github.com/jonathan/resume-studio/internal/registry"
	"github.com/jonathan/resume-studio/internal/schemas"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a missing resource
type ErrNotFound struct {
	Kind string
	ID   string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFound      *ErrNotFound
		registryErr   *registry.ValidationError
		schemaErr     *schemas.ValidationError
		manifestErr   *catalog.ManifestError
		optionsErr    *export.OptionsError
		unknownPreset *design.UnknownPresetError
		incomplete    *design.IncompleteConfigError
		invalidConfig *design.InvalidConfigError
		templateErr   *document.TemplateError
		popupBlocked  *export.PopupBlockedError
		printErr      *export.PrintError
		renderErr     *export.RenderError
	)

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validationErr), errors.As(err, &schemaErr), errors.As(err, &manifestErr),
		errors.As(err, &optionsErr), errors.As(err, &unknownPreset), errors.As(err, &incomplete),
		errors.As(err, &invalidConfig):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrSealed):
		return http.StatusConflict
	case errors.As(err, &registryErr), errors.As(err, &templateErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &popupBlocked), errors.As(err, &printErr), errors.As(err, &renderErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON body written for err. Field-level details are
// included where the error carries them.
func errorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}

	var (
		schemaErr    *schemas.ValidationError
		registryErr  *registry.ValidationError
		optionsErr   *export.OptionsError
		popupBlocked *export.PopupBlockedError
	)
	switch {
	case errors.As(err, &schemaErr):
		body["errors"] = schemaErr.Errors
	case errors.As(err, &registryErr):
		body["errors"] = registryErr.Errors
	case errors.As(err, &optionsErr):
		body["errors"] = optionsErr.Fields
	case errors.As(err, &popupBlocked):
		body["error"] = "popup_blocked"
		body["message"] = export.ManualPrintInstruction
	}
	return body
}
