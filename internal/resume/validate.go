// Package resume checks resume data for gaps before export and prepares it
// for rendering. Nothing here blocks an export.
package resume

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-studio/internal/schemas"
	"github.com/jonathan/resume-studio/internal/types"
	schemafiles "github.com/jonathan/resume-studio/schemas"
)

var validate = validator.New()

// DataIncompletenessWarning flags a gap in resume data. It is advisory.
type DataIncompletenessWarning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w DataIncompletenessWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Field, w.Message)
}

// Report groups findings by severity. Errors are gaps a reader would notice
// immediately; warnings are optional content that is missing.
type Report struct {
	Errors   []DataIncompletenessWarning `json:"errors"`
	Warnings []DataIncompletenessWarning `json:"warnings"`
}

// OK reports whether there are no errors.
func (r Report) OK() bool {
	return len(r.Errors) == 0
}

// Validate inspects data and returns every finding.
func Validate(data types.ResumeData) Report {
	r := Report{
		Errors:   []DataIncompletenessWarning{},
		Warnings: []DataIncompletenessWarning{},
	}
	errorf := func(field, msg string) {
		r.Errors = append(r.Errors, DataIncompletenessWarning{Field: field, Message: msg})
	}
	warnf := func(field, msg string) {
		r.Warnings = append(r.Warnings, DataIncompletenessWarning{Field: field, Message: msg})
	}

	p := data.Personal
	if strings.TrimSpace(p.FirstName) == "" {
		errorf("personal.firstName", "First name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		errorf("personal.lastName", "Last name is required")
	}

	if p.Email == "" {
		warnf("personal.email", "Email address is missing")
	} else if err := validate.Var(p.Email, "email"); err != nil {
		errorf("personal.email", fmt.Sprintf("Email address %q is not valid", p.Email))
	}
	if p.Phone == "" {
		warnf("personal.phone", "Phone number is missing")
	}
	if p.Location == "" {
		warnf("personal.location", "Location is missing")
	}

	if len(data.Experience) == 0 {
		warnf("experience", "No work experience added")
	}
	for i, exp := range data.Experience {
		if exp.StartDate == "" {
			warnf(fmt.Sprintf("experience[%d].startDate", i), "Experience entry has no start date")
		}
		if exp.EndDate == "" && !exp.Current {
			warnf(fmt.Sprintf("experience[%d].endDate", i), "Experience entry has no end date and is not marked current")
		}
	}

	if len(data.Education) == 0 {
		warnf("education", "No education added")
	}
	if len(data.TechnicalSkills) == 0 && len(data.SoftSkills) == 0 {
		warnf("skills", "No skills added")
	}

	return r
}

// ValidateJSON checks raw resume JSON against the resume schema. It returns
// the field errors found, or an error if the document could not be checked.
func ValidateJSON(raw []byte) ([]schemas.FieldError, error) {
	err := schemas.Validate(schemafiles.ResumeData, raw)
	if err == nil {
		return nil, nil
	}

	var verr *schemas.ValidationError
	if errors.As(err, &verr) {
		return verr.Errors, nil
	}
	return nil, err
}
