package request

import (
	"fmt"
	"strings"
)

// Field names used in validation errors. These match the Draft JSON keys so
// error reports stay consistent between the TUI and the submit command.
const (
	FieldName          = "name"
	FieldPhone         = "phone"
	FieldEmergencyType = "emergency_type"
	FieldLocation      = "location"
	FieldDescription   = "description"
)

// Rule is a declarative constraint on a single draft field.
type Rule struct {
	Field     string
	Required  bool
	MinLength int
	Message   string // user-facing message shown inline next to the field
}

// Schema is the validation schema for an ambulance request draft.
// Description is intentionally absent: it is optional and unconstrained.
var Schema = []Rule{
	{Field: FieldName, Required: true, MinLength: 2, Message: "Name must be at least 2 characters"},
	{Field: FieldPhone, Required: true, MinLength: 10, Message: "Phone number must be at least 10 digits"},
	{Field: FieldEmergencyType, Required: true, MinLength: 1, Message: "Select an emergency type"},
	{Field: FieldLocation, Required: true, MinLength: 5, Message: "Location must be at least 5 characters"},
}

// FieldError is a recoverable, per-field validation failure. It blocks
// submission and is surfaced inline next to the offending field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult holds the outcome of validating a draft.
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

// ErrorFor returns the message for the named field, or "" if the field
// passed validation.
func (r *ValidationResult) ErrorFor(field string) string {
	for _, e := range r.Errors {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

// Validate checks the draft against Schema and returns a per-field result.
// Validation is synchronous and has no side effects; leading and trailing
// whitespace does not count toward minimum lengths.
func Validate(d *Draft) *ValidationResult {
	errors := []FieldError{}

	for _, rule := range Schema {
		value := strings.TrimSpace(fieldValue(d, rule.Field))

		if rule.Required && value == "" {
			errors = append(errors, FieldError{Field: rule.Field, Message: rule.Message})
			continue
		}

		if len(value) < rule.MinLength {
			errors = append(errors, FieldError{Field: rule.Field, Message: rule.Message})
		}
	}

	return &ValidationResult{
		Valid:  len(errors) == 0,
		Errors: errors,
	}
}

func fieldValue(d *Draft, field string) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldPhone:
		return d.Phone
	case FieldEmergencyType:
		return d.EmergencyType
	case FieldLocation:
		return d.Location
	case FieldDescription:
		return d.Description
	}
	return ""
}
