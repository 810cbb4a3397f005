package validation

import (
	"errors"
	"sort"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationIssue captures a single validation failure.
type ValidationIssue struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

// Issues extracts per-field validation issues from an error. Structured
// ozzo errors expand into one issue per field; anything else collapses into
// a single location-less issue.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}

	var fieldErrors ozzo.Errors
	if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		fields := make([]string, 0, len(fieldErrors))
		for field := range fieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		issues := make([]ValidationIssue, 0, len(fields))
		for _, field := range fields {
			issues = append(issues, ValidationIssue{
				Location: field,
				Message:  fieldErrors[field].Error(),
			})
		}
		return issues
	}

	return []ValidationIssue{{Message: err.Error()}}
}

// IsValidation reports whether err carries structured field issues.
func IsValidation(err error) bool {
	var fieldErrors ozzo.Errors
	return errors.As(err, &fieldErrors)
}
