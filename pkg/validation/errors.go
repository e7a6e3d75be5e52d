package validation

import (
	"fmt"
	"strings"

	"github.com/getmockd/castlepact/pkg/stateful"
)

// Codes carried by FieldError.
const (
	ErrCodeSchema  = "schema"
	ErrCodeNoRoute = "no_route"
	ErrCodeRead    = "read_error"
	ErrCodeOpenAPI = "openapi_validation"
)

// ErrorLocation constants
const (
	LocationBody   = "body"
	LocationPath   = "path"
	LocationQuery  = "query"
	LocationHeader = "header"
)

// FieldError represents a detailed validation error for a single field.
type FieldError struct {
	// Field is the name of the field that failed validation
	Field string `json:"field"`

	// Location indicates where the field is: body, path, query, header
	Location string `json:"location"`

	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error description
	Message string `json:"message"`
}

// Error implements the error interface
func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s.%s: %s", e.Location, e.Field, e.Message)
	}
	return e.Message
}

// Result contains the outcome of validation.
type Result struct {
	// Valid is true if validation passed
	Valid bool `json:"valid"`

	// Errors contains validation errors (when Valid is false)
	Errors []*FieldError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (r *Result) AddError(err *FieldError) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// Message summarizes the result for an error response body.
func (r *Result) Message() string {
	switch len(r.Errors) {
	case 0:
		return ""
	case 1:
		return r.Errors[0].Error()
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors: %s", len(r.Errors), strings.Join(msgs, "; "))
}

// Err converts the first error of the result into a *stateful.ValidationError,
// or returns nil when the result is valid.
func (r *Result) Err() error {
	if r.Valid || len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0]
	return &stateful.ValidationError{Field: first.Field, Message: first.Message}
}
