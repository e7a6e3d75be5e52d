package stateful

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds reported to clients.
const (
	KindNotFound   = "not_found"
	KindValidation = "validation_error"
	KindInternal   = "internal_error"
)

// NotFoundError is returned by boundary layers when a lookup, update or delete
// names a record that does not exist. Store primitives never return it.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// StatusCode returns the HTTP status code for this error.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}

// Kind returns KindNotFound.
func (e *NotFoundError) Kind() string { return KindNotFound }

// Hint points at the listing that shows which IDs exist.
func (e *NotFoundError) Hint() string {
	switch e.Entity {
	case EntityCastle:
		return "GET /castles lists the castle IDs that exist."
	case EntityRuler:
		return "The listRulers query returns the ruler IDs that exist."
	}
	return ""
}

// ValidationError is returned when mutation input is rejected before it
// reaches a store.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// StatusCode returns the HTTP status code for this error.
func (e *ValidationError) StatusCode() int {
	return http.StatusBadRequest
}

// Kind returns KindValidation.
func (e *ValidationError) Kind() string { return KindValidation }

// Hint names the field to correct, or is empty when the error has no field.
func (e *ValidationError) Hint() string {
	if e.Field == "" {
		return ""
	}
	return fmt.Sprintf("Correct %q and resend the request.", e.Field)
}

// StatusCodeError is an interface for errors that have an HTTP status code.
type StatusCodeError interface {
	error
	StatusCode() int
}

// HintError is implemented by errors that suggest how the caller can fix the
// request. Both HTTP surfaces report the hint next to the message.
type HintError interface {
	error
	Hint() string
}

// Kind classifies err as one of the client-facing error kinds.
func Kind(err error) string {
	var nf *NotFoundError
	var ve *ValidationError
	switch {
	case errors.As(err, &nf):
		return KindNotFound
	case errors.As(err, &ve):
		return KindValidation
	default:
		return KindInternal
	}
}

// StatusCode returns the HTTP status for err, 500 when err carries none.
func StatusCode(err error) int {
	var sc StatusCodeError
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
