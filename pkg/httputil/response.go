// Package httputil provides shared HTTP utilities for consistent response handling.
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// MaxRequestBodySize caps JSON request bodies read by DecodeJSON.
const MaxRequestBodySize = 1 << 20

// Error codes shared by the HTTP surfaces.
const (
	ErrCodeNotFound = "not_found"
	ErrCodeInternal = "internal_error"
)

// WriteJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes a JSON error response with the given status code.
// The error response includes an error code and a human-readable message.
func WriteError(w http.ResponseWriter, status int, errCode, message string) {
	WriteJSON(w, status, map[string]string{
		"error":   errCode,
		"message": message,
	})
}

// statusError is implemented by domain errors that know their HTTP status.
type statusError interface {
	error
	StatusCode() int
}

// kindError is implemented by domain errors that carry a stable error code.
type kindError interface {
	error
	Kind() string
}

// hintError is implemented by domain errors that suggest a fix.
type hintError interface {
	error
	Hint() string
}

// WriteDomainError maps err onto an error response. Errors exposing
// StatusCode() and Kind() keep their status and code; anything else becomes
// a 500 with ErrCodeInternal. A non-empty Hint() is added as "hint".
func WriteDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := ErrCodeInternal

	var se statusError
	if errors.As(err, &se) {
		status = se.StatusCode()
	}
	var ke kindError
	if errors.As(err, &ke) {
		code = ke.Kind()
	}

	body := map[string]string{
		"error":   code,
		"message": err.Error(),
	}
	var he hintError
	if errors.As(err, &he) && he.Hint() != "" {
		body["hint"] = he.Hint()
	}
	WriteJSON(w, status, body)
}

// DecodeJSON decodes the request body into dst, rejecting bodies larger than
// MaxRequestBodySize and trailing data after the first JSON value.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBodySize+1))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	if dec.More() {
		return errors.New("decode request body: unexpected data after JSON value")
	}
	return nil
}

// WriteNoContent writes a 204 No Content response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteCreated writes a 201 Created response with the created resource.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, data)
}

// WriteOK writes a 200 OK response with data.
func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}

// WriteBadRequest writes a 400 Bad Request error response.
func WriteBadRequest(w http.ResponseWriter, errCode, message string) {
	WriteError(w, http.StatusBadRequest, errCode, message)
}

// WriteNotFound writes a 404 Not Found error response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrCodeNotFound, message)
}
