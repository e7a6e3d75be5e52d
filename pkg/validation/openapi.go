package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// maxValidationBodySize bounds how much of a request body is buffered for
// schema validation.
const maxValidationBodySize = 10 << 20

// OpenAPIValidator validates requests against an OpenAPI document.
type OpenAPIValidator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewOpenAPIValidator parses and validates the OpenAPI document in data
// (YAML or JSON) and builds a router for matching requests to operations.
func NewOpenAPIValidator(data []byte) (*OpenAPIValidator, error) {
	doc, err := LoadSpec(data)
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	return &OpenAPIValidator{doc: doc, router: router}, nil
}

// LoadSpec loads an OpenAPI document from raw bytes.
func LoadSpec(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	return doc, nil
}

// Spec returns the loaded OpenAPI document.
func (v *OpenAPIValidator) Spec() *openapi3.T {
	return v.doc
}

// ValidateRequest validates an incoming HTTP request. Requests that match no
// operation in the document are reported with ErrCodeNoRoute. The request
// body is restored so the next handler can read it.
func (v *OpenAPIValidator) ValidateRequest(r *http.Request) *Result {
	result := &Result{Valid: true}

	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		result.AddError(&FieldError{
			Location: LocationPath,
			Code:     ErrCodeNoRoute,
			Message:  fmt.Sprintf("no matching route found: %s", err.Error()),
		})
		return result
	}

	if r.Body != nil && r.Body != http.NoBody {
		bodyBytes, err := io.ReadAll(io.LimitReader(r.Body, maxValidationBodySize))
		if err != nil {
			result.AddError(&FieldError{
				Location: LocationBody,
				Code:     ErrCodeRead,
				Message:  fmt.Sprintf("failed to read request body: %s", err.Error()),
			})
			return result
		}
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		defer func() { r.Body = io.NopCloser(bytes.NewReader(bodyBytes)) }()
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
		Options: &openapi3filter.Options{
			MultiError: true,
		},
	}

	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		parseValidationErrors(err, result)
	}

	return result
}

// parseValidationErrors converts kin-openapi errors to FieldErrors.
func parseValidationErrors(err error, result *Result) {
	if err == nil {
		return
	}

	var multiErr openapi3.MultiError
	if errors.As(err, &multiErr) {
		for _, e := range multiErr {
			parseValidationErrors(e, result)
		}
		result.Valid = false
		return
	}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		fe := &FieldError{
			Location: LocationBody,
			Code:     ErrCodeOpenAPI,
			Message:  reqErr.Error(),
		}

		if reqErr.Parameter != nil {
			fe.Field = reqErr.Parameter.Name
			switch reqErr.Parameter.In {
			case "path":
				fe.Location = LocationPath
			case "query":
				fe.Location = LocationQuery
			case "header":
				fe.Location = LocationHeader
			}
		}

		var schemaErr *openapi3.SchemaError
		if reqErr.Err != nil {
			fe.Message = reqErr.Err.Error()
			if errors.As(reqErr.Err, &schemaErr) {
				if field := formatJSONPath(schemaErr.JSONPointer()); field != "" {
					fe.Field = field
				}
				fe.Message = schemaErr.Reason
				fe.Code = ErrCodeSchema
			}
		}

		result.AddError(fe)
		return
	}

	result.AddError(&FieldError{
		Location: "request",
		Code:     ErrCodeOpenAPI,
		Message:  err.Error(),
	})
}

// formatJSONPath converts JSON pointer parts to a dotted field path.
func formatJSONPath(parts []string) string {
	var sb strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		if isNumeric(part) {
			sb.WriteString("[")
			sb.WriteString(part)
			sb.WriteString("]")
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(".")
		}
		sb.WriteString(part)
	}
	return sb.String()
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
