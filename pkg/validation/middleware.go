package validation

import (
	"log/slog"
	"net/http"

	"github.com/getmockd/castlepact/pkg/httputil"
	"github.com/getmockd/castlepact/pkg/logging"
	"github.com/getmockd/castlepact/pkg/stateful"
)

// Middleware wraps an http.Handler with OpenAPI request validation.
// Requests for paths the document does not describe pass through untouched.
type Middleware struct {
	handler   http.Handler
	validator *OpenAPIValidator
	logger    *slog.Logger
}

// NewMiddleware creates a new validation middleware. A nil validator disables
// validation.
func NewMiddleware(handler http.Handler, validator *OpenAPIValidator, logger *slog.Logger) *Middleware {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Middleware{
		handler:   handler,
		validator: validator,
		logger:    logger,
	}
}

// ServeHTTP implements http.Handler
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if m.validator == nil {
		m.handler.ServeHTTP(w, r)
		return
	}

	result := m.validator.ValidateRequest(r)
	if result.Valid || onlyNoRoute(result) {
		m.handler.ServeHTTP(w, r)
		return
	}

	for _, fe := range result.Errors {
		m.logger.Debug("validation: request rejected",
			"method", r.Method, "path", r.URL.Path,
			"code", fe.Code, "field", fe.Field, "message", fe.Message)
	}
	httputil.WriteError(w, http.StatusBadRequest, stateful.KindValidation, result.Message())
}

func onlyNoRoute(result *Result) bool {
	for _, fe := range result.Errors {
		if fe.Code != ErrCodeNoRoute {
			return false
		}
	}
	return len(result.Errors) > 0
}
