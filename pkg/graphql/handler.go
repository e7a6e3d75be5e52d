package graphql

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/getmockd/castlepact/pkg/logging"
)

// MaxRequestBodySize is the maximum allowed request body size (1MB).
const MaxRequestBodySize = 1 << 20

// Handler handles GraphQL HTTP requests.
type Handler struct {
	executor *Executor
	config   *GraphQLConfig
	logger   *slog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithLogger sets the logger used for per-request logging.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a new GraphQL HTTP handler.
func NewHandler(executor *Executor, config *GraphQLConfig, opts ...HandlerOption) *Handler {
	if config == nil {
		config = &GraphQLConfig{Path: DefaultPath}
	}
	h := &Handler{
		executor: executor,
		config:   config,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Pattern returns the URL pattern this handler serves.
func (h *Handler) Pattern() string {
	if h.config.Path == "" {
		return DefaultPath
	}
	return h.config.Path
}

// ServeHTTP handles GET and POST requests. POST bodies may be
// application/json or application/graphql. Mutations are rejected over GET.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET, POST")
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req *GraphQLRequest
	var err error
	if r.Method == http.MethodGet {
		req, err = h.parseGetRequest(r)
	} else {
		req, err = h.parsePostRequest(r)
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		h.logRequest(r, startTime, req, "", http.StatusBadRequest, nil)
		return
	}

	op := requestedOperation(req)
	if r.Method == http.MethodGet && op == ast.Mutation {
		w.Header().Set("Allow", "POST")
		h.writeError(w, http.StatusMethodNotAllowed, "mutations must use POST")
		h.logRequest(r, startTime, req, op, http.StatusMethodNotAllowed, nil)
		return
	}

	resp := h.executor.Execute(r.Context(), req)
	h.writeResponse(w, resp)
	h.logRequest(r, startTime, req, op, http.StatusOK, resp)
}

// parseGetRequest parses a GraphQL request from GET query parameters.
func (h *Handler) parseGetRequest(r *http.Request) (*GraphQLRequest, error) {
	query := r.URL.Query()

	req := &GraphQLRequest{
		Query:         query.Get("query"),
		OperationName: query.Get("operationName"),
	}

	if varsStr := query.Get("variables"); varsStr != "" {
		var variables map[string]any
		if err := json.Unmarshal([]byte(varsStr), &variables); err != nil {
			return nil, &parseError{message: "invalid variables JSON"}
		}
		req.Variables = variables
	}

	return req, nil
}

// parsePostRequest parses a GraphQL request from a POST body.
func (h *Handler) parsePostRequest(r *http.Request) (*GraphQLRequest, error) {
	contentType := r.Header.Get("Content-Type")

	body, err := io.ReadAll(io.LimitReader(r.Body, MaxRequestBodySize))
	if err != nil {
		return nil, &parseError{message: "failed to read request body"}
	}
	defer func() { _ = r.Body.Close() }()

	if len(body) == 0 {
		return nil, &parseError{message: "empty request body"}
	}

	if strings.HasPrefix(contentType, "application/graphql") {
		return &GraphQLRequest{Query: string(body)}, nil
	}

	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &parseError{message: "invalid JSON request body"}
	}

	return &req, nil
}

// writeError writes a transport-level error response.
func (h *Handler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(&GraphQLResponse{
		Errors: []GraphQLError{{Message: message}},
	})
}

func (h *Handler) writeResponse(w http.ResponseWriter, resp *GraphQLResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) logRequest(r *http.Request, startTime time.Time, req *GraphQLRequest, op ast.Operation, status int, resp *GraphQLResponse) {
	attrs := []any{
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration", time.Since(startTime),
	}
	if req != nil {
		if op != "" {
			attrs = append(attrs, "operation", string(op))
		}
		if req.OperationName != "" {
			attrs = append(attrs, "operation_name", req.OperationName)
		}
	}
	if resp != nil && len(resp.Errors) > 0 {
		attrs = append(attrs, "errors", len(resp.Errors), "first_error", resp.Errors[0].Message)
	}
	h.logger.DebugContext(r.Context(), "graphql request", attrs...)
}

// requestedOperation reports the type of the operation the executor would
// run for req, selected by operationName the same way. It returns "" when the
// document does not parse or names no single operation.
func requestedOperation(req *GraphQLRequest) ast.Operation {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query", Input: req.Query})
	if err != nil {
		return ""
	}
	op, gqlErr := selectOperation(doc, req.OperationName)
	if gqlErr != nil {
		return ""
	}
	return op.Operation
}

// parseError represents a request parsing error.
type parseError struct {
	message string
}

func (e *parseError) Error() string {
	return e.message
}
