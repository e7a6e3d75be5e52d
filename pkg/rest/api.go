package rest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getmockd/castlepact/pkg/logging"
	"github.com/getmockd/castlepact/pkg/relation"
	"github.com/getmockd/castlepact/pkg/stateful"
	"github.com/getmockd/castlepact/pkg/validation"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPIDocument returns the castle API description in YAML.
func OpenAPIDocument() []byte {
	return openAPIDocument
}

// DefaultOldestLimit is used by GET /castles/oldest when no limit is given.
const DefaultOldestLimit = 5

// API is the castle REST surface.
type API struct {
	castles   *stateful.CastleStore
	relations *relation.Service
	logger    *slog.Logger

	validateRequests bool
	validator        *validation.OpenAPIValidator
	specJSON         []byte
}

// Option configures an API.
type Option func(*API)

// WithLogger sets the logger for request and error logging.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithRequestValidation checks requests against the OpenAPI document before
// they reach a handler.
func WithRequestValidation(enabled bool) Option {
	return func(a *API) {
		a.validateRequests = enabled
	}
}

// New creates the castle API. relations supplies the joined and sorted views;
// castles is used for the plain CRUD routes.
func New(castles *stateful.CastleStore, relations *relation.Service, opts ...Option) (*API, error) {
	a := &API{
		castles:   castles,
		relations: relations,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}

	v, err := validation.NewOpenAPIValidator(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("rest: load OpenAPI document: %w", err)
	}
	a.validator = v

	a.specJSON, err = json.Marshal(v.Spec())
	if err != nil {
		return nil, fmt.Errorf("rest: encode OpenAPI document: %w", err)
	}

	return a, nil
}

// Handler returns the HTTP handler serving every castle route.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.registerRoutes(mux)

	if !a.validateRequests {
		return mux
	}
	return validation.NewMiddleware(mux, a.validator, a.logger)
}

// registerRoutes sets up all API routes.
func (a *API) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /castles", a.handleListCastles)
	mux.HandleFunc("POST /castles", a.handleCreateCastle)
	mux.HandleFunc("GET /castles/oldest", a.handleOldestCastles)
	mux.HandleFunc("GET /castles/with-rulers", a.handleCastlesWithRulers)
	mux.HandleFunc("GET /castles/{id}", a.handleGetCastle)
	mux.HandleFunc("DELETE /castles/{id}", a.handleDeleteCastle)
	mux.HandleFunc("GET /castles/{id}/rulers", a.handleCastleRulers)
	mux.HandleFunc("GET /openapi.json", a.handleOpenAPI)
}
