package fixture

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getmockd/castlepact/pkg/httputil"
	"github.com/getmockd/castlepact/pkg/logging"
	"github.com/getmockd/castlepact/pkg/stateful"
)

// HarnessPrefix is where the provider-state endpoints are mounted.
const HarnessPrefix = "/_fixtures"

// SetupRequest is the body of POST /_fixtures/setup.
type SetupRequest struct {
	// State names the provider state being prepared. It is logged only.
	State string `json:"state,omitempty"`
	// Document, when present, replaces the installed fixture. It is checked
	// against the fixture schema like a file would be.
	Document json.RawMessage `json:"document,omitempty"`
}

// SetupResponse is returned by POST /_fixtures/setup.
type SetupResponse struct {
	State   string  `json:"state,omitempty"`
	Fixture Summary `json:"fixture"`
	Castles int     `json:"castles"`
	Rulers  int     `json:"rulers"`
}

// Harness serves the provider-state hooks used between verification
// scenarios.
type Harness struct {
	loader *Loader
	logger *slog.Logger
}

// NewHarness creates a Harness around loader.
func NewHarness(loader *Loader, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Harness{loader: loader, logger: logger}
}

// Register mounts the harness routes on mux.
func (h *Harness) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST "+HarnessPrefix+"/setup", h.handleSetup)
	mux.HandleFunc("POST "+HarnessPrefix+"/reset", h.handleReset)
	mux.HandleFunc("GET "+HarnessPrefix+"/state", h.handleState)
}

// Wrap returns a handler that serves the harness routes and passes every
// other request to next.
func (h *Harness) Wrap(next http.Handler) http.Handler {
	mux := http.NewServeMux()
	h.Register(mux)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, HarnessPrefix+"/") {
			mux.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Harness) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req SetupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteBadRequest(w, stateful.KindValidation, err.Error())
		return
	}

	var (
		summary Summary
		err     error
	)
	inline := len(req.Document) > 0 && string(req.Document) != "null"
	if inline {
		var doc *Document
		doc, err = Parse(req.Document)
		if err == nil {
			summary, err = h.loader.Apply(doc)
		}
		if err != nil {
			httputil.WriteBadRequest(w, stateful.KindValidation, err.Error())
			return
		}
	} else {
		h.loader.Reset()
		summary = h.loader.State().Fixture
	}

	h.logger.Info("provider state prepared", "state", req.State, "inline", inline)

	st := h.loader.State()
	httputil.WriteOK(w, SetupResponse{
		State:   req.State,
		Fixture: summary,
		Castles: st.Castles,
		Rulers:  st.Rulers,
	})
}

func (h *Harness) handleReset(w http.ResponseWriter, _ *http.Request) {
	h.loader.Reset()
	httputil.WriteOK(w, h.loader.State())
}

func (h *Harness) handleState(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteOK(w, h.loader.State())
}
