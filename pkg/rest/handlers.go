package rest

import (
	"net/http"
	"strconv"

	"github.com/getmockd/castlepact/pkg/httputil"
	"github.com/getmockd/castlepact/pkg/stateful"
	"github.com/getmockd/castlepact/pkg/validation"
)

// handleListCastles lists castles, filtered by ?region= when present.
func (a *API) handleListCastles(w http.ResponseWriter, r *http.Request) {
	if region := r.URL.Query().Get("region"); region != "" {
		httputil.WriteOK(w, a.relations.CastlesByRegion(region))
		return
	}
	httputil.WriteOK(w, a.castles.List())
}

func (a *API) handleGetCastle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	castle, ok := a.castles.Get(id)
	if !ok {
		a.writeError(w, r, &stateful.NotFoundError{Entity: stateful.EntityCastle, ID: id})
		return
	}
	httputil.WriteOK(w, castle)
}

func (a *API) handleCreateCastle(w http.ResponseWriter, r *http.Request) {
	var in stateful.CastleInput
	if err := httputil.DecodeJSON(r, &in); err != nil {
		a.writeError(w, r, &stateful.ValidationError{Message: err.Error()})
		return
	}
	if err := validation.ValidateCastleInput(in); err != nil {
		a.writeError(w, r, err)
		return
	}

	castle := a.castles.Create(in)
	a.logger.Info("castle created", "castle_id", castle.ID, "name", castle.Name)
	httputil.WriteCreated(w, castle)
}

func (a *API) handleDeleteCastle(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !a.castles.Delete(id) {
		a.writeError(w, r, &stateful.NotFoundError{Entity: stateful.EntityCastle, ID: id})
		return
	}
	a.logger.Info("castle deleted", "castle_id", id)
	httputil.WriteNoContent(w)
}

func (a *API) handleOldestCastles(w http.ResponseWriter, r *http.Request) {
	limit := DefaultOldestLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			a.writeError(w, r, &stateful.ValidationError{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		limit = n
	}
	httputil.WriteOK(w, a.relations.OldestCastles(limit))
}

func (a *API) handleCastlesWithRulers(w http.ResponseWriter, r *http.Request) {
	httputil.WriteOK(w, a.relations.AllCastlesWithRulers(r.Context()))
}

func (a *API) handleCastleRulers(w http.ResponseWriter, r *http.Request) {
	joined, err := a.relations.CastleWithRulers(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	httputil.WriteOK(w, joined.Rulers)
}

func (a *API) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(a.specJSON)
}

// writeError writes err as {"error", "message"}. Server-side failures are
// logged; client errors are not.
func (a *API) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if stateful.StatusCode(err) >= http.StatusInternalServerError {
		a.logger.ErrorContext(r.Context(), "castle request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	httputil.WriteDomainError(w, err)
}
