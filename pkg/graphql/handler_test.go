package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/getmockd/castlepact/pkg/logging"
	"github.com/getmockd/castlepact/pkg/stateful"
)

func newRulerHandler(t *testing.T, logs *bytes.Buffer) *Handler {
	t.Helper()
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Format: logging.FormatJSON, Output: logs})
	h, err := NewRulerEndpoint(stateful.NewRulerStore(), &GraphQLConfig{Path: "/graphql"}, WithLogger(logger))
	require.NoError(t, err)
	return h
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandler_Pattern(t *testing.T) {
	assert.Equal(t, "/graphql", NewHandler(nil, nil).Pattern())
	assert.Equal(t, "/api/gql", NewHandler(nil, &GraphQLConfig{Path: "/api/gql"}).Pattern())
}

func TestHandler_PostJSON(t *testing.T) {
	var logs bytes.Buffer
	h := newRulerHandler(t, &logs)

	body := `{"query":"query One($id: ID!) { getRuler(id: $id) { name } }","variables":{"id":"r1"},"operationName":"One"}`
	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	out := decodeResponse(t, rec)
	assert.Equal(t, map[string]any{"getRuler": map[string]any{"name": "Louis XIV"}}, out["data"])
	assert.Contains(t, logs.String(), `"msg":"graphql request"`)
	assert.Contains(t, logs.String(), `"operation_name":"One"`)
}

func TestHandler_PostGraphQLBody(t *testing.T) {
	h := newRulerHandler(t, &bytes.Buffer{})

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{ getRulersByHouse(house: "wittels") { id } }`))
	req.Header.Set("Content-Type", "application/graphql")
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	out := decodeResponse(t, rec)
	assert.Equal(t, map[string]any{"getRulersByHouse": []any{map[string]any{"id": "r5"}}}, out["data"])
}

func TestHandler_Get(t *testing.T) {
	h := newRulerHandler(t, &bytes.Buffer{})

	t.Run("query", func(t *testing.T) {
		q := url.Values{}
		q.Set("query", `query ($c: ID!) { getRulersByCastle(castleId: $c) { id } }`)
		q.Set("variables", `{"c":"c7"}`)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeResponse(t, rec)
		assert.Equal(t, map[string]any{"getRulersByCastle": []any{map[string]any{"id": "r6"}}}, out["data"])
	})

	t.Run("mutation rejected", func(t *testing.T) {
		q := url.Values{}
		q.Set("query", `mutation { deleteRuler(id: "r1") }`)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("named mutation after a query rejected", func(t *testing.T) {
		q := url.Values{}
		q.Set("query", `query Q { listRulers { id } } mutation M { deleteRuler(id: "r1") }`)
		q.Set("operationName", "M")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "POST", rec.Header().Get("Allow"))

		q.Set("query", `{ getRuler(id: "r1") { id } }`)
		q.Del("operationName")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))
		out := decodeResponse(t, rec)
		assert.Equal(t, map[string]any{"getRuler": map[string]any{"id": "r1"}}, out["data"])
	})

	t.Run("named query beside a mutation", func(t *testing.T) {
		q := url.Values{}
		q.Set("query", `query Q { getRuler(id: "r3") { name } } mutation M { deleteRuler(id: "r3") }`)
		q.Set("operationName", "Q")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?"+q.Encode(), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		out := decodeResponse(t, rec)
		assert.Equal(t, map[string]any{"getRuler": map[string]any{"name": "Henri IV"}}, out["data"])
	})

	t.Run("bad variables", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/graphql?query=%7B+listRulers+%7B+id+%7D+%7D&variables=%7Bnope", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_BadRequests(t *testing.T) {
	h := newRulerHandler(t, &bytes.Buffer{})

	tests := []struct {
		name   string
		method string
		body   string
		status int
	}{
		{"empty body", http.MethodPost, "", http.StatusBadRequest},
		{"invalid json", http.MethodPost, "{", http.StatusBadRequest},
		{"wrong method", http.MethodPut, `{"query":"{ listRulers { id } }"}`, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/graphql", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			out := decodeResponse(t, rec)
			assert.NotEmpty(t, out["errors"])
		})
	}
}

func TestHandler_FieldErrorsStay200(t *testing.T) {
	h := newRulerHandler(t, &bytes.Buffer{})

	req := httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ getRuler(id: \"missing\") { id } }"}`))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	out := decodeResponse(t, rec)
	errs := out["errors"].([]any)
	require.Len(t, errs, 1)
	ext := errs[0].(map[string]any)["extensions"].(map[string]any)
	assert.Equal(t, CodeNotFound, ext["code"])
	assert.Equal(t, "The listRulers query returns the ruler IDs that exist.", ext["hint"])
}

func TestRequestedOperation(t *testing.T) {
	tests := []struct {
		query string
		name  string
		want  ast.Operation
	}{
		{`{ listRulers { id } }`, "", ast.Query},
		{`query Q { listRulers { id } }`, "", ast.Query},
		{`mutation { deleteRuler(id: "r1") }`, "", ast.Mutation},
		{"# leading comment\nmutation M { deleteRuler(id: \"r1\") }", "", ast.Mutation},
		{`query Q { listRulers { id } } mutation M { deleteRuler(id: "r1") }`, "M", ast.Mutation},
		{`query Q { listRulers { id } } mutation M { deleteRuler(id: "r1") }`, "Q", ast.Query},
		{`query Q { listRulers { id } } mutation M { deleteRuler(id: "r1") }`, "", ""},
		{`{ listRulers { id `, "", ""},
	}
	for _, tt := range tests {
		got := requestedOperation(&GraphQLRequest{Query: tt.query, OperationName: tt.name})
		assert.Equal(t, tt.want, got, "%s (operationName=%q)", tt.query, tt.name)
	}
}
