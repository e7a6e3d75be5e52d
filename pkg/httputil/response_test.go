package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/castlepact/pkg/stateful"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var result map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	t.Run("writes JSON with correct content type", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusOK, map[string]string{"foo": "bar"})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "bar", decodeBody(t, rec)["foo"])
	})

	t.Run("handles nil data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()

		WriteJSON(rec, http.StatusNoContent, nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestWriteError(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()

	WriteError(rec, http.StatusBadRequest, "invalid_input", "Name is required")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "invalid_input", body["error"])
	assert.Equal(t, "Name is required", body["message"])
}

func TestWriteDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantHint   string
	}{
		{
			name:       "not found",
			err:        &stateful.NotFoundError{Entity: "castle", ID: "c99"},
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
			wantHint:   "GET /castles lists the castle IDs that exist.",
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("create castle: %w", &stateful.ValidationError{Field: "yearBuilt", Message: "must be at least 1000"}),
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
			wantHint:   `Correct "yearBuilt" and resend the request.`,
		},
		{
			name:       "validation without field",
			err:        &stateful.ValidationError{Message: "body is required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "validation_error",
		},
		{
			name:       "plain error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()

			WriteDomainError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantCode, body["error"])
			assert.Equal(t, tt.err.Error(), body["message"])
			hint, ok := body["hint"]
			assert.Equal(t, tt.wantHint != "", ok)
			assert.Equal(t, tt.wantHint, hint)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes a single object", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Chambord"}`))
		var dst struct{ Name string }

		require.NoError(t, DecodeJSON(req, &dst))
		assert.Equal(t, "Chambord", dst.Name)
	})

	t.Run("rejects trailing data", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
		var dst struct{ Name string }

		assert.Error(t, DecodeJSON(req, &dst))
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		var dst struct{ Name string }

		assert.Error(t, DecodeJSON(req, &dst))
	})
}

func TestWriteHelpers(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteNoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	WriteCreated(rec, map[string]string{"id": "c8"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "c8", decodeBody(t, rec)["id"])

	rec = httptest.NewRecorder()
	WriteOK(rec, map[string]string{"id": "c1"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	WriteBadRequest(rec, "validation_error", "bad body")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_error", decodeBody(t, rec)["error"])

	rec = httptest.NewRecorder()
	WriteNotFound(rec, "no such route")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrCodeNotFound, decodeBody(t, rec)["error"])
}
