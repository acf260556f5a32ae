package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/reclass/pkg/errors"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	OK(w, map[string]int{"count": 42})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	resp := decode(t, w)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"count": float64(42)}, resp.Data)
}

func TestCreated(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, map[string]string{"id": "x"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestFail(t *testing.T) {
	resp := Fail("TEST_ERROR", "Test error message", "Additional details")
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TEST_ERROR", resp.Error.Code)
	assert.Equal(t, "Test error message", resp.Error.Message)
	assert.Equal(t, "Additional details", resp.Error.Details)
}

func TestErrorFromType(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", errors.NewValidationError("category", "", "must not be blank"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found", errors.NewNotFoundError("record", "9"), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("lookup: %w", errors.NewNotFoundError("session", "x")), http.StatusNotFound, "NOT_FOUND"},
		{"all complete", errors.ErrAllComplete, http.StatusConflict, "ALL_COMPLETE"},
		{"session ended", errors.ErrSessionEnded, http.StatusGone, "SESSION_ENDED"},
		{"persistence", errors.NewPersistenceError("append", "responses.csv", errors.New("disk full")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"load", errors.NewLoadError("master", "m.csv", "missing", nil), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			ErrorFromType(w, tt.err)
			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestValidationDetailsNameField(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorFromType(w, errors.NewValidationError("type", "Storage", "not offered for A"))
	resp := decode(t, w)
	assert.Equal(t, "type", resp.Error.Details)
}

func TestInternalErrorHidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	InternalError(w, errors.New("secret path /var/data"))
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestMethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	MethodNotAllowed(w, http.MethodPatch)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, decode(t, w).Error.Details, "PATCH")
}
