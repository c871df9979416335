package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mystery-engine/internal/storage"
)

func newCasesHandler() *CasesHandler {
	ms := storage.NewMockStorage()
	ms.AddCase(testCase())
	return NewCasesHandler(ms, testLogger())
}

func TestCasesHandler_List(t *testing.T) {
	h := newCasesHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/cases", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var cases map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cases))
	assert.Equal(t, "The Vineyard Reunion", cases["vineyard_reunion"])
}

func TestCasesHandler_Get(t *testing.T) {
	h := newCasesHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/cases/vineyard_reunion", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var view CaseView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "vineyard_reunion", view.ID)
	assert.Equal(t, "Marcus Thornfield", view.Victim)
	require.Len(t, view.Suspects, 2)
	assert.Equal(t, "Elena Vasquez", view.Suspects[0].Name)
	assert.Equal(t, "🎭", view.Suspects[0].Emoji)
}

func TestCasesHandler_Get_RedactsSolution(t *testing.T) {
	h := newCasesHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/cases/vineyard_reunion", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, "Blackmail", "motive stays server-side")
	assert.NotContains(t, body, "Embezzled theater funds", "secrets stay server-side")
	assert.NotContains(t, body, "Working on production notes", "alibis stay server-side")
	assert.NotContains(t, body, "solution")
}

func TestCasesHandler_Get_NotFound(t *testing.T) {
	h := newCasesHandler()

	req := httptest.NewRequest(http.MethodGet, "/v1/cases/nonexistent", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCasesHandler_MethodNotAllowed(t *testing.T) {
	h := newCasesHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/cases", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
