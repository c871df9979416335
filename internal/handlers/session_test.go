package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mystery-engine/internal/engine"
	"github.com/jwebster45206/mystery-engine/internal/services"
	"github.com/jwebster45206/mystery-engine/internal/storage"
	"github.com/jwebster45206/mystery-engine/pkg/casefile"
	"github.com/jwebster45206/mystery-engine/pkg/chat"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
	"github.com/jwebster45206/mystery-engine/pkg/session"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func testCase() *casefile.Case {
	return &casefile.Case{
		ID:           "vineyard_reunion",
		Title:        "The Vineyard Reunion",
		Description:  "A reunion ends in murder.",
		Setting:      "in the wine cellar at Rosewood Vineyard estate",
		Victim:       "Marcus Thornfield",
		MurderWeapon: "vintage wine bottle",
		MurderTime:   "11:30 PM",
		Active:       true,
		Suspects: []casefile.Suspect{
			{
				ID:          "elena_vasquez",
				Name:        "Elena Vasquez",
				Emoji:       "🎭",
				Title:       "Theater Director",
				Bio:         "Directs a regional theater company",
				Personality: "Confident",
				Background:  "College friend of Marcus",
				Secret:      "Embezzled theater funds",
				Alibi:       "Working on production notes",
			},
			{
				ID:          "david_park",
				Name:        "David Park",
				Emoji:       "💻",
				Title:       "Tech Entrepreneur",
				Bio:         "Runs a struggling startup",
				Personality: "Anxious",
				Background:  "College roommate of Marcus",
				Secret:      "Embezzling investor funds",
				Alibi:       "On the terrace",
			},
		},
		Solution: casefile.Solution{
			Killer: "elena_vasquez",
			Motive: "Blackmail over embezzled funds",
			Method: "Struck with a wine bottle",
		},
	}
}

// testEngine routes extraction prompts to the given envelope and all other
// generation to a fixed utterance.
func testEngine(extraction string) *engine.Engine {
	mock := services.NewMockLLM()
	mock.GetChatResponseFunc = func(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
		if strings.Contains(messages[0].Content, "evidence manager") {
			return &chat.Response{Message: extraction}, nil
		}
		return &chat.Response{Message: "I saw a key on the floor near the racks."}, nil
	}
	return engine.New(engine.Config{
		LLM:    mock,
		Judge:  &evidence.TriggerJudge{},
		Logger: testLogger(),
		Rand:   rand.New(rand.NewSource(1)),
	})
}

func newSessionHandler(extraction string) (*SessionHandler, *storage.MockStorage) {
	ms := storage.NewMockStorage()
	ms.AddCase(testCase())
	return NewSessionHandler(ms, testEngine(extraction), testLogger(), 20), ms
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func seedSession(t *testing.T, ms *storage.MockStorage) *session.State {
	t.Helper()
	s := session.New("vineyard_reunion", 20)
	require.NoError(t, ms.SaveSession(context.Background(), s))
	return s
}

func TestSessionHandler_Create(t *testing.T) {
	h, _ := newSessionHandler("NO_EVIDENCE")

	w := postJSON(t, h, "/v1/sessions", CreateSessionRequest{CaseID: "vineyard_reunion"})
	require.Equal(t, http.StatusCreated, w.Code)

	var s session.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "vineyard_reunion", s.CaseID)
	assert.Equal(t, 20, s.ActionsRemaining)
	assert.NotEqual(t, uuid.Nil, s.ID)
}

func TestSessionHandler_Create_DefaultsToActiveCase(t *testing.T) {
	h, _ := newSessionHandler("NO_EVIDENCE")

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var s session.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, "vineyard_reunion", s.CaseID)
}

func TestSessionHandler_Create_UnknownCase(t *testing.T) {
	h, _ := newSessionHandler("NO_EVIDENCE")
	w := postJSON(t, h, "/v1/sessions", CreateSessionRequest{CaseID: "nonexistent"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	h, _ := newSessionHandler("NO_EVIDENCE")
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSessionHandler_Get(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+s.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got session.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, s.ID, got.ID)
}

func TestSessionHandler_Get_NotFound(t *testing.T) {
	h, _ := newSessionHandler("NO_EVIDENCE")
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Session not found", resp.Error)
}

func TestSessionHandler_Get_InvalidID(t *testing.T) {
	h, _ := newSessionHandler("NO_EVIDENCE")
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Invalid session ID format", resp.Error)
}

func TestSessionHandler_Delete(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	req := httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+s.ID.String(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/sessions/"+s.ID.String(), nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_Ask(t *testing.T) {
	h, ms := newSessionHandler(`{"should_generate": true, "evidence": {"name": "Cellar Key", "marker": "🔑", "description": "Brass key lying near the racks"}}`)
	s := seedSession(t, ms)

	w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/ask", AskRequest{
		SuspectID: "elena_vasquez",
		Question:  "What did you see in the cellar?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var result engine.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "I saw a key on the floor near the racks.", result.Utterance)
	require.NotNil(t, result.Evidence)
	assert.Equal(t, "Cellar Key", result.Evidence.Name)
	assert.Equal(t, 19, result.ActionsRemaining)

	// The mutated session was persisted.
	saved, err := ms.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, 19, saved.ActionsRemaining)
	assert.Len(t, saved.Evidence, 1)
}

func TestSessionHandler_Ask_MissingFields(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	tests := []struct {
		name string
		req  AskRequest
	}{
		{name: "missing suspect", req: AskRequest{Question: "Hello?"}},
		{name: "missing question", req: AskRequest{SuspectID: "elena_vasquez"}},
		{name: "blank question", req: AskRequest{SuspectID: "elena_vasquez", Question: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/ask", tt.req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSessionHandler_Ask_UnknownSuspect(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/ask", AskRequest{
		SuspectID: "nobody",
		Question:  "Hello?",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_Inspect(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/inspect", InspectRequest{Target: "wine cellar"})
	require.Equal(t, http.StatusOK, w.Code)

	var result engine.ActionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.NotEmpty(t, result.Utterance)
	assert.Equal(t, 19, result.ActionsRemaining)
}

func TestSessionHandler_Inspect_MissingTarget(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/inspect", InspectRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler_Evidence(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)
	s.Evidence = []evidence.Record{
		evidence.NewRecord("Cellar Key", "🔑", "Brass key lying near the racks"),
		evidence.NewRecord("Torn Fabric", "👔", "Scarf fragment on the door"),
	}
	require.NoError(t, ms.SaveSession(context.Background(), s))

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+s.ID.String()+"/evidence", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp EvidenceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	require.Len(t, resp.Evidence, 2)
	assert.Equal(t, "Cellar Key", resp.Evidence[0].Name)
	assert.Equal(t, 20, resp.ActionsRemaining)
}

func TestSessionHandler_Evidence_Empty(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+s.ID.String()+"/evidence", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"evidence":[]`)
}

func TestSessionHandler_Solve(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/solve", SolveRequest{SuspectID: "elena_vasquez"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Solved)
	assert.Equal(t, "Elena Vasquez", resp.Killer)
	assert.Equal(t, "Blackmail over embezzled funds", resp.Motive)

	saved, err := ms.LoadSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.True(t, saved.GameOver)
	assert.True(t, saved.Solved)
}

func TestSessionHandler_Solve_WrongSuspect(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/solve", SolveRequest{SuspectID: "david_park"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp SolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Solved)
	assert.Equal(t, "Elena Vasquez", resp.Killer, "the solution is revealed either way")
}

func TestSessionHandler_Solve_MissingSuspect(t *testing.T) {
	h, ms := newSessionHandler("NO_EVIDENCE")
	s := seedSession(t, ms)

	w := postJSON(t, h, "/v1/sessions/"+s.ID.String()+"/solve", SolveRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
