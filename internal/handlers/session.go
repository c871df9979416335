package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/mystery-engine/internal/engine"
	"github.com/jwebster45206/mystery-engine/internal/storage"
	"github.com/jwebster45206/mystery-engine/pkg/casefile"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
	"github.com/jwebster45206/mystery-engine/pkg/session"
)

// SessionHandler owns the playthrough lifecycle and the two investigation
// actions.
// Routes:
// POST   /v1/sessions                - Create a new session
// GET    /v1/sessions/{id}           - Read session state
// DELETE /v1/sessions/{id}           - Delete a session
// POST   /v1/sessions/{id}/ask       - Question a suspect
// POST   /v1/sessions/{id}/inspect   - Inspect a location or object
// GET    /v1/sessions/{id}/evidence  - Read collected evidence
// POST   /v1/sessions/{id}/solve     - Make the final accusation
type SessionHandler struct {
	storage        storage.Storage
	engine         *engine.Engine
	logger         *slog.Logger
	actionsPerCase int
}

func NewSessionHandler(storage storage.Storage, eng *engine.Engine, logger *slog.Logger, actionsPerCase int) *SessionHandler {
	return &SessionHandler{
		storage:        storage,
		engine:         eng,
		logger:         logger,
		actionsPerCase: actionsPerCase,
	}
}

type CreateSessionRequest struct {
	CaseID string `json:"case_id,omitempty"` // empty selects the active case
}

type AskRequest struct {
	SuspectID string `json:"suspect_id"`
	Question  string `json:"question"`
}

type InspectRequest struct {
	Target string `json:"target"`
}

type SolveRequest struct {
	SuspectID string `json:"suspect_id"`
}

// SolveResponse reveals the solution once the accusation is made.
type SolveResponse struct {
	Solved bool   `json:"solved"`
	Killer string `json:"killer"`
	Motive string `json:"motive"`
	Method string `json:"method"`
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	sessionID, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		h.handleRead(w, r, sessionID)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		h.handleDelete(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "ask" && r.Method == http.MethodPost:
		h.handleAsk(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "inspect" && r.Method == http.MethodPost:
		h.handleInspect(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "evidence" && r.Method == http.MethodGet:
		h.handleEvidence(w, r, sessionID)
	case len(parts) == 2 && parts[1] == "solve" && r.Method == http.MethodPost:
		h.handleSolve(w, r, sessionID)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Not found")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Invalid JSON in request body", "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
	}

	var c *casefile.Case
	var err error
	if req.CaseID == "" {
		c, err = h.storage.GetActiveCase(r.Context())
	} else {
		c, err = h.storage.GetCase(r.Context(), req.CaseID)
	}
	if err != nil {
		h.logger.Warn("Failed to load case", "case_id", req.CaseID, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Failed to load case: "+err.Error())
		return
	}

	s := session.New(c.ID, h.actionsPerCase)
	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to save new session", "error", err, "id", s.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Debug("Session created", "id", s.ID.String(), "case", c.ID)
	writeJSON(w, h.logger, http.StatusCreated, s)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, ok := h.loadSession(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleAsk(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.SuspectID == "" || strings.TrimSpace(req.Question) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "suspect_id and question are required")
		return
	}

	s, ok := h.loadSession(w, r, id)
	if !ok {
		return
	}
	c, ok := h.loadCase(w, r, s)
	if !ok {
		return
	}

	result, err := h.engine.AskQuestion(r.Context(), c, s, req.SuspectID, req.Question)
	if err != nil {
		h.logger.Warn("Ask action rejected", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if !h.saveSession(w, r, s) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

func (h *SessionHandler) handleInspect(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req InspectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.Target) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "target is required")
		return
	}

	s, ok := h.loadSession(w, r, id)
	if !ok {
		return
	}
	c, ok := h.loadCase(w, r, s)
	if !ok {
		return
	}

	result, err := h.engine.Inspect(r.Context(), c, s, req.Target)
	if err != nil {
		h.logger.Warn("Inspect action rejected", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if !h.saveSession(w, r, s) {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, result)
}

// EvidenceResponse lists collected evidence in discovery order.
type EvidenceResponse struct {
	Evidence         []evidence.Record `json:"evidence"`
	Count            int               `json:"count"`
	ActionsRemaining int               `json:"actions_remaining"`
}

func (h *SessionHandler) handleEvidence(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	s, ok := h.loadSession(w, r, id)
	if !ok {
		return
	}

	records := s.Evidence
	if records == nil {
		records = make([]evidence.Record, 0)
	}
	writeJSON(w, h.logger, http.StatusOK, EvidenceResponse{
		Evidence:         records,
		Count:            len(records),
		ActionsRemaining: s.ActionsRemaining,
	})
}

func (h *SessionHandler) handleSolve(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.SuspectID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "suspect_id is required")
		return
	}

	s, ok := h.loadSession(w, r, id)
	if !ok {
		return
	}
	c, ok := h.loadCase(w, r, s)
	if !ok {
		return
	}

	solved, err := h.engine.Solve(c, s, req.SuspectID)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if !h.saveSession(w, r, s) {
		return
	}

	killer := ""
	if k := c.Killer(); k != nil {
		killer = k.Name
	}
	writeJSON(w, h.logger, http.StatusOK, SolveResponse{
		Solved: solved,
		Killer: killer,
		Motive: c.Solution.Motive,
		Method: c.Solution.Method,
	})
}

// loadSession fetches a session and writes the error response itself when it
// cannot. A missing session is 404.
func (h *SessionHandler) loadSession(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*session.State, bool) {
	s, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "id", id.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return nil, false
	}
	if s == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return s, true
}

// loadCase fetches the case a session belongs to. A session referencing a
// missing or invalid case is a server-side data problem, not a client error.
func (h *SessionHandler) loadCase(w http.ResponseWriter, r *http.Request, s *session.State) (*casefile.Case, bool) {
	c, err := h.storage.GetCase(r.Context(), s.CaseID)
	if err != nil {
		h.logger.Error("Failed to load case for session", "error", err,
			"id", s.ID.String(), "case_id", s.CaseID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load case")
		return nil, false
	}
	return c, true
}

func (h *SessionHandler) saveSession(w http.ResponseWriter, r *http.Request, s *session.State) bool {
	if err := h.storage.SaveSession(r.Context(), s); err != nil {
		h.logger.Error("Failed to save session", "error", err, "id", s.ID.String())
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return false
	}
	return true
}
