package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/mystery-engine/internal/storage"
	"github.com/jwebster45206/mystery-engine/pkg/casefile"
)

// CasesHandler serves the authored case catalog.
// Routes:
// GET /v1/cases      - List available cases (id -> title)
// GET /v1/cases/{id} - Read one case, with the solution redacted
type CasesHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewCasesHandler(storage storage.Storage, logger *slog.Logger) *CasesHandler {
	return &CasesHandler{
		storage: storage,
		logger:  logger,
	}
}

// CaseView is the player-facing projection of a case. The solution, suspect
// secrets and seeded clues never leave the server.
type CaseView struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Setting      string        `json:"setting"`
	Victim       string        `json:"victim"`
	MurderWeapon string        `json:"murder_weapon"`
	MurderTime   string        `json:"murder_time"`
	Suspects     []SuspectView `json:"suspects"`
}

type SuspectView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji,omitempty"`
	Title string `json:"title"`
	Bio   string `json:"bio,omitempty"`
}

// NewCaseView projects a case for player consumption.
func NewCaseView(c *casefile.Case) CaseView {
	view := CaseView{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Setting:      c.Setting,
		Victim:       c.Victim,
		MurderWeapon: c.MurderWeapon,
		MurderTime:   c.MurderTime,
		Suspects:     make([]SuspectView, 0, len(c.Suspects)),
	}
	for _, s := range c.Suspects {
		view.Suspects = append(view.Suspects, SuspectView{
			ID:    s.ID,
			Name:  s.Name,
			Emoji: s.Emoji,
			Title: s.Title,
			Bio:   s.Bio,
		})
	}
	return view
}

func (h *CasesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET")
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/cases"), "/")
	if id == "" {
		h.handleList(w, r)
		return
	}
	h.handleRead(w, r, id)
}

func (h *CasesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	cases, err := h.storage.ListCases(r.Context())
	if err != nil {
		h.logger.Error("Failed to list cases", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to list cases")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, cases)
}

func (h *CasesHandler) handleRead(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.storage.GetCase(r.Context(), id)
	if err != nil {
		h.logger.Warn("Case not found", "id", id, "error", err)
		writeError(w, h.logger, http.StatusNotFound, "Case not found")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, NewCaseView(c))
}
