// Package session holds the mutable state of one playthrough: the action
// budget, the collected evidence, and the interaction logs. One session is
// owned by one player and processed one action at a time.
package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/mystery-engine/pkg/chat"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
)

// DefaultActions is the action budget for a new session.
const DefaultActions = 20

// State is the serializable per-playthrough state stored in Redis.
type State struct {
	ID               uuid.UUID                 `json:"id"`
	CaseID           string                    `json:"case_id"`
	ActionsRemaining int                       `json:"actions_remaining"`
	TotalActions     int                       `json:"total_actions"`
	Evidence         []evidence.Record         `json:"evidence"`
	ChatLogs         map[string][]chat.Message `json:"chat_logs,omitempty"` // keyed by suspect ID
	InspectLog       []chat.Message            `json:"inspect_log,omitempty"`
	Solved           bool                      `json:"solved"`
	GameOver         bool                      `json:"game_over"`
	CreatedAt        time.Time                 `json:"created_at"`
	UpdatedAt        time.Time                 `json:"updated_at"`
}

// New creates a fresh session for a case with a full action budget and an
// empty ledger.
func New(caseID string, totalActions int) *State {
	if totalActions <= 0 {
		totalActions = DefaultActions
	}
	now := time.Now()
	return &State{
		ID:               uuid.New(),
		CaseID:           caseID,
		ActionsRemaining: totalActions,
		TotalActions:     totalActions,
		Evidence:         make([]evidence.Record, 0),
		ChatLogs:         make(map[string][]chat.Message),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ChatLog returns the conversation history with one suspect.
func (s *State) ChatLog(suspectID string) []chat.Message {
	if s.ChatLogs == nil {
		return nil
	}
	return s.ChatLogs[suspectID]
}

// AppendChat records messages in the conversation with one suspect.
func (s *State) AppendChat(suspectID string, msgs ...chat.Message) {
	if s.ChatLogs == nil {
		s.ChatLogs = make(map[string][]chat.Message)
	}
	s.ChatLogs[suspectID] = append(s.ChatLogs[suspectID], msgs...)
}

// AppendInspect records messages in the investigation log.
func (s *State) AppendInspect(msgs ...chat.Message) {
	s.InspectLog = append(s.InspectLog, msgs...)
}

// SpendAction decrements the budget by exactly one, never below zero, and
// flips GameOver when the budget runs out.
func (s *State) SpendAction() {
	if s.ActionsRemaining > 0 {
		s.ActionsRemaining--
	}
	if s.ActionsRemaining == 0 {
		s.GameOver = true
	}
}
