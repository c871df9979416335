package session

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mystery-engine/pkg/chat"
)

func TestNew(t *testing.T) {
	s := New("vineyard_reunion", 20)

	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, "vineyard_reunion", s.CaseID)
	assert.Equal(t, 20, s.ActionsRemaining)
	assert.Equal(t, 20, s.TotalActions)
	assert.Empty(t, s.Evidence)
	assert.False(t, s.GameOver)
	assert.False(t, s.Solved)
}

func TestNew_DefaultActions(t *testing.T) {
	s := New("vineyard_reunion", 0)
	assert.Equal(t, DefaultActions, s.TotalActions)
	assert.Equal(t, DefaultActions, s.ActionsRemaining)
}

func TestState_SpendAction(t *testing.T) {
	s := New("vineyard_reunion", 3)

	s.SpendAction()
	assert.Equal(t, 2, s.ActionsRemaining)
	assert.False(t, s.GameOver)

	s.SpendAction()
	s.SpendAction()
	assert.Equal(t, 0, s.ActionsRemaining)
	assert.True(t, s.GameOver)

	// The budget never goes negative.
	s.SpendAction()
	assert.Equal(t, 0, s.ActionsRemaining)
	assert.True(t, s.GameOver)
}

func TestState_ChatLogs(t *testing.T) {
	s := New("vineyard_reunion", 20)

	s.AppendChat("elena_vasquez",
		chat.Message{Role: chat.RoleUser, Content: "Where were you?"},
		chat.Message{Role: chat.RoleAgent, Content: "Working on my notes."},
	)
	s.AppendChat("david_park",
		chat.Message{Role: chat.RoleUser, Content: "What did you see?"},
	)

	require.Len(t, s.ChatLog("elena_vasquez"), 2)
	require.Len(t, s.ChatLog("david_park"), 1)
	assert.Empty(t, s.ChatLog("victor_rothwell"))
	assert.Equal(t, "Working on my notes.", s.ChatLog("elena_vasquez")[1].Content)
}

func TestState_AppendChatInitializesMap(t *testing.T) {
	s := &State{}
	s.AppendChat("x", chat.Message{Role: chat.RoleUser, Content: "hello"})
	assert.Len(t, s.ChatLog("x"), 1)
}

func TestState_InspectLog(t *testing.T) {
	s := New("vineyard_reunion", 20)
	s.AppendInspect(
		chat.Message{Role: chat.RoleUser, Content: "wine cellar"},
		chat.Message{Role: chat.RoleAgent, Content: "Racks of dusty bottles line the walls."},
	)
	assert.Len(t, s.InspectLog, 2)
}
