package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/mystery-engine/internal/services"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
)

func TestLLMJudge_EmptyLedgerShortCircuits(t *testing.T) {
	mock := services.NewMockLLM()
	j := NewLLMJudge(mock, testLogger())

	dup, reason, err := j.IsDuplicate(context.Background(),
		evidence.NewRecord("Cellar Key", "🔑", "Brass key on the floor"), nil)

	require.NoError(t, err)
	assert.False(t, dup)
	assert.Empty(t, reason)
	assert.Zero(t, mock.CallCount())
}

func TestLLMJudge_Duplicate(t *testing.T) {
	mock := scriptedLLM(`{"duplicate": true, "reason": "Same key described twice"}`, nil)
	j := NewLLMJudge(mock, testLogger())

	existing := []evidence.Record{
		evidence.NewRecord("Cellar Key", "🔑", "Brass key on the floor"),
	}
	dup, reason, err := j.IsDuplicate(context.Background(),
		evidence.NewRecord("Brass Key", "🗝️", "Key found near the wine racks"), existing)

	require.NoError(t, err)
	assert.True(t, dup)
	assert.Equal(t, "Same key described twice", reason)
	assert.Equal(t, 1, mock.CallCount())
}

func TestLLMJudge_NotDuplicate(t *testing.T) {
	mock := scriptedLLM(`The items are distinct. {"duplicate": false, "reason": ""}`, nil)
	j := NewLLMJudge(mock, testLogger())

	existing := []evidence.Record{
		evidence.NewRecord("Cellar Key", "🔑", "Brass key on the floor"),
	}
	dup, _, err := j.IsDuplicate(context.Background(),
		evidence.NewRecord("Torn Fabric", "👔", "Scarf fragment on the door"), existing)

	require.NoError(t, err)
	assert.False(t, dup)
}

func TestLLMJudge_Errors(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "llm error", err: errors.New("service unavailable")},
		{name: "no json", response: "I believe these are duplicates."},
		{name: "malformed json", response: `{"duplicate": "maybe"}`},
	}

	existing := []evidence.Record{
		evidence.NewRecord("Cellar Key", "🔑", "Brass key on the floor"),
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := NewLLMJudge(scriptedLLM(tt.response, tt.err), testLogger())
			_, _, err := j.IsDuplicate(context.Background(),
				evidence.NewRecord("Brass Key", "🗝️", "Key near the racks"), existing)
			assert.Error(t, err)
		})
	}
}
