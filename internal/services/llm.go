package services

import (
	"context"

	"github.com/jwebster45206/mystery-engine/pkg/chat"
)

// LLMService defines the interface for interacting with the LLM API. The
// engine uses one configured service for dialogue, narration, evidence
// extraction and similarity judgment; tests substitute MockLLM.
type LLMService interface {
	// InitModel prepares the model on startup.
	InitModel(ctx context.Context, modelName string) error

	// GetChatResponse generates a completion for the given messages.
	GetChatResponse(ctx context.Context, messages []chat.Message) (*chat.Response, error)
}
