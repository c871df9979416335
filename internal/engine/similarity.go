package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jwebster45206/mystery-engine/internal/services"
	"github.com/jwebster45206/mystery-engine/pkg/casefile"
	"github.com/jwebster45206/mystery-engine/pkg/chat"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
)

// similarityTimeout bounds one judgment call. The guard rejects on timeout,
// so a slow model costs one proposal, not the whole action.
const similarityTimeout = 10 * time.Second

// LLMJudge asks the model whether a proposal is conceptually the same clue
// as something already collected. It implements evidence.SimilarityJudge.
type LLMJudge struct {
	llm    services.LLMService
	logger *slog.Logger
}

var _ evidence.SimilarityJudge = (*LLMJudge)(nil)

func NewLLMJudge(llm services.LLMService, logger *slog.Logger) *LLMJudge {
	return &LLMJudge{llm: llm, logger: logger}
}

type similarityVerdict struct {
	Duplicate bool   `json:"duplicate"`
	Reason    string `json:"reason"`
}

func (j *LLMJudge) IsDuplicate(ctx context.Context, proposal evidence.Record, existing []evidence.Record) (bool, string, error) {
	if len(existing) == 0 {
		return false, "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, similarityTimeout)
	defer cancel()

	resp, err := j.llm.GetChatResponse(ctx, []chat.Message{
		{Role: chat.RoleSystem, Content: casefile.SimilarityPrompt(proposal, existing)},
	})
	if err != nil {
		return false, "", fmt.Errorf("similarity call failed: %w", err)
	}

	jsonStr, ok := extractJSON(strings.TrimSpace(resp.Message))
	if !ok {
		return false, "", fmt.Errorf("no JSON in similarity response: %q", resp.Message)
	}

	var verdict similarityVerdict
	if err := json.Unmarshal([]byte(jsonStr), &verdict); err != nil {
		return false, "", fmt.Errorf("malformed similarity response: %w", err)
	}

	if verdict.Duplicate {
		j.logger.Debug("similarity judge flagged duplicate",
			"name", proposal.Name, "reason", verdict.Reason)
	}
	return verdict.Duplicate, verdict.Reason, nil
}
