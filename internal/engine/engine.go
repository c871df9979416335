// Package engine orchestrates one investigation action at a time: generate
// the in-world utterance, run evidence extraction over it, gate the proposal
// through the duplicate guard, and spend the action. Generation and
// extraction are fail-soft; the action budget and the ledger are the only
// state an action mutates.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/jwebster45206/mystery-engine/internal/services"
	"github.com/jwebster45206/mystery-engine/pkg/casefile"
	"github.com/jwebster45206/mystery-engine/pkg/chat"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
	"github.com/jwebster45206/mystery-engine/pkg/session"
)

// generationTimeout bounds one utterance generation call.
const generationTimeout = 30 * time.Second

// Fallback lines used when generation fails. The action still costs one
// point and the ledger is untouched.
var suspectFallbacks = []string{
	"I... give me a moment. Ask me that again.",
	"I don't know what you want me to say about that.",
	"I've told you everything I know. Please, ask someone else.",
}

const inspectFallback = "You examine the area carefully but find nothing particularly noteworthy."

// Config wires an Engine.
type Config struct {
	LLM        services.LLMService
	Judge      evidence.SimilarityJudge // nil selects the LLM judge
	Logger     *slog.Logger
	BiasWeight float64 // probability an action is framed toward killer evidence
	Capacity   int     // ledger capacity, 0 selects the default
	Rand       *rand.Rand
}

// Engine runs investigation actions against a loaded case and session.
type Engine struct {
	llm        services.LLMService
	extractor  *Extractor
	guard      *evidence.Guard
	categories evidence.CategoryMap
	logger     *slog.Logger
	biasWeight float64
	capacity   int
	rand       *rand.Rand
}

func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	judge := cfg.Judge
	if judge == nil {
		judge = NewLLMJudge(cfg.LLM, logger)
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = evidence.DefaultCapacity
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	categories := evidence.DefaultCategories()

	return &Engine{
		llm:        cfg.LLM,
		extractor:  NewExtractor(cfg.LLM, logger),
		guard:      evidence.NewGuard(categories, judge, logger),
		categories: categories,
		logger:     logger,
		biasWeight: cfg.BiasWeight,
		capacity:   capacity,
		rand:       rng,
	}
}

// ActionResult is what one investigation action produced.
type ActionResult struct {
	Utterance        string           `json:"utterance"`
	Evidence         *evidence.Record `json:"evidence,omitempty"` // set only when a new record was accepted
	ActionsRemaining int              `json:"actions_remaining"`
	GameOver         bool             `json:"game_over"`
}

// AskQuestion plays one interrogation action: the named suspect answers the
// question, and the answer is mined for evidence. Returns an error only for
// an unknown suspect; generation and extraction failures degrade to a
// fallback utterance with no ledger change.
func (e *Engine) AskQuestion(ctx context.Context, c *casefile.Case, s *session.State, suspectID, question string) (*ActionResult, error) {
	if s.ActionsRemaining <= 0 {
		return &ActionResult{GameOver: true}, nil
	}

	suspect, err := c.Suspect(suspectID)
	if err != nil {
		return nil, fmt.Errorf("ask question: %w", err)
	}

	pressure := casefile.PressureScore(suspect, s.Evidence)
	prompt := casefile.SuspectPrompt(c, suspect, s.Evidence, pressure, s.ActionsRemaining, s.TotalActions)

	history := s.ChatLog(suspectID)
	msgs := make([]chat.Message, 0, len(history)+2)
	msgs = append(msgs, chat.Message{Role: chat.RoleSystem, Content: prompt})
	msgs = append(msgs, chat.Tail(history, historyTurns)...)
	msgs = append(msgs, chat.Message{Role: chat.RoleUser, Content: question})

	utterance, generated := e.generate(ctx, msgs)
	if !generated {
		utterance = suspectFallbacks[e.rand.Intn(len(suspectFallbacks))]
	}

	var accepted *evidence.Record
	if generated {
		accepted = e.discover(ctx, c, s, question, utterance, suspect.Name, history)
	}

	s.AppendChat(suspectID,
		chat.Message{Role: chat.RoleUser, Content: question},
		chat.Message{Role: chat.RoleAgent, Content: utterance},
	)
	s.SpendAction()

	return &ActionResult{
		Utterance:        utterance,
		Evidence:         accepted,
		ActionsRemaining: s.ActionsRemaining,
		GameOver:         s.GameOver,
	}, nil
}

// Inspect plays one inspection action: the narrator describes the target,
// and the description is mined for evidence.
func (e *Engine) Inspect(ctx context.Context, c *casefile.Case, s *session.State, target string) (*ActionResult, error) {
	if s.ActionsRemaining <= 0 {
		return &ActionResult{GameOver: true}, nil
	}

	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("inspect: target cannot be empty")
	}

	prompt := casefile.NarratorPrompt(c, target, len(s.Evidence), s.ActionsRemaining)
	msgs := []chat.Message{
		{Role: chat.RoleSystem, Content: prompt},
		{Role: chat.RoleUser, Content: "Inspect: " + target},
	}

	utterance, generated := e.generate(ctx, msgs)
	if !generated {
		utterance = inspectFallback
	}

	var accepted *evidence.Record
	if generated {
		accepted = e.discover(ctx, c, s, target, utterance, "Investigation", s.InspectLog)
	}

	s.AppendInspect(
		chat.Message{Role: chat.RoleUser, Content: target},
		chat.Message{Role: chat.RoleAgent, Content: utterance},
	)
	s.SpendAction()

	return &ActionResult{
		Utterance:        utterance,
		Evidence:         accepted,
		ActionsRemaining: s.ActionsRemaining,
		GameOver:         s.GameOver,
	}, nil
}

// Solve resolves a final accusation. The session ends either way; Solved
// records whether the player named the killer.
func (e *Engine) Solve(c *casefile.Case, s *session.State, suspectID string) (bool, error) {
	if _, err := c.Suspect(suspectID); err != nil {
		return false, fmt.Errorf("solve: %w", err)
	}
	s.Solved = c.CheckAccusation(suspectID)
	s.GameOver = true
	return s.Solved, nil
}

// historyTurns is how many prior messages ride along with a new question.
const historyTurns = 8

// generate produces one utterance. The bool reports whether the model
// actually answered; callers substitute a fallback when it did not.
func (e *Engine) generate(ctx context.Context, msgs []chat.Message) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, generationTimeout)
	defer cancel()

	resp, err := e.llm.GetChatResponse(ctx, msgs)
	if err != nil {
		e.logger.Warn("utterance generation failed", "error", err)
		return "", false
	}
	utterance := strings.TrimSpace(resp.Message)
	if utterance == "" {
		e.logger.Warn("utterance generation returned empty response")
		return "", false
	}
	return utterance, true
}

// discover runs extraction and the guard over one utterance and, on
// acceptance, commits the record to the session. Returns nil when nothing
// was added.
func (e *Engine) discover(ctx context.Context, c *casefile.Case, s *session.State, playerInput, utterance, speaker string, history []chat.Message) *evidence.Record {
	ledger := evidence.NewLedgerFrom(e.capacity, e.categories, s.Evidence)

	proposal := e.extractor.Extract(ctx, ExtractionInput{
		Case:             c,
		PlayerInput:      playerInput,
		Utterance:        utterance,
		Speaker:          speaker,
		Ledger:           ledger,
		History:          history,
		ActionsRemaining: s.ActionsRemaining,
		TotalActions:     s.TotalActions,
		Bias:             e.drawBias(c),
	})
	if proposal == nil {
		return nil
	}

	verdict := e.guard.Check(ctx, *proposal, ledger)
	if !verdict.Accepted {
		e.logger.Info("evidence proposal rejected",
			"name", proposal.Name, "reason", verdict.Reason)
		return nil
	}

	if err := ledger.Append(verdict.Record); err != nil {
		e.logger.Warn("ledger append failed after acceptance",
			"name", verdict.Record.Name, "error", err)
		return nil
	}
	s.Evidence = ledger.Records()

	e.logger.Info("evidence collected",
		"name", verdict.Record.Name,
		"marker", verdict.Record.Marker,
		"total", len(s.Evidence))
	return &verdict.Record
}

// drawBias picks the framing for one action: with probability biasWeight
// the extraction prompt favors killer evidence, otherwise red herrings.
func (e *Engine) drawBias(c *casefile.Case) *casefile.BiasFrame {
	killer := c.Killer()
	if e.rand.Float64() < e.biasWeight && killer != nil && len(c.CoreEvidence) > 0 {
		return &casefile.BiasFrame{
			TowardKiller: true,
			KillerName:   killer.Name,
			Seeds:        c.CoreEvidence,
		}
	}
	if len(c.RedHerrings) == 0 {
		return nil
	}
	return &casefile.BiasFrame{Seeds: c.RedHerrings}
}
