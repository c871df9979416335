package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jwebster45206/mystery-engine/internal/services"
	"github.com/jwebster45206/mystery-engine/pkg/casefile"
	"github.com/jwebster45206/mystery-engine/pkg/chat"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
)

// Extractor decides whether one generated utterance names a new physical
// clue, and if so produces a single evidence proposal. Every failure path
// (generation error, malformed JSON, invalid fields) yields no proposal;
// extraction never raises and never touches the ledger.
type Extractor struct {
	llm         services.LLMService
	speculation *evidence.SpeculationFilter
	logger      *slog.Logger
}

func NewExtractor(llm services.LLMService, logger *slog.Logger) *Extractor {
	return &Extractor{
		llm:         llm,
		speculation: evidence.NewSpeculationFilter(),
		logger:      logger,
	}
}

// extractionEnvelope is the JSON shape the extraction prompt demands.
type extractionEnvelope struct {
	ShouldGenerate bool `json:"should_generate"`
	Evidence       struct {
		Name        string `json:"name"`
		Marker      string `json:"marker"`
		Description string `json:"description"`
	} `json:"evidence"`
}

// ExtractionInput carries everything the decision needs for one utterance.
type ExtractionInput struct {
	Case             *casefile.Case
	PlayerInput      string
	Utterance        string
	Speaker          string // suspect name or "Investigation"
	Ledger           *evidence.Ledger
	History          []chat.Message
	ActionsRemaining int
	TotalActions     int
	Bias             *casefile.BiasFrame
}

// Extract returns a proposal, or nil when the utterance contains nothing
// worth materializing.
func (e *Extractor) Extract(ctx context.Context, in ExtractionInput) *evidence.Record {
	prompt := casefile.ExtractionPrompt(in.Case, in.PlayerInput, in.Utterance, in.Speaker,
		in.Ledger.Records(), evidence.DefaultCategories(), in.History,
		in.ActionsRemaining, in.TotalActions, in.Bias)

	resp, err := e.llm.GetChatResponse(ctx, []chat.Message{
		{Role: chat.RoleSystem, Content: prompt},
	})
	if err != nil {
		e.logger.Warn("evidence extraction call failed", "error", err)
		return nil
	}

	raw := strings.TrimSpace(resp.Message)
	if raw == casefile.NoEvidenceToken {
		return nil
	}

	jsonStr, ok := extractJSON(raw)
	if !ok {
		e.logger.Debug("no JSON object in extraction response", "response", raw)
		return nil
	}

	var envelope extractionEnvelope
	if err := json.Unmarshal([]byte(jsonStr), &envelope); err != nil {
		e.logger.Warn("malformed extraction response", "error", err, "response", raw)
		return nil
	}
	if !envelope.ShouldGenerate {
		return nil
	}

	rec := evidence.NewRecord(envelope.Evidence.Name, envelope.Evidence.Marker, envelope.Evidence.Description)
	if err := rec.Validate(); err != nil {
		e.logger.Warn("invalid evidence proposal", "error", err, "name", envelope.Evidence.Name)
		return nil
	}

	if phrase := e.speculation.Match(rec.Description); phrase != "" {
		e.logger.Warn("speculative evidence description rejected",
			"name", rec.Name, "phrase", phrase)
		return nil
	}

	if name := unknownPossessive(rec.Name+" "+rec.Description, in.Case.CharacterNames()); name != "" {
		e.logger.Warn("evidence references unknown character",
			"name", rec.Name, "character", name)
		return nil
	}

	// First-pass dedup: an exact name repeat is never new. Marker collisions
	// are left to the Guard, which may rewrite instead of rejecting.
	if in.Ledger.ContainsName(rec.Name) {
		e.logger.Debug("proposal repeats collected name", "name", rec.Name)
		return nil
	}

	return &rec
}

// extractJSON pulls the first {...} object out of a response that may carry
// extra prose around it.
func extractJSON(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

var possessivePattern = regexp.MustCompile(`\b([A-Z][a-z]+)(?:'|’)s\b`)

// unknownPossessive returns the first possessive name ("Elena's") in the
// text that does not belong to a case character, or "" when all names check
// out. Evidence may not invent new people.
func unknownPossessive(text string, characters []string) string {
	allowed := make(map[string]bool)
	for _, full := range characters {
		for _, part := range strings.Fields(full) {
			allowed[strings.ToLower(part)] = true
		}
	}

	for _, match := range possessivePattern.FindAllStringSubmatch(text, -1) {
		if !allowed[strings.ToLower(match[1])] {
			return match[1]
		}
	}
	return ""
}
