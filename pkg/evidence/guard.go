package evidence

import (
	"context"
	"fmt"
	"log/slog"
)

// SimilarityJudge decides whether a proposal is conceptually the same clue
// as an already-accepted record even though name, marker and category all
// differ ("bottle with prints" vs "bottle with Elena's prints"). The LLM
// implementation lives in internal/engine; TriggerJudge is the deterministic
// fallback used in tests.
type SimilarityJudge interface {
	IsDuplicate(ctx context.Context, proposal Record, existing []Record) (bool, string, error)
}

// Verdict is the Guard's decision for one proposal.
type Verdict struct {
	Accepted bool   `json:"accepted"`
	Record   Record `json:"record"` // marker may have been rewritten
	Reason   string `json:"reason"`
}

// defaultSubstitutes are neutral glyphs used to rewrite a colliding marker.
// None of them appear in DefaultCategories, so each is its own singleton
// category and a rewrite can never introduce a category collision.
var defaultSubstitutes = []string{"🔍", "🧩", "📦", "🎒", "🪙", "🕯️", "🧭", "⚙️"}

// Guard is the final arbiter of whether a proposal enters the ledger. The
// local checks (capacity, marker, name, category) are deterministic and
// authoritative; the similarity judge can only add rejections on top of
// them, never rescue a proposal they would block.
type Guard struct {
	categories  CategoryMap
	judge       SimilarityJudge
	substitutes []string
	logger      *slog.Logger
}

// NewGuard creates a guard. judge may be nil, in which case the semantic
// similarity step is skipped.
func NewGuard(categories CategoryMap, judge SimilarityJudge, logger *slog.Logger) *Guard {
	if categories == nil {
		categories = DefaultCategories()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		categories:  categories,
		judge:       judge,
		substitutes: defaultSubstitutes,
		logger:      logger,
	}
}

// Check applies the rejection rules in order and short-circuits on the first
// failure. A marker that collides with an existing record is rewritten to an
// unused substitute when one is available, instead of rejecting outright.
func (g *Guard) Check(ctx context.Context, proposal Record, ledger *Ledger) Verdict {
	if ledger.Size() >= ledger.Capacity() {
		return Verdict{Record: proposal, Reason: "ledger at capacity"}
	}

	rec := proposal
	if ledger.ContainsMarker(rec.Marker) {
		sub, ok := g.substitute(ledger)
		if !ok {
			return Verdict{Record: proposal, Reason: fmt.Sprintf("marker %s already collected", rec.Marker)}
		}
		g.logger.Debug("rewrote colliding marker",
			"name", rec.Name, "from", rec.Marker, "to", sub)
		rec.Marker = sub
	}

	if ledger.ContainsName(rec.Name) {
		return Verdict{Record: proposal, Reason: fmt.Sprintf("name %q already collected", rec.Name)}
	}

	category := g.categories.Category(rec.Marker)
	if ledger.Categories()[category] {
		return Verdict{Record: proposal, Reason: fmt.Sprintf("category %q already represented", category)}
	}

	if g.judge != nil {
		dup, reason, err := g.judge.IsDuplicate(ctx, rec, ledger.Records())
		if err != nil {
			// Fail closed: an unverifiable proposal is rejected, never
			// appended on a guess. The next turn can propose it again.
			g.logger.Warn("similarity judgment failed, rejecting proposal",
				"name", rec.Name, "error", err)
			return Verdict{Record: proposal, Reason: "similarity check unavailable"}
		}
		if dup {
			return Verdict{Record: proposal, Reason: reason}
		}
	}

	return Verdict{Accepted: true, Record: rec, Reason: "accepted"}
}

// substitute picks the first substitute marker that is unused and whose
// category is not yet represented in the ledger.
func (g *Guard) substitute(ledger *Ledger) (string, bool) {
	present := ledger.Categories()
	for _, s := range g.substitutes {
		if ledger.ContainsMarker(s) {
			continue
		}
		if present[g.categories.Category(s)] {
			continue
		}
		return s, true
	}
	return "", false
}
