package evidence

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// stopwords are ignored when comparing record wording. Everything here is
// glue, not meaning.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "on": true, "in": true,
	"at": true, "to": true, "by": true, "with": true, "near": true,
	"from": true, "was": true, "is": true, "are": true, "were": true,
	"found": true, "and": true, "for": true, "its": true, "his": true,
	"her": true, "it": true, "s": true,
}

// TriggerJudge is a deterministic SimilarityJudge. Two records are judged
// the same clue when their significant terms overlap heavily, which catches
// straightforward restatements ("Wine Bottle Fingerprints" vs "Bottle With
// Prints") without any external call. It deliberately stays conservative;
// paraphrases with disjoint vocabulary are the LLM judge's territory.
type TriggerJudge struct {
	// MinShared is the number of significant terms two records must share
	// to be considered the same clue. Defaults to 2.
	MinShared int
}

var _ SimilarityJudge = (*TriggerJudge)(nil)

func (j *TriggerJudge) IsDuplicate(_ context.Context, proposal Record, existing []Record) (bool, string, error) {
	minShared := j.MinShared
	if minShared <= 0 {
		minShared = 2
	}

	terms := significantTerms(proposal)
	for _, r := range existing {
		shared := intersect(terms, significantTerms(r))
		if len(shared) >= minShared {
			return true, fmt.Sprintf("restates %q (shared terms: %s)",
				r.Name, strings.Join(shared, ", ")), nil
		}
	}
	return false, "", nil
}

func significantTerms(r Record) map[string]bool {
	terms := make(map[string]bool)
	for _, raw := range strings.Fields(strings.ToLower(r.Name + " " + r.Description)) {
		w := strings.Trim(raw, ".,;:!?'\"()")
		w = strings.TrimSuffix(w, "'s")
		if len(w) < 3 || stopwords[w] {
			continue
		}
		terms[w] = true
	}
	return terms
}

func intersect(a, b map[string]bool) []string {
	var shared []string
	for w := range a {
		if b[w] {
			shared = append(shared, w)
		}
	}
	// Map iteration order is random; keep reasons stable.
	sort.Strings(shared)
	return shared
}
