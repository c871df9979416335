package casefile

import (
	"strings"

	"github.com/jwebster45206/mystery-engine/pkg/evidence"
)

// PressureScore counts collected evidence that names the suspect. The score
// feeds the dialogue prompt so a suspect's composure degrades as the ledger
// fills with records tied to them, instead of re-deriving "how cornered is
// this character" ad hoc per call.
func PressureScore(s *Suspect, records []evidence.Record) int {
	score := 0
	for _, r := range records {
		if mentionsName(r, s.Name) {
			score++
		}
	}
	return score
}

func mentionsName(r evidence.Record, fullName string) bool {
	text := strings.ToLower(r.Name + " " + r.Description)
	for _, part := range strings.Fields(strings.ToLower(fullName)) {
		if len(part) < 3 {
			continue
		}
		if strings.Contains(text, part) {
			return true
		}
	}
	return false
}
