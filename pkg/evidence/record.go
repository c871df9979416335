// Package evidence implements the evidence-discovery pipeline: records,
// the per-session ledger, category-based collision detection, and the
// duplicate guard that decides whether a proposed record may be collected.
package evidence

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxDescriptionWords bounds a record's description. Descriptions are meant
// to be a single short factual sentence, not a paragraph of narration.
const MaxDescriptionWords = 20

var titleCaser = cases.Title(language.English)

// Record is one piece of collected (or proposed) evidence.
type Record struct {
	ID          string `json:"id"`          // stable token derived from the name
	Name        string `json:"name"`        // short label of the physical object
	Marker      string `json:"marker"`      // visual glyph, doubles as a coarse category key
	Description string `json:"description"` // one factual sentence, observational only
}

// NewRecord builds a proposal with a normalized name and a derived ID.
func NewRecord(name, marker, description string) Record {
	name = titleCaser.String(strings.TrimSpace(name))
	return Record{
		ID:          normalizeID(name),
		Name:        name,
		Marker:      strings.TrimSpace(marker),
		Description: strings.TrimSpace(description),
	}
}

// Validate checks that all fields are populated and the description is
// within bounds. It does not check for collisions; that is the Guard's job.
func (r Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record ID cannot be empty")
	}
	if r.Name == "" {
		return fmt.Errorf("record name cannot be empty")
	}
	if r.Marker == "" {
		return fmt.Errorf("record marker cannot be empty")
	}
	if r.Description == "" {
		return fmt.Errorf("record description cannot be empty")
	}
	if n := len(strings.Fields(r.Description)); n > MaxDescriptionWords {
		return fmt.Errorf("description too long: %d words (max %d)", n, MaxDescriptionWords)
	}
	return nil
}

// normalizeID converts a string to lowercase snake_case for consistent IDs.
// It handles spaces, hyphens, dots, and camelCase/PascalCase.
func normalizeID(s string) string {
	if s == "" {
		return ""
	}

	var out strings.Builder
	prevUnderscore := false
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			r = r + ('a' - 'A')
		}
		switch {
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if !prevUnderscore && i > 0 {
				out.WriteRune('_')
				prevUnderscore = true
			}

		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			out.WriteRune(r)
			prevUnderscore = false

		default:
			// Ignore other characters
		}
	}
	return strings.Trim(out.String(), "_")
}
