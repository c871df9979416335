// Package casefile holds the authored murder-case data (victim, suspects,
// solution, seeded clues) and the prompt construction for suspect dialogue,
// scene narration, evidence extraction and similarity judgment.
package casefile

import (
	"fmt"
	"strings"
)

// Case is one authored murder mystery. Cases are read-mostly data loaded
// from the data directory; play state lives in pkg/session.
type Case struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Setting      string     `json:"setting"`
	Victim       string     `json:"victim"`
	MurderWeapon string     `json:"murder_weapon"`
	MurderTime   string     `json:"murder_time"`
	Active       bool       `json:"active"` // the case offered by default
	Suspects     []Suspect  `json:"suspects"`
	Solution     Solution   `json:"solution"`
	CoreEvidence []Seed     `json:"core_evidence,omitempty"` // clues pointing at the killer
	RedHerrings  []Seed     `json:"red_herrings,omitempty"`  // misleading clues
}

// Suspect is one questionable character in a case.
type Suspect struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Emoji       string          `json:"emoji,omitempty"`
	Title       string          `json:"title"`
	Bio         string          `json:"bio,omitempty"`
	Personality string          `json:"personality"`
	Background  string          `json:"background"`
	Secret      string          `json:"secret"`
	Alibi       string          `json:"alibi"`
	Timeline    []TimelineEvent `json:"timeline,omitempty"`
}

// TimelineEvent is one entry in a suspect's evening, used for prompt
// construction. Unobservable events are what actually happened; observable
// ones are what other guests can corroborate.
type TimelineEvent struct {
	Time       string   `json:"time"`
	Action     string   `json:"action"`
	Location   string   `json:"location"`
	Observable bool     `json:"observable"`
	Witnesses  []string `json:"witnesses,omitempty"`
}

// Solution names the killer and how it happened. Never exposed to the
// player before a correct accusation.
type Solution struct {
	Killer string `json:"killer"` // suspect ID
	Motive string `json:"motive"`
	Method string `json:"method"`
}

// Seed is an authored clue used to steer evidence generation. Trigger words
// connect a seed to conversation content.
type Seed struct {
	Name        string   `json:"name"`
	Marker      string   `json:"marker"`
	Description string   `json:"description"`
	Triggers    []string `json:"triggers,omitempty"`
}

// Validate checks structural integrity of an authored case.
func (c *Case) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("case ID cannot be empty")
	}
	if c.Title == "" {
		return fmt.Errorf("case title cannot be empty")
	}
	if c.Victim == "" {
		return fmt.Errorf("case victim cannot be empty")
	}
	if len(c.Suspects) == 0 {
		return fmt.Errorf("case must have at least one suspect")
	}
	seen := make(map[string]bool, len(c.Suspects))
	for i, s := range c.Suspects {
		if s.ID == "" || s.Name == "" {
			return fmt.Errorf("suspect %d must have an id and a name", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate suspect id %q", s.ID)
		}
		seen[s.ID] = true
	}
	if c.Solution.Killer == "" {
		return fmt.Errorf("case solution must name a killer")
	}
	if !seen[c.Solution.Killer] {
		return fmt.Errorf("solution killer %q is not a suspect", c.Solution.Killer)
	}
	return nil
}

// Suspect returns the suspect with the given ID.
func (c *Case) Suspect(id string) (*Suspect, error) {
	for i := range c.Suspects {
		if c.Suspects[i].ID == id {
			return &c.Suspects[i], nil
		}
	}
	return nil, fmt.Errorf("unknown suspect %q in case %q", id, c.ID)
}

// Killer returns the guilty suspect.
func (c *Case) Killer() *Suspect {
	s, err := c.Suspect(c.Solution.Killer)
	if err != nil {
		return nil
	}
	return s
}

// CharacterNames returns every valid character name for the case: all
// suspects plus the victim. Evidence may only reference these people.
func (c *Case) CharacterNames() []string {
	names := make([]string, 0, len(c.Suspects)+1)
	for _, s := range c.Suspects {
		names = append(names, s.Name)
	}
	names = append(names, c.Victim)
	return names
}

// CheckAccusation reports whether the accused suspect is the killer.
func (c *Case) CheckAccusation(suspectID string) bool {
	return strings.EqualFold(suspectID, c.Solution.Killer)
}
