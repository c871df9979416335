package evidence

import (
	"regexp"
)

// Evidence descriptions must be purely observational. These phrases mark
// interpretation or causal claims and disqualify a description outright.
var speculativePhrases = []string{
	"likely", "probably", "possibly", "perhaps", "maybe",
	"suspicious", "suspiciously", "incriminating",
	"appears to", "seems to", "looks like", "must be", "must have",
	"clearly", "obviously", "evidently", "undoubtedly",
	"murder weapon", "the killer", "the murderer", "evidence of",
	"proving", "proof that", "suggests", "implying", "implies",
}

// SpeculationFilter detects interpretive language in evidence descriptions.
type SpeculationFilter struct {
	regexes map[string]*regexp.Regexp
}

// NewSpeculationFilter pre-compiles a word-boundary pattern per phrase.
func NewSpeculationFilter() *SpeculationFilter {
	sf := &SpeculationFilter{
		regexes: make(map[string]*regexp.Regexp, len(speculativePhrases)),
	}
	for _, phrase := range speculativePhrases {
		pattern := `(?i)\b` + regexp.QuoteMeta(phrase) + `\b`
		sf.regexes[phrase] = regexp.MustCompile(pattern)
	}
	return sf
}

// Match returns the first speculative phrase found in the text, or "" when
// the text is purely observational.
func (sf *SpeculationFilter) Match(text string) string {
	for _, phrase := range speculativePhrases {
		if sf.regexes[phrase].MatchString(text) {
			return phrase
		}
	}
	return ""
}
