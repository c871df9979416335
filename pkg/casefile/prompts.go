package casefile

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/mystery-engine/pkg/chat"
	"github.com/jwebster45206/mystery-engine/pkg/evidence"
)

// NoEvidenceToken is the exact reply the extraction prompt demands when the
// utterance contains nothing worth materializing.
const NoEvidenceToken = "NO_EVIDENCE"

// historyWindow is how many recent messages are included as conversation
// context in the extraction prompt.
const historyWindow = 6

// BiasFrame steers evidence generation for one action. Exactly one of the
// two framings is rendered; which one is a per-action draw made by the
// orchestrator against the configured bias weight.
type BiasFrame struct {
	TowardKiller bool
	KillerName   string
	Seeds        []Seed // killer clues or red herrings, depending on framing
}

func (b *BiasFrame) render() string {
	if b == nil || len(b.Seeds) == 0 {
		return ""
	}
	var sb strings.Builder
	if b.TowardKiller {
		sb.WriteString("BIAS TOWARD KILLER EVIDENCE: this interaction favors evidence pointing toward ")
		sb.WriteString(b.KillerName)
		sb.WriteString(".\nClues available to discover:\n")
	} else {
		sb.WriteString("NEUTRAL/RED HERRING BIAS: this interaction favors neutral or misleading evidence.\nClues available to discover:\n")
	}
	for _, s := range b.Seeds {
		fmt.Fprintf(&sb, "- %s %s: %s (triggers: %s)\n",
			s.Marker, s.Name, s.Description, strings.Join(s.Triggers, ", "))
	}
	sb.WriteString("Favor these clues only when trigger words match the conversation.\n")
	return sb.String()
}

// SuspectPrompt builds the in-character system prompt for one question to a
// suspect. Collected evidence and the pressure score shape how defensive or
// rattled the character is.
func SuspectPrompt(c *Case, s *Suspect, records []evidence.Record, pressure int, actionsRemaining, totalActions int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s, a %s, questioned during a murder investigation.\n\n", s.Name, s.Title)
	sb.WriteString("CHARACTER PROFILE:\n")
	fmt.Fprintf(&sb, "- Personality: %s\n", s.Personality)
	fmt.Fprintf(&sb, "- Background: %s\n", s.Background)
	fmt.Fprintf(&sb, "- Secret: %s\n", s.Secret)
	fmt.Fprintf(&sb, "- Your alibi: %s\n\n", s.Alibi)

	sb.WriteString("MURDER CONTEXT:\n")
	fmt.Fprintf(&sb, "%s was found dead %s at %s, killed with a %s. %s\n\n",
		c.Victim, c.Setting, c.MurderTime, c.MurderWeapon, c.Description)

	sb.WriteString("CURRENT SITUATION:\n")
	if len(records) == 0 {
		sb.WriteString("No evidence has been discovered yet.\n")
	} else {
		sb.WriteString("Evidence discovered so far: ")
		descs := make([]string, 0, len(records))
		for _, r := range records {
			descs = append(descs, r.Description)
		}
		sb.WriteString(strings.Join(descs, ", "))
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Evidence implicating you: %d pieces.\n", pressure)
	fmt.Fprintf(&sb, "Actions remaining: %d/%d\n\n", actionsRemaining, totalActions)

	sb.WriteString(`INSTRUCTIONS:
- Stay completely in character
- Respond with ONLY direct speech - no actions, no *descriptions*, no narration
- Don't reveal your secret unless directly confronted with evidence
- Be helpful but also protective of yourself
- Keep responses to EXACTLY 1-3 sentences maximum
- Show emotions through your words, not actions
- NO asterisks, NO stage directions - just speak as the character
- MENTION SPECIFIC OBJECTS when reasonable (wine, bottles, phones, keys, etc.)
`)
	if pressure >= 3 {
		sb.WriteString("- The evidence against you is mounting. You are visibly rattled; if confronted directly, you let details slip that you meant to keep quiet.\n")
	}
	fmt.Fprintf(&sb, "\nRespond as %s with direct speech only.", s.Name)
	return sb.String()
}

// NarratorPrompt builds the system prompt for an inspection action. The
// narrator describes what the player observes at the named target.
func NarratorPrompt(c *Case, target string, evidenceCount, actionsRemaining int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are the game master for the murder mystery %q.\n", c.Title)
	fmt.Fprintf(&sb, "%s was found dead %s, killed with a %s.\n\n", c.Victim, c.Setting, c.MurderWeapon)
	fmt.Fprintf(&sb, "The player wants to inspect: %q\n\n", target)
	sb.WriteString(`Provide a brief description of what they find during their investigation.
Keep responses to EXACTLY 1-3 sentences maximum.
Be concise and descriptive.
Do NOT include any actions, asterisks, or stage directions - just describe what is observed.
Stay within the murder mystery setting.
MENTION SPECIFIC OBJECTS when possible (bottles, phones, fabric, keys, etc.)
`)
	fmt.Fprintf(&sb, "\nCurrent game context: %d actions remaining, %d pieces of evidence found.\n", actionsRemaining, evidenceCount)
	fmt.Fprintf(&sb, "Describe what the player observes when inspecting %q.", target)
	return sb.String()
}

// ExtractionPrompt builds the evidence-manager prompt that decides whether
// one freshly generated utterance materializes a new clue.
func ExtractionPrompt(c *Case, playerInput, utterance, speaker string,
	existing []evidence.Record, categories evidence.CategoryMap,
	history []chat.Message, actionsRemaining, totalActions int, bias *BiasFrame) string {

	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the evidence manager for the %q murder mystery game.\n\n", c.Title)

	sb.WriteString("CASE CONTEXT:\n")
	fmt.Fprintf(&sb, "- Victim: %s, killed with %s at %s\n", c.Victim, c.MurderWeapon, c.MurderTime)
	fmt.Fprintf(&sb, "- Setting: %s\n", c.Setting)
	if k := c.Killer(); k != nil {
		fmt.Fprintf(&sb, "- Killer: %s\n", k.Name)
	}
	fmt.Fprintf(&sb, "- Motive: %s\n", c.Solution.Motive)
	fmt.Fprintf(&sb, "- Method: %s\n\n", c.Solution.Method)

	sb.WriteString("CURRENT SITUATION:\n")
	fmt.Fprintf(&sb, "Player asked: %q\n", playerInput)
	fmt.Fprintf(&sb, "%s responded: %q\n\n", speaker, utterance)

	sb.WriteString("GAME STATE:\n")
	sb.WriteString(existingEvidenceContext(existing, categories))
	sb.WriteString(conversationContext(history))
	fmt.Fprintf(&sb, "Actions remaining: %d/%d\n", actionsRemaining, totalActions)
	fmt.Fprintf(&sb, "Evidence already found: %d/%d\n\n", len(existing), totalActions)

	if frame := bias.render(); frame != "" {
		sb.WriteString(frame)
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, `GENERATION FREQUENCY:
- If evidence count is 0-3: be more generous (help the player get started)
- If evidence count is 4-10: be selective (only strong mentions)
- If evidence count is 11-15: be very selective (only critical evidence)
- If evidence count is 16+: almost never generate (the player has enough)

YOUR TASK:
Analyze the response above. Does it contain an explicitly named physical object that could become a piece of evidence?

EVIDENCE GENERATION RULES:
1. Only generate evidence for a STRONG, DIRECT mention of a physical object
2. Emotions, moods, actions, behaviors, and vague references ("something fell") NEVER generate evidence
3. Locations can generate evidence only if they contain specific details (scratches on a door, stains on a floor)
4. Maximum ONE piece of evidence per response; if several objects are mentioned, pick the first valid one
5. Evidence must feel natural and connected to what was just discussed
6. It can be a REAL CLUE (points toward the killer) or a RED HERRING (misleading)
7. Must not duplicate existing evidence CATEGORIES listed above
8. ONLY use character names from this case: %s
9. Do NOT invent new characters
10. When in doubt about duplicates, choose %s rather than risk a near-duplicate

DESCRIPTION RULES:
- Describe ONLY what is physically observed: size, color, material, location, condition
- ONE factual sentence of at most 10 words
- NO interpretation, speculation, or causal claims
- NO phrases like "likely murder weapon", "suspicious", "probably", "appears to be"

GOOD EXAMPLES:
- "A shattered vintage wine bottle next to the victim's body"
- "A torn piece of fabric caught on the cellar door handle"

BAD EXAMPLES:
- "A wine bottle that appears to be the murder weapon"
- "Suspicious fabric that likely belongs to the killer"

RESPONSE FORMAT:
If no evidence should be generated, respond with EXACTLY: %s

Otherwise respond with ONLY valid JSON (no extra text):
{
  "should_generate": true,
  "evidence": {
    "name": "Evidence Name",
    "marker": "📱",
    "description": "Brief factual description with no interpretation"
  }
}`, strings.Join(c.CharacterNames(), ", "), NoEvidenceToken, NoEvidenceToken)

	return sb.String()
}

// SimilarityPrompt asks the LLM whether a proposal is conceptually the same
// clue as anything already collected.
func SimilarityPrompt(proposal evidence.Record, existing []evidence.Record) string {
	var sb strings.Builder
	sb.WriteString("You are evaluating whether new evidence is meaningfully different from existing evidence.\n\n")

	sb.WriteString("EXISTING EVIDENCE:\n")
	if len(existing) == 0 {
		sb.WriteString("None\n")
	}
	for _, r := range existing {
		fmt.Fprintf(&sb, "%s %s: %s\n", r.Marker, r.Name, r.Description)
	}

	sb.WriteString("\nPROPOSED EVIDENCE:\n")
	fmt.Fprintf(&sb, "%s %s: %s\n\n", proposal.Marker, proposal.Name, proposal.Description)

	sb.WriteString(`EVALUATION CRITERIA:
1. Is this evidence conceptually different from existing evidence?
2. Does it provide new information about the case?
3. Would a detective consider this a separate clue?

Consider these as SIMILAR (duplicate):
- "Wine bottle with fingerprints" vs "Bottle with Elena's prints"
- "Security footage of Elena" vs "Camera showing Elena at 10:45"

Consider these as DIFFERENT (not duplicate):
- "Wine bottle with fingerprints" vs "Muddy footprints"
- "Security footage" vs "Witness testimony"

Respond with ONLY valid JSON:
{"duplicate": true, "reason": "Brief explanation"}`)
	return sb.String()
}

func existingEvidenceContext(existing []evidence.Record, categories evidence.CategoryMap) string {
	if len(existing) == 0 {
		return "No evidence discovered yet.\n"
	}

	var sb strings.Builder
	sb.WriteString("Already discovered evidence: ")
	parts := make([]string, 0, len(existing))
	catSet := make(map[string]bool)
	var cats []string
	for _, r := range existing {
		parts = append(parts, fmt.Sprintf("%s %s - %s", r.Marker, r.Name, r.Description))
		c := categories.Category(r.Marker)
		if !catSet[c] {
			catSet[c] = true
			cats = append(cats, c)
		}
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString("\n\nCRITICAL: these evidence CATEGORIES already exist and MUST NOT be duplicated: ")
	sb.WriteString(strings.Join(cats, ", "))
	sb.WriteString("\nDo NOT create ANY new evidence in these categories, even with different names or descriptions.\n")
	return sb.String()
}

func conversationContext(history []chat.Message) string {
	if len(history) == 0 {
		return "First interaction.\n"
	}
	var parts []string
	for _, msg := range chat.Tail(history, historyWindow) {
		parts = append(parts, msg.Content)
	}
	return "Recent conversation: " + strings.Join(parts, " ") + "\n"
}
