package chat

const (
	RoleUser   = "user"      // the player
	RoleAgent  = "assistant" // a suspect, or the investigation narrator
	RoleSystem = "system"    // prompt instructions
)

// Message is a single turn in a conversation with the LLM.
// The role/content shape matches the chat APIs of all supported providers.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Response is the text returned by an LLM provider for one generation call.
type Response struct {
	Message string `json:"message"`
}

// Tail returns the last n messages of a log, for prompt context windows.
func Tail(log []Message, n int) []Message {
	if len(log) <= n {
		return log
	}
	return log[len(log)-n:]
}
