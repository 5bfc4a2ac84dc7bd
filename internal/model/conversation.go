package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a session's conversation. Sessions are append-only
// sequences of turns, discarded when the session ends.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
