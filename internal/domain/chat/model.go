package chat

import "time"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the permitted values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn is one message exchanged within a session.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// TurnRecord is the durable representation of a turn. Content is nil when
// the deployment persists only derived tags.
type TurnRecord struct {
	SessionID string         `json:"session_id"`
	Role      Role           `json:"role"`
	Content   *string        `json:"content"`
	Tags      []string       `json:"tags"`
	Meta      map[string]any `json:"meta"`
	CreatedAt time.Time      `json:"created_at"`
}

// TurnRequest is one inbound conversational turn.
type TurnRequest struct {
	Text      string
	SessionID string
	Context   []Turn
}

// TurnResult is what the pipeline hands back to the transport layer.
type TurnResult struct {
	SessionID string
	Message   string
	// Fallback is true when the reply is the configured static fallback
	// rather than a real completion.
	Fallback bool

	// The exchanged turns, carried so RecordExchange can persist them after
	// the response has been written.
	userTurn      Turn
	assistantTurn Turn
}
