// Package chat contains HTTP request DTOs for the chat endpoint.
package chat

import (
	"strings"

	domain "github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
)

// TurnRequest is the inbound body for POST /v1/chat. The text field has
// accumulated aliases across front-end revisions; all three are accepted.
type TurnRequest struct {
	UserText     string         `json:"userText"`
	Message      string         `json:"message"`
	Text         string         `json:"text"`
	SessionID    string         `json:"sessionId"`
	SessionToken string         `json:"sessionToken"`
	Context      []ContextEntry `json:"context"`
}

// ContextEntry is one client-maintained history entry.
type ContextEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResolvedText returns the first non-empty text alias, trimmed.
func (r *TurnRequest) ResolvedText() string {
	for _, candidate := range []string{r.UserText, r.Message, r.Text} {
		if t := strings.TrimSpace(candidate); t != "" {
			return t
		}
	}
	return ""
}

// Turns converts the client-supplied context into domain turns. Filtering
// of malformed entries happens in the pipeline.
func (r *TurnRequest) Turns() []domain.Turn {
	if len(r.Context) == 0 {
		return nil
	}
	turns := make([]domain.Turn, 0, len(r.Context))
	for _, e := range r.Context {
		turns = append(turns, domain.Turn{
			Role:    domain.Role(e.Role),
			Content: e.Content,
		})
	}
	return turns
}
