package chat

import (
	"context"
	"time"
)

// CompletionProvider sends an assembled prompt to an external
// text-completion service. Implementations perform a single attempt under a
// bounded timeout.
type CompletionProvider interface {
	Complete(ctx context.Context, system string, history []Turn, userText string) (string, error)
}

// ContextStore holds the short-lived conversational memory for a session:
// the bounded turn history and the derived fact blob. Implementations must
// be safe for concurrent use. A no-op implementation is selected at startup
// when no store is configured.
type ContextStore interface {
	// History returns the stored turns for a session, oldest first.
	History(ctx context.Context, sessionID string) ([]Turn, error)
	// AppendTurns appends turns to the session history, trims it to the
	// configured maximum and refreshes the key expiry.
	AppendTurns(ctx context.Context, sessionID string, turns ...Turn) error
	// Facts returns the fact-memory blob for a session, or "" when absent.
	Facts(ctx context.Context, sessionID string) (string, error)
	// SaveFacts replaces the fact-memory blob and refreshes its expiry.
	SaveFacts(ctx context.Context, sessionID, blob string) error
	// TTLs reports the remaining expiry of the history and facts keys.
	// -1 means no expiry, -2 means the key does not exist.
	TTLs(ctx context.Context, sessionID string) (history, facts time.Duration, err error)
}

// TurnStore durably records turns. Failures are tolerated by callers; a
// failed write never affects the response already sent.
type TurnStore interface {
	InsertTurn(ctx context.Context, record TurnRecord) error
}
