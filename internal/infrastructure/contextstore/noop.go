package contextstore

import (
	"context"
	"time"

	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
)

// NoopStore is selected at startup when no Redis is configured. The chat
// pipeline still works, it just has no cross-request memory.
type NoopStore struct{}

// NewNoopStore creates a no-op context store.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (NoopStore) History(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	return nil, nil
}

func (NoopStore) AppendTurns(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	return nil
}

func (NoopStore) Facts(ctx context.Context, sessionID string) (string, error) {
	return "", nil
}

func (NoopStore) SaveFacts(ctx context.Context, sessionID, blob string) error {
	return nil
}

func (NoopStore) TTLs(ctx context.Context, sessionID string) (time.Duration, time.Duration, error) {
	// Same convention as a missing Redis key.
	return -2 * time.Second, -2 * time.Second, nil
}

var _ chat.ContextStore = (*NoopStore)(nil)
