package turnstore

import (
	"context"

	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
)

// NoopStore is selected at startup when Supabase is not configured.
type NoopStore struct{}

// NewNoopStore creates a no-op turn store.
func NewNoopStore() *NoopStore {
	return &NoopStore{}
}

func (NoopStore) InsertTurn(ctx context.Context, record chat.TurnRecord) error {
	return nil
}

var _ chat.TurnStore = (*NoopStore)(nil)
