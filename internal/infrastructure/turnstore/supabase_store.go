// Package turnstore implements durable turn persistence on Supabase via
// PostgREST.
package turnstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/supabase-community/supabase-go"

	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
)

const messagesTable = "messages"

// messageRow matches the messages table schema.
type messageRow struct {
	SessionID string         `json:"session_id"`
	Role      string         `json:"role"`
	Content   *string        `json:"content"`
	Tags      []string       `json:"tags"`
	Meta      map[string]any `json:"meta"`
	CreatedAt string         `json:"created_at"`
}

// SupabaseStore implements chat.TurnStore on a Supabase messages table.
type SupabaseStore struct {
	client *supabase.Client
	log    zerolog.Logger
}

// NewSupabaseStore creates a Supabase-backed turn store.
func NewSupabaseStore(url, serviceKey string, log zerolog.Logger) (*SupabaseStore, error) {
	if url == "" || serviceKey == "" {
		return nil, fmt.Errorf("supabase URL and service key are required")
	}

	client, err := supabase.NewClient(url, serviceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	return &SupabaseStore{
		client: client,
		log:    log.With().Str("component", "turn-store").Logger(),
	}, nil
}

// InsertTurn inserts one turn row. The caller decides whether Content is
// set or withheld under the tags-only privacy policy.
func (s *SupabaseStore) InsertTurn(ctx context.Context, record chat.TurnRecord) error {
	row := messageRow{
		SessionID: record.SessionID,
		Role:      string(record.Role),
		Content:   record.Content,
		Tags:      record.Tags,
		Meta:      record.Meta,
		CreatedAt: record.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999Z07:00"),
	}

	// postgrest-go v0.0.11 has no context-aware execute, so honor an
	// already-expired write budget before issuing the request.
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}

	if _, _, err := s.client.From(messagesTable).
		Insert(row, false, "", "minimal", "").
		Execute(); err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

var _ chat.TurnStore = (*SupabaseStore)(nil)
