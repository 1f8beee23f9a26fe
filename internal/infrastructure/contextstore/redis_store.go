// Package contextstore implements the short-lived conversational memory on
// Redis: a bounded history list and a fact blob per session, both with key
// expiry.
package contextstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
)

const (
	chatKeyPrefix  = "tc:chat:"
	factsKeyPrefix = "tc:mem:"
)

// RedisStore implements chat.ContextStore on a Redis list per session.
type RedisStore struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
	log      zerolog.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string, maxTurns int, ttl time.Duration, log zerolog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{
		client:   client,
		maxTurns: maxTurns,
		ttl:      ttl,
		log:      log.With().Str("component", "context-store").Logger(),
	}, nil
}

// History returns the stored turns for a session, oldest first, capped at
// the configured maximum.
func (s *RedisStore) History(ctx context.Context, sessionID string) ([]chat.Turn, error) {
	vals, err := s.client.LRange(ctx, chatKey(sessionID), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session history: %w", err)
	}

	turns := make([]chat.Turn, 0, len(vals))
	for _, v := range vals {
		var turn chat.Turn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			// A corrupt entry is dropped rather than poisoning the window.
			s.log.Warn().Err(err).Str("session_id", sessionID).Msg("skipping malformed history entry")
			continue
		}
		turns = append(turns, turn)
	}

	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	return turns, nil
}

// AppendTurns pushes turns onto the session list, trims to the most recent
// maxTurns entries and refreshes the key expiry, all in one pipeline.
func (s *RedisStore) AppendTurns(ctx context.Context, sessionID string, turns ...chat.Turn) error {
	if len(turns) == 0 {
		return nil
	}

	values := make([]any, 0, len(turns))
	for _, turn := range turns {
		b, err := json.Marshal(turn)
		if err != nil {
			return fmt.Errorf("encode turn: %w", err)
		}
		values = append(values, b)
	}

	key := chatKey(sessionID)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-s.maxTurns), -1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append session history: %w", err)
	}
	return nil
}

// Facts returns the fact-memory blob for a session, or "" when absent.
func (s *RedisStore) Facts(ctx context.Context, sessionID string) (string, error) {
	val, err := s.client.Get(ctx, factsKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session facts: %w", err)
	}
	return val, nil
}

// SaveFacts replaces the fact blob and refreshes its expiry.
func (s *RedisStore) SaveFacts(ctx context.Context, sessionID, blob string) error {
	if err := s.client.Set(ctx, factsKey(sessionID), blob, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session facts: %w", err)
	}
	return nil
}

// TTLs reports remaining expiry for the history and facts keys.
func (s *RedisStore) TTLs(ctx context.Context, sessionID string) (time.Duration, time.Duration, error) {
	history, err := s.client.TTL(ctx, chatKey(sessionID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("history ttl: %w", err)
	}
	facts, err := s.client.TTL(ctx, factsKey(sessionID)).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("facts ttl: %w", err)
	}
	return history, facts, nil
}

// Close releases the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func chatKey(sessionID string) string {
	return chatKeyPrefix + sessionID
}

func factsKey(sessionID string) string {
	return factsKeyPrefix + sessionID
}

var _ chat.ContextStore = (*RedisStore)(nil)
