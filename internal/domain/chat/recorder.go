package chat

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/metrics"
)

// Recorder persists completed turns in the background. Every write runs
// under its own context with a bounded timeout; failures are logged and
// swallowed, never surfaced to the request path.
type Recorder struct {
	turns    TurnStore
	contexts ContextStore
	tagsOnly bool
	timeout  time.Duration
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewRecorder creates a turn recorder. tagsOnly withholds raw content from
// the durable store, persisting only derived tags.
func NewRecorder(turns TurnStore, contexts ContextStore, tagsOnly bool, timeout time.Duration, log zerolog.Logger) *Recorder {
	return &Recorder{
		turns:    turns,
		contexts: contexts,
		tagsOnly: tagsOnly,
		timeout:  timeout,
		log:      log.With().Str("component", "turn-recorder").Logger(),
	}
}

// Record schedules persistence of one exchange and returns immediately.
func (r *Recorder) Record(sessionID string, userTurn, assistantTurn Turn, meta map[string]any) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		r.appendContext(ctx, sessionID, userTurn, assistantTurn)
		r.updateFacts(ctx, sessionID, userTurn.Content)

		// User turn before assistant turn, to keep causal order in the
		// durable log.
		r.insert(ctx, r.record(sessionID, userTurn, meta))
		r.insert(ctx, r.record(sessionID, assistantTurn, meta))
	}()
}

// Drain waits for in-flight writes, bounded by ctx.
func (r *Recorder) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Recorder) appendContext(ctx context.Context, sessionID string, turns ...Turn) {
	if err := r.contexts.AppendTurns(ctx, sessionID, turns...); err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("context append failed")
	}
}

func (r *Recorder) updateFacts(ctx context.Context, sessionID, userText string) {
	fresh := ExtractFacts(userText)
	if len(fresh) == 0 {
		return
	}

	blob, err := r.contexts.Facts(ctx, sessionID)
	if err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("facts load failed")
		return
	}

	merged := MergeFacts(blob, fresh)
	if merged == blob {
		return
	}
	if err := r.contexts.SaveFacts(ctx, sessionID, merged); err != nil {
		r.log.Warn().Err(err).Str("session_id", sessionID).Msg("facts save failed")
	}
}

func (r *Recorder) record(sessionID string, turn Turn, meta map[string]any) TurnRecord {
	rec := TurnRecord{
		SessionID: sessionID,
		Role:      turn.Role,
		Tags:      DeriveTags(turn.Content),
		Meta:      meta,
		CreatedAt: turn.CreatedAt,
	}
	if !r.tagsOnly {
		content := turn.Content
		rec.Content = &content
	}
	return rec
}

func (r *Recorder) insert(ctx context.Context, rec TurnRecord) {
	if err := r.turns.InsertTurn(ctx, rec); err != nil {
		metrics.RecorderWritesTotal.WithLabelValues("error").Inc()
		r.log.Warn().
			Err(err).
			Str("session_id", rec.SessionID).
			Str("role", string(rec.Role)).
			Msg("turn write failed")
		return
	}
	metrics.RecorderWritesTotal.WithLabelValues("ok").Inc()
}
