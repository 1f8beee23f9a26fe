// Package chat implements the session-scoped conversational turn pipeline:
// session resolution, bounded context assembly, the completion call with
// timeout/fallback, and best-effort persistence of the exchanged turns.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/config"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/session"
	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/metrics"
	"github.com/exiluzrg-design/tempochat-landing/internal/utils/apierrors"
)

// DefaultSystemPrompt is used when no prompt is configured.
const DefaultSystemPrompt = "You are a helpful, concise assistant for a small business landing page. " +
	"Answer in the visitor's language and keep replies short."

// Service runs the turn pipeline. HandleTurn produces the reply;
// RecordExchange hands the turns to the background recorder afterwards, so
// the response-already-sent boundary stays explicit.
type Service struct {
	cfg      *config.Config
	provider CompletionProvider
	contexts ContextStore
	recorder *Recorder
	log      zerolog.Logger
}

// NewService creates the chat service.
func NewService(
	cfg *config.Config,
	provider CompletionProvider,
	contexts ContextStore,
	recorder *Recorder,
	log zerolog.Logger,
) *Service {
	return &Service{
		cfg:      cfg,
		provider: provider,
		contexts: contexts,
		recorder: recorder,
		log:      log.With().Str("component", "chat-service").Logger(),
	}
}

// HandleTurn runs one conversational turn up to and including the reply.
// It does not persist anything; callers invoke RecordExchange once the
// response has been written.
func (s *Service) HandleTurn(ctx context.Context, req TurnRequest) (*TurnResult, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		metrics.TurnsTotal.WithLabelValues("bad_request").Inc()
		return nil, apierrors.BadRequest("no_text", "message text is required")
	}

	sessionID, err := session.Resolve(req.SessionID)
	if err != nil {
		return nil, err
	}

	history := s.loadContext(ctx, sessionID, req.Context)

	userAt := time.Now()
	reply, err := s.provider.Complete(ctx, s.systemPrompt(ctx, sessionID), history, text)
	fallback := false
	if err != nil {
		if s.cfg.FallbackReply == "" {
			metrics.TurnsTotal.WithLabelValues(outcomeFor(err)).Inc()
			return nil, err
		}
		// Deployment-level policy: mask upstream failures behind a static
		// reply. The turn still gets recorded, marked as a fallback.
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("masking upstream failure with fallback reply")
		reply = s.cfg.FallbackReply
		fallback = true
	}

	outcome := "ok"
	if fallback {
		outcome = "fallback"
	}
	metrics.TurnsTotal.WithLabelValues(outcome).Inc()

	return &TurnResult{
		SessionID: sessionID,
		Message:   reply,
		Fallback:  fallback,
		userTurn:  Turn{Role: RoleUser, Content: text, CreatedAt: userAt},
		assistantTurn: Turn{
			Role:      RoleAssistant,
			Content:   reply,
			CreatedAt: time.Now(),
		},
	}, nil
}

// RecordExchange schedules best-effort persistence of a completed turn.
// Never blocks and never fails the caller.
func (s *Service) RecordExchange(result *TurnResult) {
	if result == nil {
		return
	}
	s.recorder.Record(result.SessionID, result.userTurn, result.assistantTurn, map[string]any{
		"fallback": result.Fallback,
		"model":    s.cfg.OpenAIModel,
	})
}

// loadContext returns the bounded prior-turn window, oldest first. Client
// supplied context wins; otherwise the store is consulted. Context is an
// optimization: every failure path degrades to an empty window.
func (s *Service) loadContext(ctx context.Context, sessionID string, supplied []Turn) []Turn {
	if len(supplied) > 0 {
		return clampWindow(filterTurns(supplied), s.cfg.ContextMaxTurns)
	}

	history, err := s.contexts.History(ctx, sessionID)
	if err != nil {
		metrics.ContextLoads.WithLabelValues("error").Inc()
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("context load failed, continuing without history")
		return nil
	}
	if len(history) == 0 {
		metrics.ContextLoads.WithLabelValues("empty").Inc()
		return nil
	}
	metrics.ContextLoads.WithLabelValues("hit").Inc()
	return clampWindow(history, s.cfg.ContextMaxTurns)
}

// systemPrompt builds the system instruction, appending remembered facts
// when the context store has any.
func (s *Service) systemPrompt(ctx context.Context, sessionID string) string {
	prompt := s.cfg.SystemPrompt
	if prompt == "" {
		prompt = DefaultSystemPrompt
	}

	facts, err := s.contexts.Facts(ctx, sessionID)
	if err != nil {
		s.log.Debug().Err(err).Str("session_id", sessionID).Msg("facts load failed")
		return prompt
	}
	if facts == "" {
		return prompt
	}
	return prompt + "\n\nKnown facts about this visitor:\n" + facts
}

// filterTurns keeps only well-formed {role, content} entries.
func filterTurns(turns []Turn) []Turn {
	filtered := make([]Turn, 0, len(turns))
	for _, t := range turns {
		if !t.Role.Valid() || strings.TrimSpace(t.Content) == "" {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// clampWindow keeps the most recent max turns, preserving order.
func clampWindow(turns []Turn, max int) []Turn {
	if len(turns) <= max {
		return turns
	}
	return turns[len(turns)-max:]
}

func outcomeFor(err error) string {
	switch {
	case apierrors.IsType(err, apierrors.ErrorTypeUpstreamTimeout):
		return "upstream_timeout"
	case apierrors.IsType(err, apierrors.ErrorTypeUpstreamError):
		return "upstream_error"
	default:
		return "error"
	}
}
