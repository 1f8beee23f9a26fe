package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/config"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
	"github.com/exiluzrg-design/tempochat-landing/internal/interfaces/httpserver/responses"
	"github.com/exiluzrg-design/tempochat-landing/internal/utils/apierrors"
)

// DiagnosticsHandler serves the environment check and the Redis TTL
// inspector.
type DiagnosticsHandler struct {
	cfg      *config.Config
	contexts chat.ContextStore
	log      zerolog.Logger
}

// NewDiagnosticsHandler creates a diagnostics handler.
func NewDiagnosticsHandler(cfg *config.Config, contexts chat.ContextStore, log zerolog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		cfg:      cfg,
		contexts: contexts,
		log:      log.With().Str("component", "diagnostics-handler").Logger(),
	}
}

// EnvCheck processes GET /v1/env-check. Reports presence only, never values.
func (h *DiagnosticsHandler) EnvCheck(c *gin.Context) {
	c.JSON(http.StatusOK, responses.EnvCheckResponse{
		EnvSeenByRuntime: h.cfg.EnvPresence(),
	})
}

// DebugTTL processes GET /v1/debug/ttl?sessionId=...
func (h *DiagnosticsHandler) DebugTTL(c *gin.Context) {
	sessionID := strings.TrimSpace(c.Query("sessionId"))
	if sessionID == "" {
		apierrors.WriteError(c, apierrors.BadRequest("no_session", "sessionId query parameter is required"), h.log)
		return
	}

	ttlChat, ttlFacts, err := h.contexts.TTLs(c.Request.Context(), sessionID)
	if err != nil {
		apierrors.WriteError(c, apierrors.Storage("failed to read key TTLs", err), h.log)
		return
	}

	c.JSON(http.StatusOK, responses.TTLResponse{
		SessionID: sessionID,
		TTLChat:   ttlSeconds(ttlChat),
		TTLFacts:  ttlSeconds(ttlFacts),
	})
}

// ttlSeconds converts a go-redis TTL duration to the Redis wire convention:
// seconds remaining, -1 for no expiry, -2 for a missing key.
func ttlSeconds(d time.Duration) int64 {
	if d < 0 {
		return int64(d / time.Second)
	}
	return int64(d.Round(time.Second) / time.Second)
}
