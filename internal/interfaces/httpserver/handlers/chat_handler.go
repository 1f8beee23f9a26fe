package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/config"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/session"
	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/metrics"
	chatreq "github.com/exiluzrg-design/tempochat-landing/internal/interfaces/httpserver/requests/chat"
	"github.com/exiluzrg-design/tempochat-landing/internal/interfaces/httpserver/responses"
	"github.com/exiluzrg-design/tempochat-landing/internal/utils/apierrors"
)

// ChatHandler handles the conversational turn endpoint.
type ChatHandler struct {
	cfg     *config.Config
	service *chat.Service
	issuer  *session.TokenIssuer
	log     zerolog.Logger
}

// NewChatHandler creates a chat handler. issuer may be nil when session
// tokens are not configured.
func NewChatHandler(cfg *config.Config, service *chat.Service, issuer *session.TokenIssuer, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		cfg:     cfg,
		service: service,
		issuer:  issuer,
		log:     log.With().Str("component", "chat-handler").Logger(),
	}
}

// HandleTurn processes POST /v1/chat.
func (h *ChatHandler) HandleTurn(c *gin.Context) {
	req := h.parseBody(c)

	if h.cfg.SessionTokenRequired {
		if err := h.checkSessionToken(req.SessionToken); err != nil {
			metrics.TurnsTotal.WithLabelValues(tokenOutcome(err)).Inc()
			apierrors.WriteError(c, err, h.log)
			return
		}
	}

	result, err := h.service.HandleTurn(c.Request.Context(), chat.TurnRequest{
		Text:      req.ResolvedText(),
		SessionID: req.SessionID,
		Context:   req.Turns(),
	})
	if err != nil {
		apierrors.WriteError(c, err, h.log)
		return
	}

	c.JSON(http.StatusOK, responses.TurnResponse{
		SessionID: result.SessionID,
		Message:   result.Message,
	})

	// The response is written; persistence happens off the request path.
	h.service.RecordExchange(result)
}

// parseBody reads the request body leniently: a malformed or absent body is
// treated as an empty object, not a fatal error.
func (h *ChatHandler) parseBody(c *gin.Context) *chatreq.TurnRequest {
	req := &chatreq.TurnRequest{}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		return req
	}
	if err := json.Unmarshal(body, req); err != nil {
		h.log.Debug().Err(err).Msg("malformed request body, treating as empty")
		return &chatreq.TurnRequest{}
	}
	return req
}

func tokenOutcome(err error) string {
	switch {
	case apierrors.IsType(err, apierrors.ErrorTypeSessionExpired):
		return "session_expired"
	case apierrors.IsType(err, apierrors.ErrorTypeInvalidSession):
		return "invalid_session"
	default:
		return "error"
	}
}

func (h *ChatHandler) checkSessionToken(token string) error {
	if h.issuer == nil {
		return apierrors.New(apierrors.ErrorTypeInternal, "session_error", "session tokens are not configured", nil)
	}
	if token == "" {
		return apierrors.InvalidSession("session token is required", nil)
	}
	_, err := h.issuer.Verify(token)
	return err
}
