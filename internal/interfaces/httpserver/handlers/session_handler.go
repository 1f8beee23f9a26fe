package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/domain/session"
	"github.com/exiluzrg-design/tempochat-landing/internal/interfaces/httpserver/responses"
	"github.com/exiluzrg-design/tempochat-landing/internal/utils/apierrors"
)

// SessionHandler issues time-boxed session credentials.
type SessionHandler struct {
	issuer *session.TokenIssuer
	log    zerolog.Logger
}

// NewSessionHandler creates a session handler. issuer may be nil when no
// signing secret is configured.
func NewSessionHandler(issuer *session.TokenIssuer, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		issuer: issuer,
		log:    log.With().Str("component", "session-handler").Logger(),
	}
}

// IssueToken processes POST /v1/session.
func (h *SessionHandler) IssueToken(c *gin.Context) {
	if h.issuer == nil {
		apierrors.WriteError(c, apierrors.New(apierrors.ErrorTypeInternal, "session_error",
			"session tokens are not configured", nil), h.log)
		return
	}

	token, expiresIn, err := h.issuer.Issue()
	if err != nil {
		apierrors.WriteError(c, apierrors.New(apierrors.ErrorTypeInternal, "session_error",
			"failed to issue session token", err), h.log)
		return
	}

	c.JSON(http.StatusCreated, responses.SessionTokenResponse{
		SessionToken: token,
		ExpiresIn:    expiresIn,
	})
}
