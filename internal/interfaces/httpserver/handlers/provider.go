package handlers

import (
	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/config"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/session"
)

// Provider bundles all HTTP handlers.
type Provider struct {
	Chat        *ChatHandler
	Session     *SessionHandler
	Diagnostics *DiagnosticsHandler
}

// NewProvider creates all handlers.
func NewProvider(
	cfg *config.Config,
	service *chat.Service,
	issuer *session.TokenIssuer,
	contexts chat.ContextStore,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:        NewChatHandler(cfg, service, issuer, log),
		Session:     NewSessionHandler(issuer, log),
		Diagnostics: NewDiagnosticsHandler(cfg, contexts, log),
	}
}
