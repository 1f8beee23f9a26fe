package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/exiluzrg-design/tempochat-landing/internal/config"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/session"
	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/completion"
	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/contextstore"
	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/logger"
	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/turnstore"
	"github.com/exiluzrg-design/tempochat-landing/internal/interfaces/httpserver"
	"github.com/exiluzrg-design/tempochat-landing/internal/interfaces/httpserver/handlers"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Collaborators are selected once at startup; unconfigured ones get
	// no-op implementations instead of per-request presence checks.
	contexts := buildContextStore(cfg, log)
	turns := buildTurnStore(cfg, log)
	issuer := buildTokenIssuer(cfg, log)
	provider := completion.New(cfg, log)

	recorder := chat.NewRecorder(turns, contexts, cfg.PersistTagsOnly, cfg.RecordTimeout, log)
	service := chat.NewService(cfg, provider, contexts, recorder, log)

	handlerProvider := handlers.NewProvider(cfg, service, issuer, contexts, log)
	server := httpserver.New(cfg, log, handlerProvider)

	log.Info().
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Bool("context_store", cfg.ContextStoreEnabled()).
		Bool("turn_store", cfg.TurnStoreEnabled()).
		Bool("session_tokens_required", cfg.SessionTokenRequired).
		Msg("starting chat API")

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("HTTP server stopped with error")
	}

	// Give in-flight background turn writes a chance to finish.
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := recorder.Drain(drainCtx); err != nil {
		log.Warn().Err(err).Msg("recorder drain timed out, some turn writes were lost")
	}

	log.Info().Msg("chat API exited cleanly")
}

func buildContextStore(cfg *config.Config, log zerolog.Logger) chat.ContextStore {
	if !cfg.ContextStoreEnabled() {
		log.Info().Msg("no REDIS_URL configured, running without conversation memory")
		return contextstore.NewNoopStore()
	}

	store, err := contextstore.NewRedisStore(cfg.RedisURL, cfg.ContextMaxTurns, cfg.ContextTTL, log)
	if err != nil {
		// Context is an optimization, not a correctness requirement: the
		// chat still answers without it.
		log.Warn().Err(err).Msg("context store unavailable, running without conversation memory")
		return contextstore.NewNoopStore()
	}
	return store
}

func buildTurnStore(cfg *config.Config, log zerolog.Logger) chat.TurnStore {
	if !cfg.TurnStoreEnabled() {
		log.Info().Msg("no Supabase configured, turns will not be durably recorded")
		return turnstore.NewNoopStore()
	}

	store, err := turnstore.NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, log)
	if err != nil {
		log.Warn().Err(err).Msg("turn store unavailable, turns will not be durably recorded")
		return turnstore.NewNoopStore()
	}
	return store
}

func buildTokenIssuer(cfg *config.Config, log zerolog.Logger) *session.TokenIssuer {
	if cfg.SessionJWTSecret == "" {
		return nil
	}

	issuer, err := session.NewTokenIssuer(cfg.SessionJWTSecret, cfg.SessionTokenTTL)
	if err != nil {
		log.Warn().Err(err).Msg("session token issuer unavailable")
		return nil
	}
	return issuer
}

func loadEnvFiles() {
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
