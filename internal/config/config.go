package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the chat API service.
// Components receive this struct at construction time and never read
// environment variables themselves.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-api"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"CHAT_API_PORT" envDefault:"8188"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Completion provider (OpenAI-compatible)
	OpenAIAPIKey          string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL         string        `env:"OPENAI_BASE_URL" envDefault:""`
	OpenAIModel           string        `env:"OPENAI_MODEL" envDefault:"gpt-4.1-mini"`
	CompletionTimeout     time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"12s"`
	CompletionTemperature float32       `env:"COMPLETION_TEMPERATURE" envDefault:"0.7"`
	CompletionMaxTokens   int           `env:"COMPLETION_MAX_TOKENS" envDefault:"512"`

	// Chat pipeline
	SystemPrompt  string `env:"CHAT_SYSTEM_PROMPT" envDefault:""`
	FallbackReply string `env:"CHAT_FALLBACK_REPLY" envDefault:""`

	// Context window
	ContextMaxTurns int           `env:"CONTEXT_MAX_TURNS" envDefault:"30"`
	ContextTTL      time.Duration `env:"CONTEXT_TTL" envDefault:"24h"`

	// Context store (optional; the chat works without memory when unset)
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Durable turn store (optional)
	SupabaseURL        string        `env:"SUPABASE_URL" envDefault:""`
	SupabaseServiceKey string        `env:"SUPABASE_SERVICE_ROLE_KEY" envDefault:""`
	PersistTagsOnly    bool          `env:"PERSIST_TAGS_ONLY" envDefault:"false"`
	RecordTimeout      time.Duration `env:"RECORD_TIMEOUT" envDefault:"5s"`

	// Session tokens
	SessionJWTSecret     string        `env:"SESSION_JWT_SECRET" envDefault:""`
	SessionTokenTTL      time.Duration `env:"SESSION_TOKEN_TTL" envDefault:"10m"`
	SessionTokenRequired bool          `env:"SESSION_TOKEN_REQUIRED" envDefault:"false"`
}

// Load parses environment variables into Config and validates them.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	if cfg.SessionTokenRequired && strings.TrimSpace(cfg.SessionJWTSecret) == "" {
		return nil, fmt.Errorf("SESSION_JWT_SECRET is required when SESSION_TOKEN_REQUIRED is true")
	}

	// Supabase URL and service key only make sense together.
	if (cfg.SupabaseURL == "") != (cfg.SupabaseServiceKey == "") {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY must both be set or both be empty")
	}

	if cfg.ContextMaxTurns <= 0 {
		return nil, fmt.Errorf("CONTEXT_MAX_TURNS must be positive")
	}

	return cfg, nil
}

// Addr returns the HTTP server address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// ContextStoreEnabled reports whether a Redis context store is configured.
func (c *Config) ContextStoreEnabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// TurnStoreEnabled reports whether a Supabase turn store is configured.
func (c *Config) TurnStoreEnabled() bool {
	return strings.TrimSpace(c.SupabaseURL) != "" && strings.TrimSpace(c.SupabaseServiceKey) != ""
}

// EnvPresence reports which of the service's key environment-backed settings
// carry a value. Used by the diagnostics endpoint; values are never exposed.
func (c *Config) EnvPresence() map[string]bool {
	return map[string]bool{
		"OPENAI_API_KEY":            c.OpenAIAPIKey != "",
		"OPENAI_MODEL":              c.OpenAIModel != "",
		"REDIS_URL":                 c.RedisURL != "",
		"SUPABASE_URL":              c.SupabaseURL != "",
		"SUPABASE_SERVICE_ROLE_KEY": c.SupabaseServiceKey != "",
		"SESSION_JWT_SECRET":        c.SessionJWTSecret != "",
	}
}
