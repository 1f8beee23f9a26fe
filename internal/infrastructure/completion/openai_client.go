// Package completion wraps the OpenAI-compatible chat completion API behind
// the domain's CompletionProvider port.
package completion

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/exiluzrg-design/tempochat-landing/internal/config"
	"github.com/exiluzrg-design/tempochat-landing/internal/domain/chat"
	"github.com/exiluzrg-design/tempochat-landing/internal/infrastructure/metrics"
	"github.com/exiluzrg-design/tempochat-landing/internal/utils/apierrors"
)

// Client implements chat.CompletionProvider against an OpenAI-compatible
// endpoint. One attempt per turn; timeouts and non-success responses map to
// the typed upstream errors.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	log         zerolog.Logger
}

// New creates a completion client from configuration.
func New(cfg *config.Config, log zerolog.Logger) *Client {
	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.OpenAIModel,
		temperature: cfg.CompletionTemperature,
		maxTokens:   cfg.CompletionMaxTokens,
		timeout:     cfg.CompletionTimeout,
		log:         log.With().Str("component", "completion-client").Logger(),
	}
}

// Complete sends system instruction + history + the new user turn and
// returns the first reply text. Empty reply content is not a valid success.
func (c *Client) Complete(ctx context.Context, system string, history []chat.Turn, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", apierrors.UpstreamTimeout(err)
		}

		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", apierrors.UpstreamError(apiErr.HTTPStatusCode, apiErr.Message, err)
		}
		return "", apierrors.UpstreamError(0, "request failed", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", apierrors.UpstreamError(200, "empty completion content", nil)
	}

	c.log.Debug().
		Str("model", resp.Model).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("completion succeeded")

	return resp.Choices[0].Message.Content, nil
}
