// Package openai implements generation.Generator against OpenAI-compatible
// chat completion APIs using github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openaiapi "github.com/sashabaranov/go-openai"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/redact"
)

// ChatCompleter is the subset of *openaiapi.Client used by OpenAIGenerator.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openaiapi.ChatCompletionRequest) (openaiapi.ChatCompletionResponse, error)
}

// OpenAIGenerator sends prompts as a single user message and decodes the reply.
type OpenAIGenerator struct {
	logger  *slog.Logger
	client  ChatCompleter
	model   string
	timeout time.Duration
}

var _ generation.Generator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator creates an OpenAIGenerator for the configured endpoint.
func NewOpenAIGenerator(logger *slog.Logger, cfg config.LLMConfig) (*OpenAIGenerator, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	clientCfg := openaiapi.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	return NewWithClient(logger, openaiapi.NewClientWithConfig(clientCfg), cfg)
}

// NewWithClient creates an OpenAIGenerator around an existing chat client.
func NewWithClient(logger *slog.Logger, client ChatCompleter, cfg config.LLMConfig) (*OpenAIGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("%w: chat client cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	return &OpenAIGenerator{
		logger:  logger,
		client:  client,
		model:   cfg.ModelName,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// GenerateCards implements generation.Generator.
func (g *OpenAIGenerator) GenerateCards(ctx context.Context, prompt string) ([]domain.Flashcard, error) {
	if prompt == "" {
		return nil, generation.ErrEmptyPrompt
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.InfoContext(ctx, "Making chat completion call",
		"model", g.model,
		"prompt_length", len(prompt))

	resp, err := g.client.CreateChatCompletion(ctx, openaiapi.ChatCompletionRequest{
		Model: g.model,
		Messages: []openaiapi.ChatCompletionMessage{
			{Role: openaiapi.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openaiapi.ChatCompletionResponseFormat{
			Type: openaiapi.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Chat completion call failed", "error", redact.Error(err))
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openaiapi.FinishReasonContentFilter {
		return nil, fmt.Errorf("%w: content filtered", generation.ErrContentBlocked)
	}

	cards, err := generation.DecodeResponse(choice.Message.Content)
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to decode chat completion",
			"error", err,
			"response_length", len(choice.Message.Content))
		return nil, err
	}

	g.logger.InfoContext(ctx, "Chat completion call successful", "card_count", len(cards))
	return cards, nil
}
