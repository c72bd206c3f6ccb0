package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/redact"
	"google.golang.org/genai"
)

// ContentGenerator is the subset of *genai.Models used by GeminiGenerator.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
type GeminiGenerator struct {
	logger  *slog.Logger
	models  ContentGenerator
	model   string
	timeout time.Duration
}

var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a GeminiGenerator backed by a real Gemini client.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return NewWithClient(logger, client.Models, cfg)
}

// NewWithClient creates a GeminiGenerator around an existing model client.
func NewWithClient(logger *slog.Logger, models ContentGenerator, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if models == nil {
		return nil, fmt.Errorf("%w: model client cannot be nil", generation.ErrInvalidConfig)
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	return &GeminiGenerator{
		logger:  logger,
		models:  models,
		model:   cfg.ModelName,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
	}, nil
}

// GenerateCards sends prompt to Gemini and decodes the reply.
func (g *GeminiGenerator) GenerateCards(ctx context.Context, prompt string) ([]domain.Flashcard, error) {
	if prompt == "" {
		return nil, generation.ErrEmptyPrompt
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	g.logger.InfoContext(ctx, "Making Gemini API call",
		"model", g.model,
		"prompt_length", len(prompt))

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	text, err := responseText(resp)
	if err != nil {
		g.logger.WarnContext(ctx, "Gemini returned no usable content", "error", err)
		return nil, err
	}

	cards, err := generation.DecodeResponse(text)
	if err != nil {
		g.logger.WarnContext(ctx, "Failed to decode Gemini response",
			"error", err,
			"response_length", len(text))
		return nil, err
	}

	g.logger.InfoContext(ctx, "Gemini API call successful",
		"card_count", len(cards),
		"duration_ms", time.Since(start).Milliseconds())
	return cards, nil
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
