package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/platform/gemini"
	"github.com/phrazzld/flashgen/internal/platform/openai"
	"github.com/phrazzld/flashgen/internal/prompt"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/session"
)

// application holds the wired dependencies of the server.
type application struct {
	config     *config.Config
	logger     *slog.Logger
	store      *session.Store
	service    service.FlashcardService
	sessionKey []byte
}

// newApplication wires the service graph from cfg. A missing API key
// leaves generation disabled rather than failing startup.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	gen, err := newGenerator(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, err
	}

	prompts, err := prompt.NewBuilder(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	store := session.NewStore()
	svc, err := service.NewFlashcardService(gen, prompts, store, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create flashcard service: %w", err)
	}

	key, err := sessionKey(cfg.Session, logger)
	if err != nil {
		return nil, err
	}

	return &application{
		config:     cfg,
		logger:     logger,
		store:      store,
		service:    svc,
		sessionKey: key,
	}, nil
}

// newGenerator returns the generator for the configured provider, or nil
// when its API key is not set.
func newGenerator(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Generator, error) {
	if cfg.APIKey() == "" {
		logger.Warn("no API key configured for LLM provider, flashcard generation is disabled",
			"provider", cfg.Provider)
		return nil, nil
	}

	switch cfg.Provider {
	case "openai":
		gen, err := openai.NewOpenAIGenerator(logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai generator: %w", err)
		}
		return gen, nil
	default:
		gen, err := gemini.NewGeminiGenerator(ctx, logger, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini generator: %w", err)
		}
		return gen, nil
	}
}

// sessionKey returns the cookie signing key, generating a random one when
// none is configured.
func sessionKey(cfg config.SessionConfig, logger *slog.Logger) ([]byte, error) {
	if cfg.Secret != "" {
		return []byte(cfg.Secret), nil
	}

	key := securecookie.GenerateRandomKey(32)
	if key == nil {
		return nil, errors.New("failed to generate session key")
	}
	logger.Warn("no session secret configured, sessions will not survive a restart")
	return key, nil
}

func (app *application) idleTimeout() time.Duration {
	return time.Duration(app.config.Session.IdleTimeoutMinutes) * time.Minute
}
