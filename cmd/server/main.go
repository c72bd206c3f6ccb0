// Package main is the entry point for the flashgen server, which turns
// pasted or uploaded study material into LLM-generated flashcards that can
// be browsed and exported.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/platform/logger"
)

func main() {
	fmt.Println("flashgen server starting...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("flashgen server failed: %v", err)
	}
}

// run loads configuration, wires the application and serves until ctx is
// cancelled.
func run(ctx context.Context) error {
	cfg, log, err := initializeApp()
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return app.startHTTPServer(ctx, app.setupRouter())
}

// initializeApp loads configuration and sets up logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"llm_provider", cfg.LLM.Provider,
		"model", cfg.LLM.ModelName)
	log.Debug("LLM configuration", "api_key_present", cfg.LLM.APIKey() != "")

	return cfg, log, nil
}
