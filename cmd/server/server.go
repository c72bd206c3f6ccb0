package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/phrazzld/flashgen/internal/session"
)

const shutdownTimeout = 10 * time.Second

// janitorInterval returns how often idle sessions are pruned.
func (app *application) janitorInterval() time.Duration {
	interval := app.idleTimeout() / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	return interval
}

// startHTTPServer serves router until ctx is cancelled, then shuts down
// gracefully. The idle-session janitor runs for the server's lifetime.
func (app *application) startHTTPServer(ctx context.Context, router http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	go session.RunJanitor(serverCtx, app.logger, app.store, app.janitorInterval(), app.idleTimeout())

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", "port", app.config.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("Server failed", "error", err)
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		app.logger.Info("Shutting down server...")
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("Server shutdown failed", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.logger.Info("Server shutdown completed")
	return nil
}
