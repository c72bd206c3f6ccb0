package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/flashgen/internal/api"
	apiMiddleware "github.com/phrazzld/flashgen/internal/api/middleware"
	"github.com/phrazzld/flashgen/internal/web"
)

// setupRouter creates the router with all middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	flashcardHandler := api.NewFlashcardHandler(app.service, app.config.Upload.MaxBytes, app.logger)

	// Health check endpoint
	r.Get("/health", flashcardHandler.Health)

	sessions := apiMiddleware.NewSessionManager(app.sessionKey, app.config.Session.CookieName, app.idleTimeout())
	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)

		api.RegisterRoutes(r, flashcardHandler)

		pageHandler, err := web.NewPageHandler(app.service, app.config.Upload.MaxBytes, app.logger)
		if err != nil {
			// ALLOW-PANIC: embedded templates are fixed at build time
			panic(err)
		}
		web.RegisterRoutes(r, pageHandler)
	})

	return r
}
