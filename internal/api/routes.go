package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the JSON API on r. The session middleware must
// already be installed on r.
func RegisterRoutes(r chi.Router, h *FlashcardHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/flashcards", h.Generate)
		r.Post("/flashcards/upload", h.Upload)
		r.Get("/session", h.GetSession)
		r.Post("/session/actions", h.SessionAction)
		r.Get("/export/{format}", h.Export)
	})
}
