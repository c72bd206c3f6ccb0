// Package service contains the application use cases. FlashcardService
// turns source text into a flashcard batch and exposes the viewer and
// export operations over the per-session state, so the web screens and the
// JSON API share one implementation.
//
// Dependencies arrive by constructor injection: a generation.Generator
// (nil disables generation), a prompt.Builder and a session.Store.
//
// Errors are sentinel values checked with errors.Is; the API layer maps
// them to HTTP status codes.
package service
