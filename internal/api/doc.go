// Package api exposes the flashcard operations as JSON endpoints. Handlers
// translate HTTP concerns to FlashcardService calls and map service errors
// to status codes and sanitized messages.
package api
