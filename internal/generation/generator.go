package generation

import (
	"context"

	"github.com/phrazzld/flashgen/internal/domain"
)

// Generator defines the interface for generating flashcards from a prompt.
// This interface serves as a boundary between the application core and
// external AI/LLM services.
type Generator interface {
	// GenerateCards submits prompt to the model and returns the decoded cards.
	//
	// The number of cards is whatever the model returned; callers must not
	// assume it matches the count requested in the prompt. An error means the
	// whole batch is discarded.
	GenerateCards(ctx context.Context, prompt string) ([]domain.Flashcard, error)
}
