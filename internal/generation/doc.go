// Package generation defines the boundary between flashgen and the hosted
// language models that write flashcards. The Generator interface is
// implemented by adapters under internal/platform (Gemini, OpenAI-compatible
// chat APIs); this package also owns decoding of the model's JSON reply into
// domain.Flashcard values so every adapter applies the same rules.
package generation
