// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API for generating flashcards from a prompt.
//
// This package is an infrastructure adapter: it submits the prompt built by
// internal/prompt, collects the text of the first candidate, and hands it to
// generation.DecodeResponse. Safety blocks surface as
// generation.ErrContentBlocked; every other failure wraps
// generation.ErrGenerationFailed or generation.ErrInvalidResponse. There is
// no retry: a failed call discards the batch.
package gemini
