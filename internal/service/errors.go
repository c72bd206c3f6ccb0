package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by FlashcardService. The API layer maps each one
// to a status code.
var (
	// ErrEmptyContent indicates blank or whitespace-only source text.
	ErrEmptyContent = errors.New("content is empty")

	// ErrContentTooShort indicates source text below MinContentLength.
	ErrContentTooShort = errors.New("content is too short")

	// ErrGenerationDisabled indicates no model provider is configured.
	ErrGenerationDisabled = errors.New("flashcard generation is not configured")

	// ErrGenerationFailed indicates the model call failed or produced no
	// usable cards. The session keeps its previous batch.
	ErrGenerationFailed = errors.New("flashcard generation failed")
)

// FlashcardServiceError records the failing operation around an error.
type FlashcardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *FlashcardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flashcard service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("flashcard service %s failed: %s", e.Operation, e.Message)
}

// Unwrap supports errors.Is/errors.As.
func (e *FlashcardServiceError) Unwrap() error {
	return e.Err
}

// NewFlashcardServiceError creates a FlashcardServiceError.
func NewFlashcardServiceError(operation, message string, err error) *FlashcardServiceError {
	return &FlashcardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
