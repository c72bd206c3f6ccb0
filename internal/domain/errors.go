package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDifficulty is returned when a difficulty label is not one of Easy, Medium, Hard.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrEmptyQuestion is returned when a flashcard has no question text.
	ErrEmptyQuestion = errors.New("flashcard question cannot be empty")

	// ErrEmptyAnswer is returned when a flashcard has no answer text.
	ErrEmptyAnswer = errors.New("flashcard answer cannot be empty")
)

// ValidationError names the field that failed validation and wraps the cause.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + " " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
