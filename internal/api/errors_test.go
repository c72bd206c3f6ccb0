package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/content"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/export"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/session"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"empty content", service.ErrEmptyContent, http.StatusBadRequest},
		{"short content", fmt.Errorf("%w: 12 characters", service.ErrContentTooShort), http.StatusBadRequest},
		{"unknown action", session.ErrUnknownAction, http.StatusBadRequest},
		{"unknown format", export.ErrUnknownFormat, http.StatusBadRequest},
		{"domain validation", domain.NewValidationError("num_cards", "must be a whole number", domain.ErrValidation), http.StatusBadRequest},
		{"first card", session.ErrAtFirstCard, http.StatusConflict},
		{"last card", session.ErrAtLastCard, http.StatusConflict},
		{"no cards", session.ErrNoCards, http.StatusConflict},
		{"busy", session.ErrGenerationInProgress, http.StatusConflict},
		{"nothing to export", export.ErrNoCards, http.StatusConflict},
		{"too large", shared.ErrUploadTooLarge, http.StatusRequestEntityTooLarge},
		{"unsupported", content.ErrUnsupportedType, http.StatusUnsupportedMediaType},
		{"extraction", content.ErrExtractionFailed, http.StatusUnprocessableEntity},
		{"encoding", content.ErrInvalidEncoding, http.StatusUnprocessableEntity},
		{
			"generation",
			service.NewFlashcardServiceError("generate", "model call failed",
				fmt.Errorf("%w: %w", service.ErrGenerationFailed, generation.ErrContentBlocked)),
			http.StatusBadGateway,
		},
		{
			"generation wrapping card validation",
			fmt.Errorf("%w: %w", service.ErrGenerationFailed, domain.NewValidationError("answer", "is required", domain.ErrEmptyAnswer)),
			http.StatusBadGateway,
		},
		{"disabled", service.ErrGenerationDisabled, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessageDoesNotLeak(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("%w: %w", service.ErrGenerationFailed,
		errors.New("POST https://example.com/v1?key=AIzaSyA1234567890abcdefghijklmnopqrstu: 403"))
	msg := GetSafeErrorMessage(err)
	assert.Equal(t, "Failed to generate flashcards. Please try again with different content.", msg)
	assert.NotContains(t, msg, "AIza")

	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(errors.New("/etc/secret")))
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(GenerateRequest{Content: "x", NumCards: 30})
	require.Error(t, err)
	assert.Equal(t, "Invalid num_cards: must be at most 25", GetSafeErrorMessage(err))

	err = shared.ValidateRequest(SessionActionRequest{})
	require.Error(t, err)
	assert.Equal(t, "Invalid action: required field", GetSafeErrorMessage(err))
}
