package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/content"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/export"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/session"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing their types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	// Upstream model failures may wrap validation errors from decoded cards
	case errors.Is(err, service.ErrGenerationFailed):
		return http.StatusBadGateway

	case errors.Is(err, service.ErrGenerationDisabled):
		return http.StatusServiceUnavailable

	// Invalid input
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrContentTooShort),
		errors.Is(err, session.ErrUnknownAction),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, shared.ErrMissingUpload),
		errors.Is(err, shared.ErrMalformedRequest),
		errors.Is(err, domain.ErrValidation),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Navigation bounds, busy sessions and empty batches
	case errors.Is(err, session.ErrAtFirstCard),
		errors.Is(err, session.ErrAtLastCard),
		errors.Is(err, session.ErrNoCards),
		errors.Is(err, session.ErrGenerationInProgress),
		errors.Is(err, export.ErrNoCards):
		return http.StatusConflict

	case errors.Is(err, shared.ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge

	case errors.Is(err, content.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType

	case errors.Is(err, content.ErrExtractionFailed),
		errors.Is(err, content.ErrInvalidEncoding):
		return http.StatusUnprocessableEntity

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		validationErrs validator.ValidationErrors
		domainErr      *domain.ValidationError
	)
	switch {
	case errors.Is(err, service.ErrGenerationFailed):
		return "Failed to generate flashcards. Please try again with different content."
	case errors.Is(err, service.ErrGenerationDisabled):
		return "Flashcard generation is not configured. Set an API key and restart the server."

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)
	case errors.As(err, &domainErr):
		return "Invalid " + domainErr.Error()

	case errors.Is(err, service.ErrEmptyContent):
		return "Please provide some educational content to generate flashcards."
	case errors.Is(err, service.ErrContentTooShort):
		return "Content is too short. Please provide more substantial educational material."
	case errors.Is(err, shared.ErrMissingUpload):
		return "Please choose a .txt or .pdf file to upload."
	case errors.Is(err, shared.ErrMalformedRequest):
		return "Invalid request format"
	case errors.Is(err, session.ErrUnknownAction):
		return "Unknown action"
	case errors.Is(err, export.ErrUnknownFormat):
		return "Unknown export format"

	case errors.Is(err, session.ErrAtFirstCard):
		return "Already at the first card"
	case errors.Is(err, session.ErrAtLastCard):
		return "Already at the last card"
	case errors.Is(err, session.ErrNoCards):
		return "No flashcards generated yet. Please generate some flashcards first."
	case errors.Is(err, export.ErrNoCards):
		return "No flashcards to export."
	case errors.Is(err, session.ErrGenerationInProgress):
		return "Flashcards are already being generated. Please wait."

	case errors.Is(err, shared.ErrUploadTooLarge):
		return "The uploaded file is too large."
	case errors.Is(err, content.ErrUnsupportedType):
		return "Unsupported file type. Supported formats: .txt, .pdf"
	case errors.Is(err, content.ErrInvalidEncoding):
		return "The text file is not valid UTF-8."
	case errors.Is(err, content.ErrExtractionFailed):
		return "Error reading PDF file."

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError describes the first failed field without
// echoing submitted values.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}
	fe := errs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe))
}

func getValidationTagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "validation failed"
	}
}

// HandleAPIError writes the mapped status and safe message for err,
// logging the redacted details.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}
