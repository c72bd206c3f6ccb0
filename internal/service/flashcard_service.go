package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/phrazzld/flashgen/internal/content"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/export"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/prompt"
	"github.com/phrazzld/flashgen/internal/redact"
	"github.com/phrazzld/flashgen/internal/session"
)

// Bounds on the requested card count.
const (
	MinCards     = 5
	MaxCards     = 25
	DefaultCards = 15
)

// MinContentLength is the minimum trimmed source length, in characters.
const MinContentLength = 100

// GenerateInput is the request for a new batch.
type GenerateInput struct {
	Content string
	Subject domain.Subject
	Count   int
}

// UploadResult carries the text extracted from an upload along with the
// session state after generation.
type UploadResult struct {
	Extracted string
	State     session.State
}

// FlashcardService provides the flashcard use cases for one session at a
// time.
type FlashcardService interface {
	// Generate replaces the session's batch with cards generated from
	// in.Content. On any error the previous batch is kept.
	Generate(ctx context.Context, sessionID uuid.UUID, in GenerateInput) (session.State, error)

	// GenerateFromUpload extracts text from upload and calls Generate.
	GenerateFromUpload(
		ctx context.Context,
		sessionID uuid.UUID,
		upload content.Upload,
		subject domain.Subject,
		count int,
	) (UploadResult, error)

	// State returns the session's current state.
	State(ctx context.Context, sessionID uuid.UUID) session.State

	// Navigate applies a viewer action to the session.
	Navigate(ctx context.Context, sessionID uuid.UUID, action session.ActionType) (session.State, error)

	// Export renders the session's batch. It returns export.ErrNoCards for
	// an empty batch.
	Export(ctx context.Context, sessionID uuid.UUID, format export.Format, now time.Time) ([]byte, error)

	// Enabled reports whether a generator is configured.
	Enabled() bool
}

type flashcardServiceImpl struct {
	generator generation.Generator
	prompts   *prompt.Builder
	store     *session.Store
	logger    *slog.Logger
}

// NewFlashcardService creates a FlashcardService. A nil generator is
// allowed and makes Generate return ErrGenerationDisabled.
func NewFlashcardService(
	generator generation.Generator,
	prompts *prompt.Builder,
	store *session.Store,
	logger *slog.Logger,
) (FlashcardService, error) {
	if prompts == nil {
		return nil, domain.NewValidationError("prompts", "cannot be nil", domain.ErrValidation)
	}
	if store == nil {
		return nil, domain.NewValidationError("store", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &flashcardServiceImpl{
		generator: generator,
		prompts:   prompts,
		store:     store,
		logger:    logger.With(slog.String("component", "flashcard_service")),
	}, nil
}

// ValidateContent checks that text is long enough to generate from.
func ValidateContent(text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyContent
	}
	if n := utf8.RuneCountInString(trimmed); n < MinContentLength {
		return fmt.Errorf("%w: %d characters, need at least %d", ErrContentTooShort, n, MinContentLength)
	}
	return nil
}

func (s *flashcardServiceImpl) Enabled() bool {
	return s.generator != nil
}

func (s *flashcardServiceImpl) Generate(
	ctx context.Context,
	sessionID uuid.UUID,
	in GenerateInput,
) (session.State, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("session_id", sessionID.String()))

	if err := ValidateContent(in.Content); err != nil {
		log.Debug("rejected generation input", slog.String("error", err.Error()))
		return s.store.Get(sessionID), err
	}
	if s.generator == nil {
		return s.store.Get(sessionID), ErrGenerationDisabled
	}

	if err := s.store.BeginGeneration(sessionID); err != nil {
		log.Warn("generation already running for session")
		return s.store.Get(sessionID), err
	}
	defer s.store.EndGeneration(sessionID)

	cleaned := content.Clean(in.Content)
	text, err := s.prompts.Build(cleaned, in.Subject, in.Count)
	if err != nil {
		log.Error("failed to build prompt", slog.String("error", err.Error()))
		return s.store.Get(sessionID), NewFlashcardServiceError("generate", "failed to build prompt", err)
	}

	log.Info("generating flashcards",
		slog.String("subject", string(in.Subject)),
		slog.Int("requested", in.Count),
		slog.Int("content_length", len(cleaned)))

	cards, err := s.generator.GenerateCards(ctx, text)
	if err != nil {
		log.Error("flashcard generation failed", slog.String("error", redact.Error(err)))
		return s.store.Get(sessionID), NewFlashcardServiceError(
			"generate", "model call failed", fmt.Errorf("%w: %w", ErrGenerationFailed, err))
	}
	if len(cards) == 0 {
		log.Warn("model returned no flashcards")
		return s.store.Get(sessionID), NewFlashcardServiceError("generate", "model returned no flashcards", ErrGenerationFailed)
	}
	if len(cards) != in.Count {
		log.Warn("model returned a different number of flashcards than requested",
			slog.Int("requested", in.Count),
			slog.Int("generated", len(cards)))
	}

	state, err := s.store.Apply(sessionID, session.Action{Type: session.ActionReplaceBatch, Batch: cards})
	if err != nil {
		return state, NewFlashcardServiceError("generate", "failed to store batch", err)
	}

	log.Info("generated flashcards", slog.Int("card_count", state.Total()))
	return state, nil
}

func (s *flashcardServiceImpl) GenerateFromUpload(
	ctx context.Context,
	sessionID uuid.UUID,
	upload content.Upload,
	subject domain.Subject,
	count int,
) (UploadResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	text, err := content.Extract(upload)
	if err != nil {
		log.Warn("failed to extract upload",
			slog.String("media_type", upload.ResolveMediaType()),
			slog.Int("size", len(upload.Data)),
			slog.String("error", redact.Error(err)))
		return UploadResult{State: s.store.Get(sessionID)}, err
	}

	state, err := s.Generate(ctx, sessionID, GenerateInput{Content: text, Subject: subject, Count: count})
	return UploadResult{Extracted: text, State: state}, err
}

func (s *flashcardServiceImpl) State(ctx context.Context, sessionID uuid.UUID) session.State {
	return s.store.Get(sessionID)
}

func (s *flashcardServiceImpl) Navigate(
	ctx context.Context,
	sessionID uuid.UUID,
	action session.ActionType,
) (session.State, error) {
	if action == session.ActionReplaceBatch {
		return s.store.Get(sessionID), fmt.Errorf("%w: %q", session.ErrUnknownAction, action)
	}

	state, err := s.store.Apply(sessionID, session.Action{Type: action})
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("navigation rejected",
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
	}
	return state, err
}

func (s *flashcardServiceImpl) Export(
	ctx context.Context,
	sessionID uuid.UUID,
	format export.Format,
	now time.Time,
) ([]byte, error) {
	state := s.store.Get(sessionID)
	data, err := export.Render(format, state.Cards, now)
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("exported flashcards",
		slog.String("format", string(format)),
		slog.Int("card_count", state.Total()))
	return data, nil
}
