package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/export"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/session"
)

// FlashcardHandler serves the JSON API.
type FlashcardHandler struct {
	service        service.FlashcardService
	logger         *slog.Logger
	maxUploadBytes int64
	now            func() time.Time
}

// NewFlashcardHandler creates a FlashcardHandler. Uploads larger than
// maxUploadBytes are rejected.
func NewFlashcardHandler(
	svc service.FlashcardService,
	maxUploadBytes int64,
	logger *slog.Logger,
) *FlashcardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for FlashcardHandler")
	}

	return &FlashcardHandler{
		service:        svc,
		logger:         logger.With(slog.String("component", "flashcard_handler")),
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

// sessionIDOrError returns the session ID set by the session middleware.
func sessionIDOrError(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := shared.GetSessionID(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Session not available")
		return uuid.Nil, false
	}
	return id, true
}

func cardCount(n int) int {
	if n == 0 {
		return service.DefaultCards
	}
	return n
}

// Health handles GET /health.
func (h *FlashcardHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:            "ok",
		GenerationEnabled: h.service.Enabled(),
	})
}

// Generate handles POST /api/flashcards.
func (h *FlashcardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := sessionIDOrError(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(w, r, &req, h.maxUploadBytes); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	state, err := h.service.Generate(r.Context(), sessionID, service.GenerateInput{
		Content: req.Content,
		Subject: domain.NormalizeSubject(req.Subject),
		Count:   cardCount(req.NumCards),
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("generated flashcards via API", slog.Int("card_count", state.Total()))
	shared.RespondWithJSON(w, r, http.StatusCreated, flashcardsToResponse(state))
}

// Upload handles POST /api/flashcards/upload.
func (h *FlashcardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrError(w, r)
	if !ok {
		return
	}

	if err := shared.ParseMultipart(w, r, h.maxUploadBytes); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	defer shared.CleanupMultipart(r)

	form, err := parseUploadForm(r)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	upload, err := shared.ReadUpload(r, "file", h.maxUploadBytes)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	res, err := h.service.GenerateFromUpload(r.Context(), sessionID, upload,
		domain.NormalizeSubject(form.Subject), cardCount(form.NumCards))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := flashcardsToResponse(res.State)
	resp.ExtractedCharacters = utf8.RuneCountInString(res.Extracted)
	shared.RespondWithJSON(w, r, http.StatusCreated, resp)
}

// parseUploadForm reads and validates the form fields of an upload.
func parseUploadForm(r *http.Request) (UploadForm, error) {
	form := UploadForm{Subject: r.FormValue("subject")}
	if raw := strings.TrimSpace(r.FormValue("num_cards")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return form, domain.NewValidationError("num_cards", "must be a whole number", domain.ErrValidation)
		}
		form.NumCards = n
	}
	if err := shared.ValidateRequest(form); err != nil {
		return form, err
	}
	return form, nil
}

// GetSession handles GET /api/session.
func (h *FlashcardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrError(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(h.service.State(r.Context(), sessionID)))
}

// SessionAction handles POST /api/session/actions.
func (h *FlashcardHandler) SessionAction(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrError(w, r)
	if !ok {
		return
	}

	var req SessionActionRequest
	if err := shared.DecodeJSON(w, r, &req, h.maxUploadBytes); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	action, err := session.ParseActionType(req.Action)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	state, err := h.service.Navigate(r.Context(), sessionID, action)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// Export handles GET /api/export/{format}.
func (h *FlashcardHandler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionIDOrError(w, r)
	if !ok {
		return
	}

	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	now := h.now()
	data, err := h.service.Export(r.Context(), sessionID, format, now)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithFile(w, r, export.Filename(format, now), format.MIMEType(), data)
}
