package web

import (
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/flashgen/internal/api"
	"github.com/phrazzld/flashgen/internal/api/middleware"
	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/export"
	"github.com/phrazzld/flashgen/internal/platform/logger"
	"github.com/phrazzld/flashgen/internal/redact"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/session"
)

// Preview limits.
const (
	contentPreviewChars = 500
	exportPreviewCards  = 5
)

const (
	inputMethodFile      = "file"
	errCardCountTemplate = "Number of flashcards must be between %d and %d."
)

// PageHandler renders the browser screens.
type PageHandler struct {
	service        service.FlashcardService
	pages          map[string]*template.Template
	logger         *slog.Logger
	maxUploadBytes int64
	now            func() time.Time
}

// NewPageHandler parses the embedded templates and creates a PageHandler.
func NewPageHandler(svc service.FlashcardService, maxUploadBytes int64, logger *slog.Logger) (*PageHandler, error) {
	if svc == nil {
		return nil, domain.NewValidationError("service", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		service:        svc,
		pages:          pages,
		logger:         logger.With(slog.String("component", "page_handler")),
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}, nil
}

// RegisterRoutes mounts the screens on r. The session middleware must
// already be installed on r.
func RegisterRoutes(r chi.Router, h *PageHandler) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/generate", http.StatusSeeOther)
	})
	r.Get("/generate", h.GenerateForm)
	r.Post("/generate", h.Generate)
	r.Get("/view", h.View)
	r.Post("/view/previous", h.navigate(session.ActionPrevious))
	r.Post("/view/next", h.navigate(session.ActionNext))
	r.Post("/view/toggle", h.navigate(session.ActionToggleAnswer))
	r.Get("/export", h.Export)
	r.Get("/export/{format}", h.Download)
}

func sessionID(r *http.Request) uuid.UUID {
	id, _ := shared.GetSessionID(r.Context())
	return id
}

func (h *PageHandler) defaultForm() generateData {
	return generateData{
		Enabled:     h.service.Enabled(),
		Subjects:    domain.Subjects,
		Subject:     domain.SubjectGeneral,
		MinCards:    service.MinCards,
		MaxCards:    service.MaxCards,
		NumCards:    service.DefaultCards,
		InputMethod: "text",
	}
}

// GenerateForm handles GET /generate.
func (h *PageHandler) GenerateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, pageGenerate, nil, h.defaultForm())
}

// Generate handles POST /generate. The result is rendered in place so the
// form keeps its values and an upload can be previewed.
func (h *PageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	form := h.defaultForm()

	fail := func(err error) {
		h.render(w, r, api.MapErrorToStatusCode(err), pageGenerate, []middleware.Flash{
			{Kind: middleware.FlashError, Message: api.GetSafeErrorMessage(err)},
		}, form)
	}

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := shared.ParseMultipart(w, r, h.maxUploadBytes); err != nil {
			fail(err)
			return
		}
		defer shared.CleanupMultipart(r)
	} else if err := r.ParseForm(); err != nil {
		fail(fmt.Errorf("%w: %v", shared.ErrMalformedRequest, err))
		return
	}

	form.Subject = domain.NormalizeSubject(r.FormValue("subject"))
	form.Content = r.FormValue("content")
	if r.FormValue("input_method") == inputMethodFile {
		form.InputMethod = inputMethodFile
	}
	if raw := strings.TrimSpace(r.FormValue("num_cards")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < service.MinCards || n > service.MaxCards {
			h.render(w, r, http.StatusBadRequest, pageGenerate, []middleware.Flash{{
				Kind:    middleware.FlashError,
				Message: fmt.Sprintf(errCardCountTemplate, service.MinCards, service.MaxCards),
			}}, form)
			return
		}
		form.NumCards = n
	}

	var (
		state    session.State
		messages []middleware.Flash
		err      error
	)
	if form.InputMethod == inputMethodFile {
		upload, readErr := shared.ReadUpload(r, "file", h.maxUploadBytes)
		if readErr != nil {
			fail(readErr)
			return
		}
		var res service.UploadResult
		res, err = h.service.GenerateFromUpload(r.Context(), sessionID(r), upload, form.Subject, form.NumCards)
		if res.Extracted != "" {
			form.Preview = preview(res.Extracted)
			messages = append(messages, middleware.Flash{
				Kind: middleware.FlashSuccess,
				Message: fmt.Sprintf("File uploaded successfully! Content length: %d characters",
					utf8.RuneCountInString(res.Extracted)),
			})
		}
		state = res.State
	} else {
		state, err = h.service.Generate(r.Context(), sessionID(r), service.GenerateInput{
			Content: form.Content,
			Subject: form.Subject,
			Count:   form.NumCards,
		})
	}

	if err != nil {
		if !errors.Is(err, service.ErrEmptyContent) && !errors.Is(err, service.ErrContentTooShort) {
			log.Warn("generation from screen failed", slog.String("error", redact.Error(err)))
		}
		status := api.MapErrorToStatusCode(err)
		messages = append(messages, middleware.Flash{Kind: middleware.FlashError, Message: api.GetSafeErrorMessage(err)})
		h.render(w, r, status, pageGenerate, messages, form)
		return
	}

	messages = append(messages,
		middleware.Flash{
			Kind:    middleware.FlashSuccess,
			Message: fmt.Sprintf("Successfully generated %d flashcards!", state.Total()),
		},
		middleware.Flash{
			Kind:    middleware.FlashInfo,
			Message: "Go to 'View Flashcards' to review your generated flashcards.",
		},
	)
	h.render(w, r, http.StatusOK, pageGenerate, messages, form)
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= contentPreviewChars {
		return text
	}
	return truncate(text, contentPreviewChars) + "..."
}

// View handles GET /view.
func (h *PageHandler) View(w http.ResponseWriter, r *http.Request) {
	state := h.service.State(r.Context(), sessionID(r))

	data := viewData{
		Total:       state.Total(),
		Position:    state.Index + 1,
		ShowAnswer:  state.ShowAnswer,
		CanPrevious: state.CanPrevious(),
		CanNext:     state.CanNext(),
	}
	data.Card, data.HasCards = state.Current()

	h.render(w, r, http.StatusOK, pageView, nil, data)
}

// navigate returns a handler that applies action and redirects back to
// the viewer. Bound and empty-batch errors need no message since the
// viewer already shows them.
func (h *PageHandler) navigate(action session.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := h.service.Navigate(r.Context(), sessionID(r), action); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Debug("navigation ignored",
				slog.String("action", string(action)),
				slog.String("error", err.Error()))
		}
		http.Redirect(w, r, "/view", http.StatusSeeOther)
	}
}

// Export handles GET /export.
func (h *PageHandler) Export(w http.ResponseWriter, r *http.Request) {
	state := h.service.State(r.Context(), sessionID(r))

	data := exportData{Cards: state.Cards, Total: state.Total()}
	data.Preview = state.Cards
	if len(data.Preview) > exportPreviewCards {
		data.Preview = data.Preview[:exportPreviewCards]
	}
	h.render(w, r, http.StatusOK, pageExport, nil, data)
}

// Download handles GET /export/{format}.
func (h *PageHandler) Download(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	now := h.now()
	data, err := h.service.Export(r.Context(), sessionID(r), format, now)
	if err != nil {
		kind := middleware.FlashError
		if errors.Is(err, export.ErrNoCards) {
			kind = middleware.FlashWarning
		}
		middleware.AddFlash(w, r, kind, api.GetSafeErrorMessage(err))
		http.Redirect(w, r, "/export", http.StatusSeeOther)
		return
	}
	shared.RespondWithFile(w, r, export.Filename(format, now), format.MIMEType(), data)
}
