// Package web serves the three browser screens: Generate Flashcards, View
// Flashcards and Export. Screens are server-rendered html/template pages;
// viewer and download actions follow post/redirect/get and report through
// session flashes.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/phrazzld/flashgen/internal/api/middleware"
	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/platform/logger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Screen names, also used to highlight the navigation entry.
const (
	pageGenerate = "generate"
	pageView     = "view"
	pageExport   = "export"
)

var funcs = template.FuncMap{
	"inc":      func(i int) int { return i + 1 },
	"truncate": truncate,
}

// truncate returns at most n characters of s.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, 3)
	for _, name := range []string{pageGenerate, pageView, pageExport} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func pageTitle(name string) string {
	switch name {
	case pageView:
		return "View Flashcards"
	case pageExport:
		return "Export"
	default:
		return "Generate Flashcards"
	}
}

// pageData is the root value passed to every screen.
type pageData struct {
	Title   string
	Page    string
	Flashes []middleware.Flash
	Data    any
}

type generateData struct {
	Enabled     bool
	Subjects    []domain.Subject
	Subject     domain.Subject
	MinCards    int
	MaxCards    int
	NumCards    int
	InputMethod string
	Content     string
	Preview     string
}

type viewData struct {
	HasCards    bool
	Card        domain.Flashcard
	Position    int
	Total       int
	ShowAnswer  bool
	CanPrevious bool
	CanNext     bool
}

type exportData struct {
	Cards   []domain.Flashcard
	Preview []domain.Flashcard
	Total   int
}

// render executes page into a buffer before writing so a template error
// never produces a half-written page. Queued flashes are prepended to
// messages.
func (h *PageHandler) render(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	messages []middleware.Flash,
	data any,
) {
	flashes := append(middleware.PopFlashes(w, r), messages...)

	var buf bytes.Buffer
	err := h.pages[page].ExecuteTemplate(&buf, "layout", pageData{
		Title:   pageTitle(page),
		Page:    page,
		Flashes: flashes,
		Data:    data,
	})
	if err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Error("failed to render page",
			"page", page,
			"error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
