package testutils

import (
	"context"
	"log/slog"
	"sync"
)

// LogEntry is a captured log record flattened to a map. The message is
// stored under "message" and the level under "level".
type LogEntry map[string]interface{}

// captureStore is shared between a handler and the handlers derived from it
// with WithAttrs.
type captureStore struct {
	mu      sync.Mutex
	entries []LogEntry
}

// TestSlogHandler is a memory-backed slog.Handler for asserting on logs.
type TestSlogHandler struct {
	store *captureStore
	attrs []slog.Attr
}

// NewTestSlogHandler creates an empty TestSlogHandler.
func NewTestSlogHandler() *TestSlogHandler {
	return &TestSlogHandler{store: &captureStore{}}
}

// NewTestLogger returns a logger writing to a new TestSlogHandler.
func NewTestLogger() (*slog.Logger, *TestSlogHandler) {
	h := NewTestSlogHandler()
	return slog.New(h), h
}

// Enabled implements slog.Handler.
func (h *TestSlogHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// Handle implements slog.Handler.
func (h *TestSlogHandler) Handle(_ context.Context, r slog.Record) error {
	entry := make(LogEntry, len(h.attrs)+r.NumAttrs()+2)
	entry["level"] = r.Level.String()
	entry["message"] = r.Message
	for _, a := range h.attrs {
		entry[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		entry[a.Key] = a.Value.Any()
		return true
	})

	h.store.mu.Lock()
	h.store.entries = append(h.store.entries, entry)
	h.store.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler.
func (h *TestSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TestSlogHandler{store: h.store, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened.
func (h *TestSlogHandler) WithGroup(string) slog.Handler {
	return h
}

// Entries returns a copy of all captured entries.
func (h *TestSlogHandler) Entries() []LogEntry {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := make([]LogEntry, len(h.store.entries))
	copy(out, h.store.entries)
	return out
}

// Find returns the first entry with the given message.
func (h *TestSlogHandler) Find(message string) (LogEntry, bool) {
	for _, e := range h.Entries() {
		if e["message"] == message {
			return e, true
		}
	}
	return nil, false
}

// Clear discards captured entries.
func (h *TestSlogHandler) Clear() {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()
	h.store.entries = nil
}
