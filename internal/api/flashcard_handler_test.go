package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashgen/internal/api"
	"github.com/phrazzld/flashgen/internal/api/middleware"
	"github.com/phrazzld/flashgen/internal/api/shared"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/phrazzld/flashgen/internal/mocks"
	"github.com/phrazzld/flashgen/internal/prompt"
	"github.com/phrazzld/flashgen/internal/service"
	"github.com/phrazzld/flashgen/internal/session"
)

var longContent = strings.Repeat("Photosynthesis converts light energy into chemical energy. ", 4)

type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestClient(t *testing.T, gen generation.Generator) *testClient {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	builder, err := prompt.NewBuilder("")
	require.NoError(t, err)
	svc, err := service.NewFlashcardService(gen, builder, session.NewStore(), log)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(middleware.NewTraceMiddleware(log))
	r.Use(middleware.NewSessionManager([]byte(strings.Repeat("k", 32)), "flashgen-test", time.Hour).Middleware)
	h := api.NewFlashcardHandler(svc, 1024, log)
	r.Get("/health", h.Health)
	api.RegisterRoutes(r, h)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{t: t, server: server, client: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path, contentType string, body io.Reader) *http.Response {
	c.t.Helper()

	req, err := http.NewRequest(method, c.server.URL+path, body)
	require.NoError(c.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	c.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (c *testClient) postJSON(path string, body any) *http.Response {
	c.t.Helper()

	data, err := json.Marshal(body)
	require.NoError(c.t, err)
	return c.do(http.MethodPost, path, "application/json", bytes.NewReader(data))
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, nil)
	resp := c.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[api.HealthResponse](t, resp)
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.GenerationEnabled)
}

func TestGenerateAndNavigate(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithSampleCards(3)
	c := newTestClient(t, gen)

	resp := c.postJSON("/api/flashcards", map[string]any{
		"content":   longContent,
		"subject":   "Biology",
		"num_cards": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[api.FlashcardsResponse](t, resp)
	assert.Equal(t, 3, created.TotalCards)
	assert.Len(t, created.Flashcards, 3)
	assert.Contains(t, gen.LastPrompt(), "Biology")

	resp = c.do(http.MethodGet, "/api/session", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[api.SessionResponse](t, resp)
	assert.Equal(t, 3, view.TotalCards)
	assert.Equal(t, 0, view.CurrentIndex)
	assert.False(t, view.CanPrevious)
	assert.True(t, view.CanNext)
	require.NotNil(t, view.Card)
	assert.Equal(t, "Question 1?", view.Card.Question)

	resp = c.postJSON("/api/session/actions", map[string]string{"action": "previous"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = c.postJSON("/api/session/actions", map[string]string{"action": "next"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decode[api.SessionResponse](t, resp)
	assert.Equal(t, 1, view.CurrentIndex)

	resp = c.postJSON("/api/session/actions", map[string]string{"action": "toggle_answer"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[api.SessionResponse](t, resp).ShowAnswer)

	resp = c.postJSON("/api/session/actions", map[string]string{"action": "shuffle"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateDefaultsCardCount(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithSampleCards(5)
	c := newTestClient(t, gen)

	resp := c.postJSON("/api/flashcards", map[string]any{"content": longContent})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, gen.LastPrompt(), "15")
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		gen        *mocks.MockGenerator
		body       any
		wantStatus int
		wantCalls  int
	}{
		{"too few cards", mocks.NewMockGeneratorWithSampleCards(5), map[string]any{"content": longContent, "num_cards": 4}, http.StatusBadRequest, 0},
		{"too many cards", mocks.NewMockGeneratorWithSampleCards(5), map[string]any{"content": longContent, "num_cards": 26}, http.StatusBadRequest, 0},
		{"empty content", mocks.NewMockGeneratorWithSampleCards(5), map[string]any{"content": "   "}, http.StatusBadRequest, 0},
		{"short content", mocks.NewMockGeneratorWithSampleCards(5), map[string]any{"content": "too short"}, http.StatusBadRequest, 0},
		{"model failure", mocks.NewMockGeneratorWithError(generation.ErrInvalidResponse), map[string]any{"content": longContent}, http.StatusBadGateway, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.gen)
			resp := c.postJSON("/api/flashcards", tc.body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			body := decode[shared.ErrorResponse](t, resp)
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.TraceID)
			assert.Equal(t, tc.wantCalls, tc.gen.CallCount())
		})
	}
}

func TestGenerateDisabled(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, nil)
	resp := c.postJSON("/api/flashcards", map[string]any{"content": longContent})
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestGenerateMalformedJSON(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, mocks.NewMockGeneratorWithSampleCards(5))
	resp := c.do(http.MethodPost, "/api/flashcards", "application/json", strings.NewReader("{"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid request format", decode[shared.ErrorResponse](t, resp).Error)
}

func TestGenerateBodyTooLarge(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithSampleCards(5)
	c := newTestClient(t, gen)

	resp := c.postJSON("/api/flashcards", api.GenerateRequest{
		Content:  strings.Repeat("a", 2048),
		NumCards: 5,
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.Equal(t, 0, gen.CallCount())
}

func multipartBody(t *testing.T, filename, contentType string, data []byte, fields map[string]string) (string, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if filename != "" {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
		h["Content-Type"] = []string{contentType}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return w.FormDataContentType(), &buf
}

func TestUpload(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithSampleCards(6)
	c := newTestClient(t, gen)

	ct, body := multipartBody(t, "notes.txt", "text/plain", []byte(longContent),
		map[string]string{"subject": "Physics", "num_cards": "10"})
	resp := c.do(http.MethodPost, "/api/flashcards/upload", ct, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[api.FlashcardsResponse](t, resp)
	assert.Equal(t, 6, created.TotalCards)
	assert.Equal(t, len(longContent), created.ExtractedCharacters)
	assert.Contains(t, gen.LastPrompt(), "Physics")
}

func TestUploadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		fields      map[string]string
		wantStatus  int
	}{
		{"missing file", "", "", nil, nil, http.StatusBadRequest},
		{"unsupported type", "deck.docx", "application/msword", []byte("x"), nil, http.StatusUnsupportedMediaType},
		{"invalid utf8", "notes.txt", "text/plain", []byte{0xff, 0xfe, 0xfd}, nil, http.StatusUnprocessableEntity},
		{"corrupt pdf", "notes.pdf", "application/pdf", []byte("not a pdf"), nil, http.StatusUnprocessableEntity},
		{"too large", "notes.txt", "text/plain", bytes.Repeat([]byte("a"), 2048), nil, http.StatusRequestEntityTooLarge},
		{"bad count", "notes.txt", "text/plain", []byte(longContent), map[string]string{"num_cards": "ten"}, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := mocks.NewMockGeneratorWithSampleCards(5)
			c := newTestClient(t, gen)

			ct, body := multipartBody(t, tc.filename, tc.contentType, tc.data, tc.fields)
			resp := c.do(http.MethodPost, "/api/flashcards/upload", ct, body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)
			assert.Equal(t, 0, gen.CallCount())
		})
	}
}

func TestExport(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, mocks.NewMockGeneratorWithSampleCards(2))

	resp := c.do(http.MethodGet, "/api/export/csv", "", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "No flashcards to export.", decode[shared.ErrorResponse](t, resp).Error)

	resp = c.postJSON("/api/flashcards", map[string]any{"content": longContent})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/export/csv", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Regexp(t, `attachment; filename="flashcards_\d{8}_\d{6}\.csv"`, resp.Header.Get("Content-Disposition"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "question,answer,difficulty,topic\n"))

	resp = c.do(http.MethodGet, "/api/export/json", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	resp = c.do(http.MethodGet, "/api/export/xml", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	gen := mocks.NewMockGeneratorWithSampleCards(4)
	c := newTestClient(t, gen)

	resp := c.postJSON("/api/flashcards", map[string]any{"content": longContent})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// a client without the cookie gets a fresh, empty session
	other, err := http.Get(c.server.URL + "/api/session")
	require.NoError(t, err)
	defer func() { _ = other.Body.Close() }()
	view := decode[api.SessionResponse](t, other)
	assert.Equal(t, 0, view.TotalCards)
	assert.Nil(t, view.Card)
}
