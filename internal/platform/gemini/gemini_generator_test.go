package gemini

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/phrazzld/flashgen/internal/config"
	"github.com/phrazzld/flashgen/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels records the request and returns a canned response.
type fakeModels struct {
	resp *genai.GenerateContentResponse
	err  error

	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func newTestGenerator(t *testing.T, models ContentGenerator) *GeminiGenerator {
	t.Helper()

	g, err := NewWithClient(slog.New(slog.NewTextHandler(io.Discard, nil)), models, config.LLMConfig{
		ModelName:      "gemini-1.5-flash",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)
	return g
}

func TestGenerateCards_Success(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{resp: textResponse(
		"```json\n{\"flashcards\":[{\"question\":\"Q1\",",
		"\"answer\":\"A1\",\"difficulty\":\"Easy\",\"topic\":\"T\"}]}\n```",
	)}
	g := newTestGenerator(t, fake)

	cards, err := g.GenerateCards(context.Background(), "make cards")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q1", cards[0].Question)

	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "gemini-1.5-flash", fake.model)
	require.Len(t, fake.contents, 1)
	require.Len(t, fake.contents[0].Parts, 1)
	assert.Equal(t, "make cards", fake.contents[0].Parts[0].Text)
	require.NotNil(t, fake.config)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
}

func TestGenerateCards_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fake    *fakeModels
		wantErr error
	}{
		{
			name:    "transport_error",
			fake:    &fakeModels{err: errors.New("connection reset")},
			wantErr: generation.ErrGenerationFailed,
		},
		{
			name:    "nil_response",
			fake:    &fakeModels{},
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "no_candidates",
			fake:    &fakeModels{resp: &genai.GenerateContentResponse{}},
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name: "safety_block",
			fake: &fakeModels{resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
			}},
			wantErr: generation.ErrContentBlocked,
		},
		{
			name:    "invalid_json",
			fake:    &fakeModels{resp: textResponse("Sure! Here are some flashcards.")},
			wantErr: generation.ErrInvalidResponse,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGenerator(t, tc.fake)

			cards, err := g.GenerateCards(context.Background(), "prompt")
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, cards)
			assert.Equal(t, 1, tc.fake.calls, "no retry should be attempted")
		})
	}
}

func TestGenerateCards_EmptyPrompt(t *testing.T) {
	t.Parallel()

	fake := &fakeModels{}
	g := newTestGenerator(t, fake)

	_, err := g.GenerateCards(context.Background(), "")
	assert.ErrorIs(t, err, generation.ErrEmptyPrompt)
	assert.Zero(t, fake.calls)
}

func TestNewWithClient_Validation(t *testing.T) {
	t.Parallel()

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.LLMConfig{ModelName: "gemini-1.5-flash"}

	_, err := NewWithClient(nil, &fakeModels{}, cfg)
	assert.Error(t, err)

	_, err = NewWithClient(discard, nil, cfg)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewWithClient(discard, &fakeModels{}, config.LLMConfig{})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGeminiGenerator_RequiresKey(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGenerator(context.Background(), slog.Default(), config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
