package mocks

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/flashgen/internal/domain"
	"github.com/phrazzld/flashgen/internal/generation"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	// GenerateCardsFn overrides the canned Cards/Err when set.
	GenerateCardsFn func(ctx context.Context, prompt string) ([]domain.Flashcard, error)

	Cards []domain.Flashcard
	Err   error

	GenerateCardsCalls struct {
		mu       sync.Mutex
		Count    int
		Prompts  []string
		Contexts []context.Context
	}
}

var _ generation.Generator = (*MockGenerator)(nil)

// GenerateCards implements generation.Generator.
func (m *MockGenerator) GenerateCards(ctx context.Context, prompt string) ([]domain.Flashcard, error) {
	m.GenerateCardsCalls.mu.Lock()
	m.GenerateCardsCalls.Count++
	m.GenerateCardsCalls.Prompts = append(m.GenerateCardsCalls.Prompts, prompt)
	m.GenerateCardsCalls.Contexts = append(m.GenerateCardsCalls.Contexts, ctx)
	m.GenerateCardsCalls.mu.Unlock()

	if m.GenerateCardsFn != nil {
		return m.GenerateCardsFn(ctx, prompt)
	}
	return m.Cards, m.Err
}

// CallCount returns how many times GenerateCards ran.
func (m *MockGenerator) CallCount() int {
	m.GenerateCardsCalls.mu.Lock()
	defer m.GenerateCardsCalls.mu.Unlock()
	return m.GenerateCardsCalls.Count
}

// LastPrompt returns the most recent prompt, or "" if never called.
func (m *MockGenerator) LastPrompt() string {
	m.GenerateCardsCalls.mu.Lock()
	defer m.GenerateCardsCalls.mu.Unlock()
	if len(m.GenerateCardsCalls.Prompts) == 0 {
		return ""
	}
	return m.GenerateCardsCalls.Prompts[len(m.GenerateCardsCalls.Prompts)-1]
}

// Reset clears call tracking.
func (m *MockGenerator) Reset() {
	m.GenerateCardsCalls.mu.Lock()
	defer m.GenerateCardsCalls.mu.Unlock()

	m.GenerateCardsCalls.Count = 0
	m.GenerateCardsCalls.Prompts = nil
	m.GenerateCardsCalls.Contexts = nil
}

// NewMockGeneratorWithCards returns a generator that yields cards.
func NewMockGeneratorWithCards(cards []domain.Flashcard) *MockGenerator {
	return &MockGenerator{Cards: cards}
}

// NewMockGeneratorWithError returns a generator that fails with err.
func NewMockGeneratorWithError(err error) *MockGenerator {
	return &MockGenerator{Err: err}
}

// NewMockGeneratorWithSampleCards returns a generator that yields n
// numbered cards.
func NewMockGeneratorWithSampleCards(n int) *MockGenerator {
	return &MockGenerator{Cards: SampleCards(n)}
}

// MockGeneratorWithContentBlocked simulates a safety block.
func MockGeneratorWithContentBlocked() *MockGenerator {
	return &MockGenerator{Err: generation.ErrContentBlocked}
}

// SampleCards builds n valid cards numbered from 1.
func SampleCards(n int) []domain.Flashcard {
	cards := make([]domain.Flashcard, n)
	for i := range cards {
		cards[i] = domain.Flashcard{
			Question:   fmt.Sprintf("Question %d?", i+1),
			Answer:     fmt.Sprintf("Answer %d", i+1),
			Difficulty: domain.DifficultyMedium,
			Topic:      domain.DefaultTopic,
		}
	}
	return cards
}
