// Package session holds the per-visitor flashcard batch and viewer
// position. State transitions go through Reduce so the web screens and
// the JSON API move through exactly the same states.
package session

import (
	"errors"
	"fmt"

	"github.com/phrazzld/flashgen/internal/domain"
)

var (
	// ErrNoCards is returned when navigating an empty batch.
	ErrNoCards = errors.New("no flashcards to navigate")
	// ErrAtFirstCard is returned by previous at index 0.
	ErrAtFirstCard = errors.New("already at the first card")
	// ErrAtLastCard is returned by next at the last index.
	ErrAtLastCard = errors.New("already at the last card")
	// ErrUnknownAction is returned for an unrecognised action type.
	ErrUnknownAction = errors.New("unknown action")
	// ErrGenerationInProgress is returned when a session already has a
	// generation request in flight.
	ErrGenerationInProgress = errors.New("generation already in progress")
)

// ActionType names a state transition.
type ActionType string

const (
	ActionReplaceBatch ActionType = "replace_batch"
	ActionNext         ActionType = "next"
	ActionPrevious     ActionType = "previous"
	ActionToggleAnswer ActionType = "toggle_answer"
)

// ParseActionType maps a navigation name to its ActionType. replace_batch
// is not a navigation and is rejected.
func ParseActionType(name string) (ActionType, error) {
	switch t := ActionType(name); t {
	case ActionNext, ActionPrevious, ActionToggleAnswer:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

// Action is an input to Reduce. Batch is only read for ActionReplaceBatch.
type Action struct {
	Type  ActionType
	Batch []domain.Flashcard
}

// State is one session's viewer state. When Cards is non-empty Index is
// in [0, len(Cards)).
type State struct {
	Cards      []domain.Flashcard
	Index      int
	ShowAnswer bool
}

// Total returns the number of cards in the batch.
func (s State) Total() int {
	return len(s.Cards)
}

// Current returns the card under the cursor.
func (s State) Current() (domain.Flashcard, bool) {
	if len(s.Cards) == 0 {
		return domain.Flashcard{}, false
	}
	return s.Cards[s.Index], true
}

// CanPrevious reports whether previous would succeed.
func (s State) CanPrevious() bool {
	return len(s.Cards) > 0 && s.Index > 0
}

// CanNext reports whether next would succeed.
func (s State) CanNext() bool {
	return len(s.Cards) > 0 && s.Index < len(s.Cards)-1
}

// Reduce applies a to s and returns the next state. On error s is
// returned unchanged.
func Reduce(s State, a Action) (State, error) {
	switch a.Type {
	case ActionReplaceBatch:
		cards := make([]domain.Flashcard, len(a.Batch))
		copy(cards, a.Batch)
		return State{Cards: cards}, nil

	case ActionNext:
		if len(s.Cards) == 0 {
			return s, ErrNoCards
		}
		if !s.CanNext() {
			return s, ErrAtLastCard
		}
		return State{Cards: s.Cards, Index: s.Index + 1}, nil

	case ActionPrevious:
		if len(s.Cards) == 0 {
			return s, ErrNoCards
		}
		if !s.CanPrevious() {
			return s, ErrAtFirstCard
		}
		return State{Cards: s.Cards, Index: s.Index - 1}, nil

	case ActionToggleAnswer:
		if len(s.Cards) == 0 {
			return s, ErrNoCards
		}
		s.ShowAnswer = !s.ShowAnswer
		return s, nil

	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
}
