package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/flashgen/internal/domain"
)

func makeCards(t *testing.T, n int) []domain.Flashcard {
	t.Helper()

	cards := make([]domain.Flashcard, n)
	for i := range cards {
		c, err := domain.NewFlashcard(fmt.Sprintf("Q%d", i+1), fmt.Sprintf("A%d", i+1), domain.DifficultyMedium, "")
		require.NoError(t, err)
		cards[i] = c
	}
	return cards
}

func TestReduceReplaceBatch(t *testing.T) {
	t.Parallel()

	cards := makeCards(t, 3)
	start := State{Cards: makeCards(t, 5), Index: 4, ShowAnswer: true}

	got, err := Reduce(start, Action{Type: ActionReplaceBatch, Batch: cards})
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total())
	assert.Equal(t, 0, got.Index)
	assert.False(t, got.ShowAnswer)

	// the stored batch does not alias the caller's slice
	cards[0].Question = "mutated"
	assert.Equal(t, "Q1", got.Cards[0].Question)
}

func TestReduceNavigation(t *testing.T) {
	t.Parallel()

	s, err := Reduce(State{}, Action{Type: ActionReplaceBatch, Batch: makeCards(t, 3)})
	require.NoError(t, err)

	_, err = Reduce(s, Action{Type: ActionPrevious})
	assert.ErrorIs(t, err, ErrAtFirstCard)

	s, err = Reduce(s, Action{Type: ActionToggleAnswer})
	require.NoError(t, err)
	assert.True(t, s.ShowAnswer)

	s, err = Reduce(s, Action{Type: ActionNext})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index)
	assert.False(t, s.ShowAnswer, "moving resets the answer")

	s, err = Reduce(s, Action{Type: ActionNext})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Index)
	assert.False(t, s.CanNext())
	assert.True(t, s.CanPrevious())

	s, err = Reduce(s, Action{Type: ActionToggleAnswer})
	require.NoError(t, err)
	unchanged, err := Reduce(s, Action{Type: ActionNext})
	assert.ErrorIs(t, err, ErrAtLastCard)
	assert.Equal(t, s, unchanged)

	card, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "Q3", card.Question)

	require.True(t, s.ShowAnswer)
	s, err = Reduce(s, Action{Type: ActionPrevious})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Index)
	assert.False(t, s.ShowAnswer, "moving back resets the answer")
}

func TestReduceEmptyBatch(t *testing.T) {
	t.Parallel()

	for _, a := range []ActionType{ActionNext, ActionPrevious, ActionToggleAnswer} {
		_, err := Reduce(State{}, Action{Type: a})
		assert.ErrorIs(t, err, ErrNoCards, string(a))
	}

	_, ok := State{}.Current()
	assert.False(t, ok)
	assert.False(t, State{}.CanNext())
	assert.False(t, State{}.CanPrevious())
}

func TestReduceUnknownAction(t *testing.T) {
	t.Parallel()

	_, err := Reduce(State{}, Action{Type: "shuffle"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

// Walking forward to the end and back visits every card once each way and
// never leaves the index out of range.
func TestReduceWalkIsBounded(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 2, 7} {
		s, err := Reduce(State{}, Action{Type: ActionReplaceBatch, Batch: makeCards(t, n)})
		require.NoError(t, err)

		forward := 0
		for s.CanNext() {
			s, err = Reduce(s, Action{Type: ActionNext})
			require.NoError(t, err)
			forward++
		}
		assert.Equal(t, n-1, forward)

		backward := 0
		for s.CanPrevious() {
			s, err = Reduce(s, Action{Type: ActionPrevious})
			require.NoError(t, err)
			backward++
		}
		assert.Equal(t, n-1, backward)
		assert.Equal(t, 0, s.Index)
	}
}

func TestParseActionType(t *testing.T) {
	t.Parallel()

	got, err := ParseActionType("toggle_answer")
	require.NoError(t, err)
	assert.Equal(t, ActionToggleAnswer, got)

	_, err = ParseActionType("replace_batch")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
