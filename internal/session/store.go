package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	state    State
	busy     bool
	lastSeen time.Time
}

// Store keeps one State per session ID in memory. It is safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entry
	now      func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[uuid.UUID]*entry),
		now:      time.Now,
	}
}

// entryLocked returns the entry for id, creating it if needed, and marks
// it as seen. s.mu must be held.
func (s *Store) entryLocked(id uuid.UUID) *entry {
	e, ok := s.sessions[id]
	if !ok {
		e = &entry{}
		s.sessions[id] = e
	}
	e.lastSeen = s.now()
	return e
}

// Get returns the state for id. An unknown id has the empty state.
func (s *Store) Get(id uuid.UUID) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.entryLocked(id).state
}

// Apply reduces the state for id with a and stores the result. On error
// the stored state is unchanged.
func (s *Store) Apply(id uuid.UUID, a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(id)
	next, err := Reduce(e.state, a)
	if err != nil {
		return e.state, err
	}
	e.state = next
	return next, nil
}

// BeginGeneration marks id as generating. It fails with
// ErrGenerationInProgress if a generation is already running. Each
// successful call must be paired with EndGeneration.
func (s *Store) BeginGeneration(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.entryLocked(id)
	if e.busy {
		return ErrGenerationInProgress
	}
	e.busy = true
	return nil
}

// EndGeneration clears the generating flag for id.
func (s *Store) EndGeneration(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok {
		e.busy = false
		e.lastSeen = s.now()
	}
}

// Prune removes sessions not seen for longer than idle and returns how
// many were removed. Busy sessions are kept.
func (s *Store) Prune(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	removed := 0
	for id, e := range s.sessions {
		if !e.busy && e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
