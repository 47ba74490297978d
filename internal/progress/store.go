// Package progress keeps a learner's progress snapshot in sync with the
// server: optimistic local updates, reconciliation with the authoritative
// response, and rollback on failure.
package progress

import (
	"sync"

	"github.com/alexanderramin/syllabus/internal/domain"
)

// Listener is notified after every published snapshot.
type Listener func(e *domain.Enrollment, version uint64)

// Store is a single-writer, versioned cell holding the current snapshot.
//
// Published snapshots are never modified; every write replaces the whole
// object and bumps the version. Only the Engine in this package publishes.
type Store struct {
	mu      sync.RWMutex
	current *domain.Enrollment
	version uint64
	nextID  int
	subs    map[int]Listener
}

// NewStore creates a store holding initial (which may be nil while an
// enrollment is loading).
func NewStore(initial *domain.Enrollment) *Store {
	return &Store{current: initial, subs: map[int]Listener{}}
}

// Snapshot returns the current snapshot. Callers must treat it as read-only.
func (s *Store) Snapshot() *domain.Enrollment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load returns the current snapshot together with its version.
func (s *Store) Load() (*domain.Enrollment, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current, s.version
}

// Version returns the number of publishes so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// swap installs e and returns the new version and the listeners to notify.
// Callers notify after releasing their own locks so a listener may call
// back into the engine.
func (s *Store) swap(e *domain.Enrollment) (uint64, []Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = e
	s.version++
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	return s.version, listeners
}

// notify delivers a publish to listeners. Versions let listeners drop
// notifications that arrive after a newer one.
func notify(e *domain.Enrollment, version uint64, listeners []Listener) {
	for _, fn := range listeners {
		fn(e, version)
	}
}
