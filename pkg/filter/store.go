package filter

import (
	"sync"

	"github.com/vanderheijden86/trendradar/pkg/debug"
	"github.com/vanderheijden86/trendradar/pkg/model"
)

// Action transforms one State into the next.
type Action func(State) State

// ToggleDomainAction, FocusAction etc. adapt State methods to Actions.
func ToggleDomainAction(d model.Domain) Action {
	return func(s State) State { return s.ToggleDomain(d) }
}

func FocusAction(c model.Cluster) Action {
	return func(s State) State { return s.Focus(c) }
}

func ClearFocusAction() Action {
	return func(s State) State { return s.ClearFocus() }
}

func ResetAction() Action {
	return func(s State) State { return s.Reset() }
}

// Listener is called after every state change with the new state.
type Listener func(State)

// Store holds the current State and replaces it whole on every Dispatch.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore returns a store holding New().
func NewStore() *Store {
	return &Store{state: New(), listeners: make(map[int]Listener)}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and notifies listeners when the state changed. It
// reports whether a change happened.
func (s *Store) Dispatch(a Action) bool {
	s.mu.Lock()
	prev := s.state
	next := a(prev)
	if next.Equal(prev) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	debug.Log("filter: %s -> %s", prev, next)
	for _, l := range listeners {
		l(next)
	}
	return true
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
