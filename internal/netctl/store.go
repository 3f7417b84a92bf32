package netctl

import (
	"sort"
	"sync"
)

// Store holds the last-known state per interface. It is seeded from the OS
// at startup and updated only after a mutation has been confirmed; a failed
// operation never touches it.
type Store struct {
	mu     sync.RWMutex
	states map[string]InterfaceState
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{states: make(map[string]InterfaceState)}
}

// Seed replaces the store's contents with the given states.
func (s *Store) Seed(states []InterfaceState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states = make(map[string]InterfaceState, len(states))
	for _, st := range states {
		s.states[st.Name] = st
	}
}

// Get returns the recorded state for an interface.
func (s *Store) Get(name string) (InterfaceState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[name]
	return st, ok
}

// List returns all recorded states sorted by interface name.
func (s *Store) List() []InterfaceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]InterfaceState, 0, len(s.states))
	for _, st := range s.states {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SetLink records a confirmed link-state change.
func (s *Store) SetLink(name string, link LinkState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[name]
	st.Name = name
	st.Link = link
	s.states[name] = st
}

// RecordMode records a mode observation without touching the link state.
// Used when a requested mode is already active.
func (s *Store) RecordMode(name string, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[name]
	st.Name = name
	st.Mode = &mode
	s.states[name] = st
}

// SetMode records a confirmed mode change. Mode changes bring the link up,
// so the link state is updated alongside.
func (s *Store) SetMode(name string, mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[name]
	st.Name = name
	st.Link = LinkUp
	st.Mode = &mode
	s.states[name] = st
}
