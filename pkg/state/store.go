package state

import "sync"

// Observer is called after every transition with the new state and the
// effects it requested. It runs while the store is locked, so it must not
// call back into the store.
type Observer func(s State, effects Effects)

// Store owns the current state and applies events one at a time.
type Store struct {
	mu       sync.Mutex
	state    State
	keys     Keymap
	observer Observer
}

// NewStore creates a store starting at initial, resolving keys with DefaultKeymap.
func NewStore(initial State, observer Observer) *Store {
	return &Store{state: initial, keys: DefaultKeymap, observer: observer}
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Apply runs the reducer for ev and notifies the observer. Calls are
// serialized: a transition and its observer finish before the next begins.
func (s *Store) Apply(ev Event) (State, Effects) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, effects := ReduceWith(s.keys, s.state, ev)
	s.state = next
	if s.observer != nil {
		s.observer(next, effects)
	}
	return next, effects
}

// Notify runs the observer for the current state without a transition.
func (s *Store) Notify(effects Effects) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.observer != nil {
		s.observer(s.state, effects)
	}
}
