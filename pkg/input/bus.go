// Package input delivers input events to registered listeners. Every
// registration returns a Subscription handle, and only that handle can
// remove it.
package input

import (
	"sort"
	"sync"

	"github.com/recera/polynet/pkg/state"
)

// Handler consumes one event
type Handler func(ev state.Event)

// Bus fans events out to the handlers registered for their kind. Dispatch
// runs handlers synchronously and one event at a time.
type Bus struct {
	mu       sync.Mutex // guards handlers and nextID
	dispatch sync.Mutex // serializes Dispatch
	handlers map[state.Kind]map[uint64]Handler
	nextID   uint64
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[state.Kind]map[uint64]Handler),
		nextID:   1,
	}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus  *Bus
	kind state.Kind
	id   uint64
	once sync.Once
}

// Subscribe registers h for events of the given kind.
func (b *Bus) Subscribe(kind state.Kind, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[uint64]Handler)
	}
	b.handlers[kind][id] = h
	return &Subscription{bus: b, kind: kind, id: id}
}

// Cancel removes the registration. Calling it again does nothing.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()
		delete(s.bus.handlers[s.kind], s.id)
		if len(s.bus.handlers[s.kind]) == 0 {
			delete(s.bus.handlers, s.kind)
		}
	})
}

// Len returns the number of live registrations across all kinds.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, hs := range b.handlers {
		n += len(hs)
	}
	return n
}

// Dispatch delivers ev to every handler of its kind in registration order
// and returns how many handlers ran. Handlers must not dispatch on the same
// bus.
func (b *Bus) Dispatch(ev state.Event) int {
	b.dispatch.Lock()
	defer b.dispatch.Unlock()

	b.mu.Lock()
	hs := b.handlers[ev.Kind()]
	ids := make([]uint64, 0, len(hs))
	for id := range hs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	snapshot := make([]Handler, len(ids))
	for i, id := range ids {
		snapshot[i] = hs[id]
	}
	b.mu.Unlock()

	for _, h := range snapshot {
		h(ev)
	}
	return len(snapshot)
}

// Listeners is the set of registrations made by Attach.
type Listeners struct {
	subs []*Subscription
}

// Close cancels every registration in the group
func (l *Listeners) Close() {
	for _, s := range l.subs {
		s.Cancel()
	}
}

// Len is the number of registrations in the group.
func (l *Listeners) Len() int { return len(l.subs) }

// Attach registers the store as the listener for every event kind.
func Attach(bus *Bus, store *state.Store) *Listeners {
	l := &Listeners{}
	for _, kind := range state.Kinds {
		l.subs = append(l.subs, bus.Subscribe(kind, func(ev state.Event) {
			store.Apply(ev)
		}))
	}
	return l
}
