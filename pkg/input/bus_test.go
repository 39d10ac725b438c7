package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/polynet/pkg/state"
)

func TestBus_SubscribeAndCancel(t *testing.T) {
	bus := NewBus()

	var calls int
	sub := bus.Subscribe(state.KindKey, func(state.Event) { calls++ })
	require.Equal(t, 1, bus.Len())

	assert.Equal(t, 1, bus.Dispatch(state.KeyPress{Key: "up"}))
	assert.Equal(t, 1, calls)

	sub.Cancel()
	assert.Equal(t, 0, bus.Len())
	assert.Equal(t, 0, bus.Dispatch(state.KeyPress{Key: "up"}))
	assert.Equal(t, 1, calls)

	// second cancel is harmless
	sub.Cancel()
	var nilSub *Subscription
	nilSub.Cancel()
}

func TestBus_CancelRemovesOnlyItsOwnHandler(t *testing.T) {
	bus := NewBus()

	var a, b int
	handler := func(state.Event) { a++ }
	subA := bus.Subscribe(state.KindResize, handler)
	// the same function registered twice gets two independent handles
	subA2 := bus.Subscribe(state.KindResize, handler)
	bus.Subscribe(state.KindResize, func(state.Event) { b++ })

	bus.Dispatch(state.Resize{Width: 1, Height: 1})
	assert.Equal(t, 2, a)
	assert.Equal(t, 1, b)

	subA.Cancel()
	bus.Dispatch(state.Resize{Width: 1, Height: 1})
	assert.Equal(t, 3, a)
	assert.Equal(t, 2, b)

	subA2.Cancel()
	bus.Dispatch(state.Resize{Width: 1, Height: 1})
	assert.Equal(t, 3, a)
	assert.Equal(t, 3, b)
}

func TestBus_DispatchOrderAndKindRouting(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.Subscribe(state.KindSwipe, func(state.Event) { order = append(order, "first") })
	bus.Subscribe(state.KindSwipe, func(state.Event) { order = append(order, "second") })
	bus.Subscribe(state.KindPinch, func(state.Event) { order = append(order, "pinch") })

	bus.Dispatch(state.Swipe{Direction: state.SwipeDown})
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestAttach_DrivesStoreAndDetaches(t *testing.T) {
	bus := NewBus()
	store := state.NewStore(state.Defaults(), nil)

	listeners := Attach(bus, store)
	assert.Equal(t, len(state.Kinds), listeners.Len())
	assert.Equal(t, len(state.Kinds), bus.Len())

	bus.Dispatch(state.KeyPress{Key: "up"})
	bus.Dispatch(state.Swipe{Direction: state.SwipeDown})
	assert.Equal(t, 8, store.State().Sides)

	bus.Dispatch(state.ColorChange{Slot: state.SlotDotted, Value: "#000"})
	assert.Equal(t, "#000", store.State().Colors.Dotted)

	listeners.Close()
	assert.Equal(t, 0, bus.Len())

	bus.Dispatch(state.KeyPress{Key: "down"})
	assert.Equal(t, 8, store.State().Sides)
}
