package state

import "fmt"

// Event is an input the controller reacts to.
type Event interface {
	// Kind is the listener channel the event is delivered on.
	Kind() Kind
}

// Kind groups events by input source
type Kind string

const (
	KindResize Kind = "resize"
	KindKey    Kind = "key"
	KindSwipe  Kind = "swipe"
	KindPinch  Kind = "pinch"
	KindColor  Kind = "color"
)

// Kinds lists every event kind.
var Kinds = []Kind{KindResize, KindKey, KindSwipe, KindPinch, KindColor}

// Resize reports a new viewport size in pixels.
type Resize struct {
	Width  float64
	Height float64
}

// KeyPress is a key with its modifiers. Key uses short lowercase names:
// single characters ("c", "s") and "up", "down" for the arrows.
type KeyPress struct {
	Key  string
	Ctrl bool
	Meta bool
}

// Direction of a swipe
type Direction int

const (
	SwipeUp Direction = iota
	SwipeDown
	SwipeLeft
	SwipeRight
)

func (d Direction) String() string {
	switch d {
	case SwipeUp:
		return "up"
	case SwipeDown:
		return "down"
	case SwipeLeft:
		return "left"
	case SwipeRight:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection maps a wire name to a swipe direction.
func ParseDirection(name string) (Direction, error) {
	switch name {
	case "up":
		return SwipeUp, nil
	case "down":
		return SwipeDown, nil
	case "left":
		return SwipeLeft, nil
	case "right":
		return SwipeRight, nil
	}
	return 0, fmt.Errorf("unknown swipe direction %q", name)
}

// Swipe is a one-finger swipe gesture
type Swipe struct {
	Direction Direction
}

// Pinch is a two-finger pinch gesture. It is recognized but bound to nothing.
type Pinch struct {
	Scale float64
}

// ColorChange is emitted by a color picker
type ColorChange struct {
	Slot  ColorSlot
	Value string
}

func (Resize) Kind() Kind      { return KindResize }
func (KeyPress) Kind() Kind    { return KindKey }
func (Swipe) Kind() Kind       { return KindSwipe }
func (Pinch) Kind() Kind       { return KindPinch }
func (ColorChange) Kind() Kind { return KindColor }

// Action is what a bound key does
type Action int

const (
	ActionNone Action = iota
	ActionTogglePickers
	ActionSave
	ActionRedraw
	ActionIncrease
	ActionDecrease
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionTogglePickers:
		return "toggle-pickers"
	case ActionSave:
		return "save"
	case ActionRedraw:
		return "redraw"
	case ActionIncrease:
		return "increase"
	case ActionDecrease:
		return "decrease"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Binding ties a key, and optionally a required modifier, to an action.
type Binding struct {
	Key         string
	NeedsModKey bool // Ctrl or Meta must be held
	Action      Action
}

// Keymap resolves key presses to actions; the first matching binding wins.
type Keymap []Binding

// DefaultKeymap: c toggles pickers, ctrl/cmd+s saves, r redraws, arrows change sides.
var DefaultKeymap = Keymap{
	{Key: "s", NeedsModKey: true, Action: ActionSave},
	{Key: "c", Action: ActionTogglePickers},
	{Key: "r", Action: ActionRedraw},
	{Key: "up", Action: ActionIncrease},
	{Key: "down", Action: ActionDecrease},
}

// Resolve returns the action bound to k, or ActionNone.
func (m Keymap) Resolve(k KeyPress) Action {
	for _, b := range m {
		if b.Key != k.Key {
			continue
		}
		if b.NeedsModKey && !(k.Ctrl || k.Meta) {
			continue
		}
		return b.Action
	}
	return ActionNone
}
