package state

import "github.com/recera/polynet/pkg/layout"

// Effects are the side effects a transition asks the surface to run.
type Effects uint8

const (
	// Rerender draws a new frame, with a fresh edge split.
	Rerender Effects = 1 << iota
	// Export saves the current rendered frame.
	Export
)

// Has reports whether all bits in e are set
func (f Effects) Has(e Effects) bool { return f&e == e }

// Reduce applies ev to s with the default keymap.
func Reduce(s State, ev Event) (State, Effects) {
	return ReduceWith(DefaultKeymap, s, ev)
}

// ReduceWith applies ev to s. It is total: unknown events, unbound keys and
// pinches leave the state unchanged and request nothing. Save requests only
// an export so the exported frame is the one on screen.
func ReduceWith(keys Keymap, s State, ev Event) (State, Effects) {
	switch ev := ev.(type) {
	case Resize:
		l := layout.Compute(ev.Width, ev.Height, s.Padding)
		s.Width, s.Height = l.Width, l.Height
		s.Padding, s.PointRadius = l.Padding, l.PointRadius
		return s, Rerender

	case KeyPress:
		return applyAction(s, keys.Resolve(ev))

	case Swipe:
		switch ev.Direction {
		case SwipeDown:
			return applyAction(s, ActionIncrease)
		case SwipeUp:
			return applyAction(s, ActionDecrease)
		}
		return s, 0

	case Pinch:
		return s, 0

	case ColorChange:
		s.Colors = s.Colors.With(ev.Slot, ev.Value)
		return s, Rerender
	}
	return s, 0
}

func applyAction(s State, a Action) (State, Effects) {
	switch a {
	case ActionNone:
		return s, 0
	case ActionTogglePickers:
		s.DisplayColorPickers = !s.DisplayColorPickers
	case ActionSave:
		return s, Export
	case ActionIncrease:
		s.Sides = min(s.Sides+1, s.MaxSides)
	case ActionDecrease:
		s.Sides = max(s.Sides-1, s.MinSides)
	}
	return s, Rerender
}

// Mount runs the startup resize sequence: one pass before the surface is
// shown and one after, so the second pass sees the tiered padding.
func Mount(s State, width, height float64) State {
	s, _ = Reduce(s, Resize{Width: width, Height: height})
	s, _ = Reduce(s, Resize{Width: width, Height: height})
	return s
}
