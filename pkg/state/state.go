// Package state holds the application state and the reducer that moves it
// from one value to the next. State is a plain value: every transition
// returns a new copy and nothing else mutates it.
package state

import "fmt"

// Default startup values.
const (
	DefaultSides        = 6
	DefaultChanceDotted = 1.0 / 3
	DefaultMinSides     = 1
	DefaultMaxSides     = 8
	DefaultSize         = 20
	DefaultPadding      = 10
	DefaultPointRadius  = 10

	DefaultLineColor       = "#ffffff"
	DefaultBackgroundColor = "#111111"
	DefaultDottedColor     = "#f5f5f5"
)

// ColorSlot names one of the three colors
type ColorSlot int

const (
	SlotLine ColorSlot = iota
	SlotBackground
	SlotDotted
)

// Slots lists the color slots in picker order.
var Slots = []ColorSlot{SlotBackground, SlotLine, SlotDotted}

func (c ColorSlot) String() string {
	switch c {
	case SlotLine:
		return "line"
	case SlotBackground:
		return "background"
	case SlotDotted:
		return "dotted"
	}
	return fmt.Sprintf("slot(%d)", int(c))
}

// ParseColorSlot maps a wire name back to its slot.
func ParseColorSlot(name string) (ColorSlot, error) {
	switch name {
	case "line":
		return SlotLine, nil
	case "background":
		return SlotBackground, nil
	case "dotted":
		return SlotDotted, nil
	}
	return 0, fmt.Errorf("unknown color slot %q", name)
}

// Colors is the color state. Values are stored exactly as received.
type Colors struct {
	Line       string `json:"line"`
	Background string `json:"background"`
	Dotted     string `json:"dotted"`
}

// DefaultColors returns the startup palette
func DefaultColors() Colors {
	return Colors{
		Line:       DefaultLineColor,
		Background: DefaultBackgroundColor,
		Dotted:     DefaultDottedColor,
	}
}

// Get returns the value in a slot
func (c Colors) Get(slot ColorSlot) string {
	switch slot {
	case SlotLine:
		return c.Line
	case SlotBackground:
		return c.Background
	case SlotDotted:
		return c.Dotted
	}
	return ""
}

// With returns a copy with one slot replaced
func (c Colors) With(slot ColorSlot, value string) Colors {
	switch slot {
	case SlotLine:
		c.Line = value
	case SlotBackground:
		c.Background = value
	case SlotDotted:
		c.Dotted = value
	}
	return c
}

// State is everything a render pass needs.
type State struct {
	Sides        int
	ChanceDotted float64
	Colors       Colors

	PointRadius float64
	Padding     float64
	Width       float64
	Height      float64

	DisplayColorPickers bool

	MinSides int
	MaxSides int
}

// Defaults returns the startup state.
func Defaults() State {
	return State{
		Sides:               DefaultSides,
		ChanceDotted:        DefaultChanceDotted,
		Colors:              DefaultColors(),
		PointRadius:         DefaultPointRadius,
		Padding:             DefaultPadding,
		Width:               DefaultSize,
		Height:              DefaultSize,
		DisplayColorPickers: true,
		MinSides:            DefaultMinSides,
		MaxSides:            DefaultMaxSides,
	}
}

// Tunables are the startup values a config file may override
type Tunables struct {
	Sides        int
	MinSides     int
	MaxSides     int
	ChanceDotted float64
	Colors       Colors
}

// New returns the startup state with the tunables applied. The side bounds
// are normalized so that MinSides >= 1 and MaxSides >= MinSides, and Sides is
// clamped into them.
func New(t Tunables) State {
	s := Defaults()
	s.MinSides = max(t.MinSides, 1)
	s.MaxSides = max(t.MaxSides, s.MinSides)
	s.Sides = clampSides(t.Sides, s.MinSides, s.MaxSides)
	s.ChanceDotted = t.ChanceDotted
	s.Colors = t.Colors
	return s
}

func clampSides(sides, lo, hi int) int {
	return min(max(sides, lo), hi)
}
