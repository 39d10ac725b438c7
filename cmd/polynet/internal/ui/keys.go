package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/polynet/pkg/state"
)

// KeyMap defines all keyboard shortcuts. The diagram keys are resolved by
// state.Keymap; their bindings here only feed the help bar.
type KeyMap struct {
	Increase key.Binding
	Decrease key.Binding
	Pickers  key.Binding
	Redraw   key.Binding
	Save     key.Binding

	PickBackground key.Binding
	PickLine       key.Binding
	PickDotted     key.Binding
	Apply          key.Binding
	Cancel         key.Binding

	Help key.Binding
	Quit key.Binding
}

var DefaultKeyMap = KeyMap{
	Increase: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑/wheel↓", "more sides"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓/wheel↑", "fewer sides"),
	),
	Pickers: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "toggle colors"),
	),
	Redraw: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "redraw"),
	),
	Save: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "save svg"),
	),
	PickBackground: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "background"),
	),
	PickLine: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "line"),
	),
	PickDotted: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "dotted"),
	),
	Apply: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "close"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Increase, k.Decrease, k.Redraw, k.Save, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Increase, k.Decrease, k.Redraw, k.Save},
		{k.Pickers, k.PickBackground, k.PickLine, k.PickDotted},
		{k.Apply, k.Cancel, k.Help, k.Quit},
	}
}

// pickerSlot maps a picker key to its color slot.
func (k KeyMap) pickerSlot(msg tea.KeyMsg) (state.ColorSlot, bool) {
	switch {
	case key.Matches(msg, k.PickBackground):
		return state.SlotBackground, true
	case key.Matches(msg, k.PickLine):
		return state.SlotLine, true
	case key.Matches(msg, k.PickDotted):
		return state.SlotDotted, true
	}
	return 0, false
}

// keyPress translates a terminal key into the controller's key event.
// Terminals cannot report the command key, so only ctrl sets a modifier.
func keyPress(msg tea.KeyMsg) state.KeyPress {
	name := msg.String()
	if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
		return state.KeyPress{Key: rest, Ctrl: true}
	}
	if rest, ok := strings.CutPrefix(name, "alt+"); ok {
		name = rest
	}
	return state.KeyPress{Key: name}
}

// swipe maps wheel motion onto the swipe gestures.
func swipe(msg tea.MouseMsg) (state.Swipe, bool) {
	if msg.Action != tea.MouseActionPress {
		return state.Swipe{}, false
	}
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		return state.Swipe{Direction: state.SwipeDown}, true
	case tea.MouseButtonWheelUp:
		return state.Swipe{Direction: state.SwipeUp}, true
	case tea.MouseButtonWheelLeft:
		return state.Swipe{Direction: state.SwipeLeft}, true
	case tea.MouseButtonWheelRight:
		return state.Swipe{Direction: state.SwipeRight}, true
	}
	return state.Swipe{}, false
}
