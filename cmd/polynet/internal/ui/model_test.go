package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recera/polynet/pkg/export"
	"github.com/recera/polynet/pkg/partition"
	"github.com/recera/polynet/pkg/state"
)

func newTestModel(t *testing.T) (Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.svg")
	m := NewModel(Options{
		Initial:    state.Defaults(),
		Source:     partition.NewSource(3),
		ExportPath: path,
		Exports:    export.NewPool(),
	})
	return m, path
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func mounted(t *testing.T) (Model, string) {
	t.Helper()
	m, path := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, path
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func currentState(t *testing.T, m Model) state.State {
	t.Helper()
	st, ok := m.State()
	require.True(t, ok)
	return st
}

func TestMountOnFirstWindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	_, ok := m.State()
	assert.False(t, ok)
	assert.Contains(t, m.View(), "waiting")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	st := currentState(t, m)

	// square pane of 19 rows: 304px, tier padding 40 applied on the second pass
	assert.Equal(t, 224.0, st.Width)
	assert.Equal(t, 224.0, st.Height)
	assert.Equal(t, 40.0, st.Padding)
	assert.Equal(t, 4.0, st.PointRadius)
	assert.Len(t, m.Frame().Vertices, 6)
	assert.Equal(t, len(state.Kinds), m.bus.Len())
}

func TestSidesKeys(t *testing.T) {
	m, _ := mounted(t)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 7, currentState(t, m).Sides)
	assert.Len(t, m.Frame().Vertices, 7)

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	}
	assert.Equal(t, 8, currentState(t, m).Sides)

	for i := 0; i < 10; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	assert.Equal(t, 1, currentState(t, m).Sides)
	assert.Len(t, m.Frame().Vertices, 1)
	assert.Empty(t, m.Frame().Edges)
}

func TestWheelSwipes(t *testing.T) {
	m, _ := mounted(t)

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown})
	assert.Equal(t, 7, currentState(t, m).Sides)

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp})
	assert.Equal(t, 5, currentState(t, m).Sides)

	m, _ = update(t, m, tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonWheelLeft})
	assert.Equal(t, 5, currentState(t, m).Sides)
}

func TestTogglePickers(t *testing.T) {
	m, _ := mounted(t)
	assert.Contains(t, m.View(), "1 background #111111")

	m, _ = update(t, m, runes("c"))
	assert.False(t, currentState(t, m).DisplayColorPickers)
	assert.NotContains(t, m.View(), "1 background")

	// picker keys do nothing while the pickers are hidden
	m, _ = update(t, m, runes("1"))
	assert.False(t, m.picking)
}

func TestPickerApply(t *testing.T) {
	m, _ := mounted(t)

	m, _ = update(t, m, runes("1"))
	require.True(t, m.picking)
	assert.Equal(t, "#111111", m.picker.Value())

	for i := 0; i < 7; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = update(t, m, runes("#222222"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.picking)
	assert.Equal(t, "#222222", currentState(t, m).Colors.Background)
	assert.Equal(t, "#222222", m.Frame().State.Colors.Background)
}

func TestPickerRejectsBadColor(t *testing.T) {
	m, _ := mounted(t)

	m, _ = update(t, m, runes("3"))
	for i := 0; i < 7; i++ {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	m, _ = update(t, m, runes("zzz"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.True(t, m.picking)
	assert.Contains(t, m.status, "not a #rrggbb color")
	assert.Equal(t, state.DefaultDottedColor, currentState(t, m).Colors.Dotted)

	// keys go to the picker, not the diagram
	m, _ = update(t, m, runes("q"))
	assert.False(t, m.quitting)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.picking)
	assert.Equal(t, state.DefaultDottedColor, currentState(t, m).Colors.Dotted)
}

func TestSaveWritesDisplayedFrame(t *testing.T) {
	m, path := mounted(t)
	shown, err := m.Frame().SVG()
	require.NoError(t, err)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)

	after, err := m.Frame().SVG()
	require.NoError(t, err)
	assert.Equal(t, shown, after, "save must not redraw")

	msg := cmd()
	m, _ = update(t, m, msg)
	assert.True(t, m.statusOK)
	assert.Contains(t, m.View(), "saved "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, shown, string(data))
	assert.EqualValues(t, 0, m.opts.Exports.Outstanding())
}

func TestSaveFailureReported(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	m := NewModel(Options{
		Initial:    state.Defaults(),
		Source:     partition.NewSource(3),
		ExportPath: filepath.Join(blocker, "network.svg"),
	})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())

	assert.False(t, m.statusOK)
	assert.Contains(t, m.status, "save failed")
	assert.EqualValues(t, 0, m.opts.Exports.Outstanding())
}

func TestRedrawAndUnbound(t *testing.T) {
	m, _ := mounted(t)
	before := currentState(t, m)

	m, cmd := update(t, m, runes("r"))
	assert.Nil(t, cmd)
	assert.Equal(t, before, currentState(t, m))

	m, cmd = update(t, m, runes("x"))
	assert.Nil(t, cmd)
	assert.Equal(t, before, currentState(t, m))
}

func TestResizeAfterMount(t *testing.T) {
	m, _ := mounted(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 60})

	st := currentState(t, m)
	// 55 rows: 880px square, previous padding 40
	assert.Equal(t, 800.0, st.Width)
	assert.Equal(t, 120.0, st.Padding)
}

func TestTickRotates(t *testing.T) {
	m, _ := mounted(t)
	m, cmd := update(t, m, tickMsg(m.start.Add(7500*time.Millisecond)))
	assert.NotNil(t, cmd)
	assert.InDelta(t, 3.14159/2, m.angle, 1e-4)
}

func TestViewAndHelp(t *testing.T) {
	m, _ := mounted(t)
	view := m.View()
	assert.Contains(t, view, "polynet")
	assert.Contains(t, view, "6 sides")
	assert.Contains(t, view, "15 edges")
	assert.True(t, strings.Contains(view, "●"))

	m, _ = update(t, m, runes("?"))
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "toggle colors")
}

func TestQuitAndClose(t *testing.T) {
	m, _ := mounted(t)
	m, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, "", m.View())

	m.Close()
	assert.Equal(t, 0, m.bus.Len())
}

func TestKeyPressTranslation(t *testing.T) {
	assert.Equal(t, state.KeyPress{Key: "s", Ctrl: true}, keyPress(tea.KeyMsg{Type: tea.KeyCtrlS}))
	assert.Equal(t, state.KeyPress{Key: "up"}, keyPress(tea.KeyMsg{Type: tea.KeyUp}))
	assert.Equal(t, state.KeyPress{Key: "c"}, keyPress(runes("c")))
	assert.Equal(t, state.KeyPress{Key: "r"}, keyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r"), Alt: true}))
}

func TestContrast(t *testing.T) {
	fg, ok := contrast("#ffffff")
	assert.True(t, ok)
	assert.Equal(t, "#000000", fg)

	fg, ok = contrast("#111111")
	assert.True(t, ok)
	assert.Equal(t, "#ffffff", fg)

	_, ok = contrast("rgb(1,2,3)")
	assert.False(t, ok)
}
