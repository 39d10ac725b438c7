// Package ui is the terminal surface: a bubbletea program that draws the
// rotating diagram as text and feeds keys and wheel motion to the same
// controller the browser uses.
package ui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/recera/polynet/pkg/export"
	"github.com/recera/polynet/pkg/input"
	"github.com/recera/polynet/pkg/partition"
	"github.com/recera/polynet/pkg/scene"
	"github.com/recera/polynet/pkg/state"
)

// Terminal cells are treated as 8x16 pixel boxes when sizing the diagram.
const (
	CellWidth  = 8
	CellHeight = 16

	// rows used by the header, swatches, status and help lines
	chromeRows = 5

	tickInterval = 100 * time.Millisecond
)

// Options configure a Model
type Options struct {
	Initial    state.State
	Source     partition.Source
	ExportPath string
	Exports    *export.Pool
	Logger     *slog.Logger
}

// transition is the last store transition, written by the store observer.
type transition struct {
	state   state.State
	effects state.Effects
	seen    bool
}

// Model represents the terminal application state
type Model struct {
	opts Options
	log  *slog.Logger
	keys KeyMap

	bus       *input.Bus
	store     *state.Store
	listeners *input.Listeners
	last      *transition

	frame   scene.Frame
	mounted bool
	start   time.Time
	angle   float64

	width  int
	height int

	help       help.Model
	picker     textinput.Model
	picking    bool
	pickerSlot state.ColorSlot

	status   string
	statusOK bool
	quitting bool
}

// Messages
type tickMsg time.Time

type exportedMsg struct {
	path string
	err  error
}

// NewModel creates a new terminal model. Nothing is drawn until the first
// window size arrives.
func NewModel(opts Options) Model {
	if opts.Source == nil {
		opts.Source = partition.NewEntropySource()
	}
	if opts.Exports == nil {
		opts.Exports = export.NewPool()
	}
	if opts.ExportPath == "" {
		opts.ExportPath = export.DefaultFilename
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	picker := textinput.New()
	picker.Placeholder = "#rrggbb"
	picker.CharLimit = 7
	picker.Width = 10

	return Model{
		opts:   opts,
		log:    opts.Logger.With("component", "tui"),
		keys:   DefaultKeyMap,
		bus:    input.NewBus(),
		last:   &transition{},
		start:  time.Now(),
		help:   help.New(),
		picker: picker,
	}
}

// Init starts the rotation clock
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		w, h := m.viewport()
		if !m.mounted {
			m.mount(w, h)
			return m, nil
		}
		return m.dispatch(state.Resize{Width: w, Height: h})

	case tickMsg:
		m.angle = scene.AngleAt(time.Time(msg).Sub(m.start))
		return m, tick()

	case exportedMsg:
		if msg.err != nil {
			m.log.Error("export failed", "path", msg.path, "error", msg.err)
			m.setStatus(fmt.Sprintf("save failed: %v", msg.err), false)
		} else {
			m.log.Info("exported frame", "path", msg.path)
			m.setStatus("saved "+msg.path, true)
		}
		return m, nil

	case tea.MouseMsg:
		if ev, ok := swipe(msg); ok && m.mounted && !m.picking {
			return m.dispatch(ev)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.mounted {
		return m, nil
	}

	if slot, ok := m.keys.pickerSlot(msg); ok {
		if !m.store.State().DisplayColorPickers {
			return m, nil
		}
		m.picking = true
		m.pickerSlot = slot
		m.picker.Prompt = slot.String() + " "
		m.picker.SetValue(m.store.State().Colors.Get(slot))
		m.picker.CursorEnd()
		return m, m.picker.Focus()
	}

	return m.dispatch(keyPress(msg))
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePicker()
		return m, nil

	case key.Matches(msg, m.keys.Apply):
		value := m.picker.Value()
		if _, err := colorful.Hex(value); err != nil {
			m.setStatus(fmt.Sprintf("%q is not a #rrggbb color", value), false)
			return m, nil
		}
		slot := m.pickerSlot
		m.closePicker()
		return m.dispatch(state.ColorChange{Slot: slot, Value: value})
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) closePicker() {
	m.picking = false
	m.picker.Blur()
}

// mount creates the store at the first known viewport size.
func (m *Model) mount(width, height float64) {
	initial := state.Mount(m.opts.Initial, width, height)
	last := m.last
	m.store = state.NewStore(initial, func(s state.State, effects state.Effects) {
		last.state, last.effects, last.seen = s, effects, true
	})
	m.listeners = input.Attach(m.bus, m.store)
	m.frame = scene.Compose(initial, m.opts.Source)
	m.mounted = true
	m.log.Debug("mounted", "width", width, "height", height)
}

// dispatch sends ev through the bus and runs the effects of the resulting
// transition.
func (m Model) dispatch(ev state.Event) (tea.Model, tea.Cmd) {
	*m.last = transition{}
	m.bus.Dispatch(ev)
	if !m.last.seen {
		return m, nil
	}

	var cmd tea.Cmd
	if m.last.effects.Has(state.Rerender) {
		m.frame = scene.Compose(m.last.state, m.opts.Source)
	}
	if m.last.effects.Has(state.Export) {
		cmd = m.save(m.frame)
	}
	return m, cmd
}

// save writes frame to the export path off the event loop.
func (m Model) save(frame scene.Frame) tea.Cmd {
	pool, path := m.opts.Exports, m.opts.ExportPath
	return func() tea.Msg {
		return exportedMsg{path: path, err: pool.WriteFile(path, frame)}
	}
}

// viewport converts the terminal size to the pixel size the layout expects.
// The diagram pane is the largest square that fits above the chrome.
func (m Model) viewport() (float64, float64) {
	rows := max(m.height-chromeRows, 0)
	side := float64(min(m.width*CellWidth, rows*CellHeight))
	return side, side
}

func (m *Model) setStatus(s string, ok bool) {
	m.status, m.statusOK = s, ok
}

// State returns the controller state, or false before the first resize.
func (m Model) State() (state.State, bool) {
	if !m.mounted {
		return state.State{}, false
	}
	return m.store.State(), true
}

// Frame returns the frame being displayed
func (m Model) Frame() scene.Frame { return m.frame }

// Close cancels the model's input listeners.
func (m Model) Close() {
	if m.listeners != nil {
		m.listeners.Close()
	}
}
