package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/recera/polynet/pkg/scene"
	"github.com/recera/polynet/pkg/state"
)

// Style definitions
var (
	primaryColor = lipgloss.Color("#c084fc")
	successColor = lipgloss.Color("#10b981")
	errorColor   = lipgloss.Color("#ef4444")
	mutedColor   = lipgloss.Color("#94a3b8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	swatchStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(1)
)

var glyphs = map[scene.Cell]string{
	scene.CellEmpty:  " ",
	scene.CellDotted: "·",
	scene.CellSolid:  "█",
	scene.CellVertex: "●",
}

// View renders the current model state
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.mounted {
		return mutedStyle.Render("waiting for window size...")
	}

	st := m.store.State()
	var b strings.Builder

	b.WriteString(m.header(st))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.canvas()))
	b.WriteString("\n")
	if st.DisplayColorPickers {
		b.WriteString(swatches(st.Colors))
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) header(st state.State) string {
	return titleStyle.Render("polynet") + mutedStyle.Render(
		fmt.Sprintf("  %d sides  %d edges", st.Sides, len(m.frame.Edges)))
}

func (m Model) statusLine() string {
	if m.picking {
		return m.picker.View()
	}
	if m.status == "" {
		return ""
	}
	if m.statusOK {
		return successStyle.Render(m.status)
	}
	return errorStyle.Render(m.status)
}

// canvas draws the current frame at the current rotation.
func (m Model) canvas() string {
	outer := m.frame.Outer()
	cols := int(outer / CellWidth)
	rows := int(outer / CellHeight)
	grid := m.frame.Raster(cols, rows, m.angle)

	colors := m.frame.State.Colors
	bg := lipgloss.Color(colors.Background)
	styles := map[scene.Cell]lipgloss.Style{
		scene.CellEmpty:  lipgloss.NewStyle().Background(bg),
		scene.CellDotted: lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(colors.Dotted)),
		scene.CellSolid:  lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(colors.Line)),
		scene.CellVertex: lipgloss.NewStyle().Background(bg).Foreground(lipgloss.Color(colors.Line)).Bold(true),
	}

	lines := make([]string, len(grid))
	for y, row := range grid {
		var line strings.Builder
		for x := 0; x < len(row); {
			end := x
			for end < len(row) && row[end] == row[x] {
				end++
			}
			line.WriteString(styles[row[x]].Render(strings.Repeat(glyphs[row[x]], end-x)))
			x = end
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

// swatches shows the three colors in picker order with their keys.
func swatches(c state.Colors) string {
	parts := make([]string, 0, len(state.Slots))
	for i, slot := range state.Slots {
		value := c.Get(slot)
		style := swatchStyle.Background(lipgloss.Color(value))
		if fg, ok := contrast(value); ok {
			style = style.Foreground(lipgloss.Color(fg))
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s %s", i+1, slot, value)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// contrast picks black or white text for a hex background.
func contrast(hex string) (string, bool) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "", false
	}
	l, _, _ := c.Lab()
	if l > 0.6 {
		return "#000000", true
	}
	return "#ffffff", true
}
