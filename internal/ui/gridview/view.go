package gridview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/zjrosen/gridline/internal/grid"
	"github.com/zjrosen/gridline/internal/ui/markdown"
	"github.com/zjrosen/gridline/internal/ui/styles"
)

// Scrollbar glyphs.
const (
	vThumbRune = "█"
	vTrackRune = "│"
	hThumbRune = "━"
	hTrackRune = "─"
)

// helpContent is the help overlay source, rendered through glamour.
const helpContent = `# gridline

## Navigation

| Key | Action |
| --- | --- |
| k / ↑, j / ↓ | scroll one line |
| h / ←, l / → | scroll one column step |
| pgup / ctrl+u | page up |
| pgdn / ctrl+d | page down |
| g / home | first row |
| G / end | last row |
| : | jump to row |

## Other

| Key | Action |
| --- | --- |
| r | refresh data |
| ? | toggle this help |
| esc | dismiss |
| q / ctrl+c | quit |

Scroll with the mouse wheel, shift+wheel for horizontal. Click a
scrollbar track to jump, or drag its thumb.
`

// View implements tea.Model.
func (m Model) View() string {
	if !m.initialized {
		return "loading…"
	}
	if m.showHelp {
		return m.helpView
	}

	header := m.header.Line(0)
	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.content.Render(),
		zone.Mark(zoneVBar, m.renderVBar()),
	)
	hbar := zone.Mark(zoneHBar, m.renderHBar())
	status := m.renderStatus()

	return zone.Scan(strings.Join([]string{header, body, hbar, status}, "\n"))
}

// renderVBar draws the vertical scrollbar column beside the content.
func (m Model) renderVBar() string {
	rows := m.contentRows()
	if rows <= 0 {
		return ""
	}
	g := m.viewport.Geometry(grid.Vertical)
	if !g.Visible {
		return strings.TrimRight(strings.Repeat(" \n", rows), "\n")
	}
	start, length := m.thumbCells(grid.Vertical)
	cells := make([]string, rows)
	for i := range cells {
		if i >= start && i < start+length {
			cells[i] = styles.ScrollThumbStyle.Render(vThumbRune)
		} else {
			cells[i] = styles.ScrollTrackStyle.Render(vTrackRune)
		}
	}
	return strings.Join(cells, "\n")
}

// renderHBar draws the horizontal scrollbar line under the content.
func (m Model) renderHBar() string {
	cols := m.contentCols()
	if cols <= 0 {
		return ""
	}
	g := m.viewport.Geometry(grid.Horizontal)
	if !g.Visible {
		return strings.Repeat(" ", cols)
	}
	start, length := m.thumbCells(grid.Horizontal)
	var b strings.Builder
	for i := 0; i < cols; i++ {
		if i >= start && i < start+length {
			b.WriteString(styles.ScrollThumbStyle.Render(hThumbRune))
		} else {
			b.WriteString(styles.ScrollTrackStyle.Render(hTrackRune))
		}
	}
	return b.String()
}

// renderStatus draws the bottom line: the jump prompt while entering a
// row, the last error if one is pending, otherwise the position readout.
func (m Model) renderStatus() string {
	if m.jumping {
		return styles.PromptStyle.Render(m.jump.View())
	}
	if m.errMsg != "" {
		return styles.ErrorStyle.Render(truncate.String(m.errMsg, uint(m.width)))
	}

	cfg := m.viewport.Config()
	left, _ := m.viewport.Offsets()
	line := fmt.Sprintf(
		"row %d of %d · col offset %dpx · ?: help · q: quit",
		m.viewport.CurrentRow()+1, cfg.Rows, int(left),
	)
	return styles.StatusBarStyle.Render(truncate.String(line, uint(m.width)))
}

// renderHelp builds the help overlay, degrading to the raw markdown if
// the renderer cannot be constructed.
func renderHelp(width int, style string) string {
	if width <= 0 {
		width = 80
	}
	r, err := markdown.New(width, style)
	if err != nil {
		return helpContent
	}
	out, err := r.Render(helpContent)
	if err != nil {
		return helpContent
	}
	return out
}
