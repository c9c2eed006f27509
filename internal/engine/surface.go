package engine

import (
	"errors"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ErrNoSurface is returned when a drawing context is requested from a
// surface that has no drawable area.
var ErrNoSurface = errors.New("engine: no drawable surface")

// Surface is a buffer of character cells addressed in pixel coordinates.
// The scale (pixels per character cell on each axis) is applied during
// ConfigureSurface, mirroring how a canvas is resized for the device
// pixel ratio before painting.
type Surface struct {
	displayWidth  float64
	displayHeight float64

	scaleX float64
	scaleY float64

	cols  int
	rows  int
	cells [][]surfaceCell
}

type surfaceCell struct {
	ch     string
	style  lipgloss.Style
	styled bool
	// cont marks the continuation cell of a double-width cluster.
	cont bool
}

// NewSurface creates a surface with the given display size in pixels and
// an identity scale.
func NewSurface(displayWidth, displayHeight float64) *Surface {
	s := &Surface{
		displayWidth:  displayWidth,
		displayHeight: displayHeight,
		scaleX:        1,
		scaleY:        1,
	}
	s.realloc()
	return s
}

// Resize updates the display size, preserving the scale. The buffer is
// reallocated and cleared.
func (s *Surface) Resize(displayWidth, displayHeight float64) {
	s.displayWidth = displayWidth
	s.displayHeight = displayHeight
	s.realloc()
}

// SetScale sets pixels-per-cell on each axis and reallocates the buffer
// to match. Values below 1 are clamped to 1.
func (s *Surface) SetScale(scaleX, scaleY float64) {
	if scaleX < 1 {
		scaleX = 1
	}
	if scaleY < 1 {
		scaleY = 1
	}
	s.scaleX = scaleX
	s.scaleY = scaleY
	s.realloc()
}

// Scale returns the pixels-per-cell factors in effect.
func (s *Surface) Scale() (float64, float64) {
	return s.scaleX, s.scaleY
}

// Width returns the display width in pixels.
func (s *Surface) Width() float64 { return s.displayWidth }

// Height returns the display height in pixels.
func (s *Surface) Height() float64 { return s.displayHeight }

// Context returns a drawing context for the surface, or ErrNoSurface
// when there is nothing to draw on.
func (s *Surface) Context() (Context2D, error) {
	if s == nil || s.cols <= 0 || s.rows <= 0 {
		return nil, ErrNoSurface
	}
	return &cellContext{s: s}, nil
}

// Line returns one rendered row of the buffer.
func (s *Surface) Line(row int) string {
	if row < 0 || row >= s.rows {
		return ""
	}
	var b strings.Builder
	line := s.cells[row]
	for col := 0; col < len(line); col++ {
		c := line[col]
		if c.cont {
			continue
		}
		ch := c.ch
		if ch == "" {
			ch = " "
		}
		if c.styled {
			b.WriteString(c.style.Render(ch))
		} else {
			b.WriteString(ch)
		}
	}
	return b.String()
}

// Render returns the whole buffer as newline-joined rows.
func (s *Surface) Render() string {
	lines := make([]string, s.rows)
	for i := range lines {
		lines[i] = s.Line(i)
	}
	return strings.Join(lines, "\n")
}

// Rows returns the buffer height in character cells.
func (s *Surface) Rows() int { return s.rows }

// Cols returns the buffer width in character cells.
func (s *Surface) Cols() int { return s.cols }

func (s *Surface) realloc() {
	s.cols = int(math.Ceil(s.displayWidth / s.scaleX))
	s.rows = int(math.Ceil(s.displayHeight / s.scaleY))
	if s.cols < 0 {
		s.cols = 0
	}
	if s.rows < 0 {
		s.rows = 0
	}
	s.cells = make([][]surfaceCell, s.rows)
	for i := range s.cells {
		s.cells[i] = make([]surfaceCell, s.cols)
	}
}

// cellContext implements Context2D over a Surface.
type cellContext struct {
	s *Surface
}

func (c *cellContext) colRange(x, w float64) (int, int) {
	start := int(math.Floor(x / c.s.scaleX))
	end := int(math.Ceil((x + w) / c.s.scaleX))
	if start < 0 {
		start = 0
	}
	if end > c.s.cols {
		end = c.s.cols
	}
	return start, end
}

func (c *cellContext) rowRange(y, h float64) (int, int) {
	start := int(math.Floor(y / c.s.scaleY))
	end := int(math.Ceil((y + h) / c.s.scaleY))
	if start < 0 {
		start = 0
	}
	if end > c.s.rows {
		end = c.s.rows
	}
	return start, end
}

// ClearRect blanks a pixel rectangle.
func (c *cellContext) ClearRect(x, y, w, h float64) {
	c0, c1 := c.colRange(x, w)
	r0, r1 := c.rowRange(y, h)
	for r := r0; r < r1; r++ {
		for col := c0; col < c1; col++ {
			c.s.cells[r][col] = surfaceCell{}
		}
	}
}

// FillRect paints a background style over a pixel rectangle.
func (c *cellContext) FillRect(x, y, w, h float64, style lipgloss.Style) {
	c0, c1 := c.colRange(x, w)
	r0, r1 := c.rowRange(y, h)
	for r := r0; r < r1; r++ {
		for col := c0; col < c1; col++ {
			c.s.cells[r][col] = surfaceCell{ch: " ", style: style, styled: true}
		}
	}
}

// FillText draws text with its left edge at x on the row containing y.
// Grapheme clusters are placed cell by cell; double-width clusters claim
// a continuation cell. Text is clipped at the surface edges.
func (c *cellContext) FillText(text string, x, y float64, style lipgloss.Style) {
	row := int(math.Floor(y / c.s.scaleY))
	if row < 0 || row >= c.s.rows {
		return
	}
	col := int(math.Round(x / c.s.scaleX))

	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		w := runewidth.StringWidth(cluster)
		if w <= 0 {
			continue
		}
		if col+w > c.s.cols {
			return
		}
		if col >= 0 {
			c.s.cells[row][col] = surfaceCell{ch: cluster, style: style, styled: true}
			for i := 1; i < w; i++ {
				c.s.cells[row][col+i] = surfaceCell{cont: true}
			}
		}
		col += w
	}
}

// MeasureText returns the rendered width of text in pixels.
func (c *cellContext) MeasureText(text string) float64 {
	return float64(runewidth.StringWidth(text)) * c.s.scaleX
}
