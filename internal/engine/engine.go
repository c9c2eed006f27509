// Package engine implements the cell/header render engine behind the
// viewport controller. The controller talks to it only through the
// narrow Engine interface, so the engine can be swapped or mocked; the
// real implementation here draws into a character-cell Surface, the
// terminal analog of a canvas.
package engine

import (
	"errors"

	"github.com/charmbracelet/lipgloss"
)

// TableConfig is the engine-side grid configuration handle. Constructed
// once and handed to NewTableEngine together with the segment size hint.
type TableConfig struct {
	Columns int64
	Rows    int64

	CellWidth    float64
	CellHeight   float64
	HeaderHeight float64

	VisibleWidth  float64
	VisibleHeight float64
}

// NewTableConfig builds an engine configuration handle.
func NewTableConfig(columns, rows int64, cellWidth, cellHeight, headerHeight, visibleWidth, visibleHeight float64) TableConfig {
	return TableConfig{
		Columns:       columns,
		Rows:          rows,
		CellWidth:     cellWidth,
		CellHeight:    cellHeight,
		HeaderHeight:  headerHeight,
		VisibleWidth:  visibleWidth,
		VisibleHeight: visibleHeight,
	}
}

// Context2D is the drawing context the engine paints through. Coordinates
// are pixels; the surface behind the context maps them to character
// cells via its configured scale.
type Context2D interface {
	// ClearRect blanks a pixel rectangle.
	ClearRect(x, y, w, h float64)

	// FillRect paints a background style over a pixel rectangle.
	FillRect(x, y, w, h float64, style lipgloss.Style)

	// FillText draws text with its left edge at x on the row containing y.
	// Text is clipped at the surface edge.
	FillText(text string, x, y float64, style lipgloss.Style)

	// MeasureText returns the rendered width of text in pixels.
	MeasureText(text string) float64
}

// Engine is the render engine contract consumed by the viewport
// controller's render bridge.
type Engine interface {
	// TotalWidth returns the full content width in pixels. The engine
	// is authoritative for horizontal extent; column width policy is
	// its own business.
	TotalWidth() float64

	// RenderHeader paints the column header band for the given
	// horizontal offset.
	RenderHeader(ctx Context2D, scrollLeft float64) error

	// ConfigureSurface applies high-density setup to the surface before
	// a content paint, returning the scale in effect (the
	// device-pixel-ratio analog).
	ConfigureSurface(s *Surface, ctx Context2D) (float64, error)

	// RenderContent paints the visible cells for the given offsets.
	// Coordinates passed to the context are content-local: the header
	// band lives on its own surface.
	RenderContent(ctx Context2D, scrollLeft, scrollTop float64) error

	// Dispose releases the engine's resources. Idempotent; must be
	// called exactly once logically.
	Dispose()
}

// Factory constructs an engine from a config handle and segment size
// hint. The render bridge owns the resulting engine's lifecycle.
type Factory func(cfg TableConfig, segmentSize int64) (Engine, error)

// ErrDisposed is returned by render calls after Dispose.
var ErrDisposed = errors.New("engine: disposed")
