// Package grid implements the viewport and scroll coordination controller
// for gridline. It owns scroll state, converts between row indices and
// pixel offsets with chunked arithmetic that stays inside float64's exact
// integer range even at a billion rows, derives scrollbar thumb geometry,
// and decides when the render engine needs to repaint.
//
// The package is host-agnostic: it consumes abstract wheel and pointer
// events and talks to the engine through the narrow interface in
// internal/engine. The Bubble Tea shell in internal/ui/gridview adapts
// terminal input into these types.
package grid

import "fmt"

// DefaultMaxSafeRowIndex is the hard ceiling applied when a Config does
// not set one. No row request is ever issued above this index.
const DefaultMaxSafeRowIndex = 2_000_000_000

// Config is the immutable viewport configuration, created once at startup.
// Pixel dimensions are float64 but hold integer values; row and column
// counts are int64 so a near-billion row count never touches float math
// before the mapper's chunking has bounded it.
type Config struct {
	Columns int64
	Rows    int64

	CellWidth    float64
	CellHeight   float64
	HeaderHeight float64

	// VisibleWidth and VisibleHeight are the viewport size in pixels,
	// derived from the host window at startup and on resize.
	VisibleWidth  float64
	VisibleHeight float64

	// SegmentSize is a granularity hint passed through to the render
	// engine for its own segment loading. Opaque to this controller.
	SegmentSize int64

	// MaxSafeRowIndex is the hard row ceiling. Zero means
	// DefaultMaxSafeRowIndex.
	MaxSafeRowIndex int64
}

// Validate checks the structural invariants of the configuration.
func (c Config) Validate() error {
	if c.Rows < 0 || c.Columns < 0 {
		return fmt.Errorf("grid: negative extent (rows=%d, columns=%d)", c.Rows, c.Columns)
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("grid: non-positive cell size (%gx%g)", c.CellWidth, c.CellHeight)
	}
	if c.HeaderHeight < 0 {
		return fmt.Errorf("grid: negative header height %g", c.HeaderHeight)
	}
	if c.Rows-1 > c.SafeRowCeiling() {
		return fmt.Errorf("grid: rows-1 (%d) exceeds max safe row index (%d)", c.Rows-1, c.SafeRowCeiling())
	}
	return nil
}

// SafeRowCeiling returns the effective hard row ceiling.
func (c Config) SafeRowCeiling() int64 {
	if c.MaxSafeRowIndex > 0 {
		return c.MaxSafeRowIndex
	}
	return DefaultMaxSafeRowIndex
}

// WithVisible returns a copy of the config with a new viewport size.
// Used on host resize; everything derived from the config is recomputed
// by the mapper on demand, so nothing else needs invalidation.
func (c Config) WithVisible(width, height float64) Config {
	c.VisibleWidth = width
	c.VisibleHeight = height
	return c
}
