package grid

import "math"

// Chunk sizes for the coordinate mapper. Partitioning the row count keeps
// every intermediate product at or below chunkRows*cellHeight, which for
// realistic cell heights is well inside float64's exact integer range
// (2^53) even when rows approaches 10^9. Only the final accumulation is
// allowed to leave the exact range.
const (
	// heightChunkRows partitions full-height sums.
	heightChunkRows = 10_000_000

	// lookupChunkRows is coarser, tuned for single-row offset lookups
	// (jump-to-row), where only one chunked product is needed.
	lookupChunkRows = 100_000_000
)

// TotalHeight returns the cumulative pixel height of the whole grid,
// header included.
func TotalHeight(cfg Config) float64 {
	full := cfg.Rows / heightChunkRows
	rem := cfg.Rows % heightChunkRows
	return float64(full)*float64(heightChunkRows)*cfg.CellHeight +
		float64(rem)*cfg.CellHeight +
		cfg.HeaderHeight
}

// RowToPixel returns the content-space pixel offset of the top edge of
// the given row. The index is clamped to [0, rows-1] and to the safe row
// ceiling before any arithmetic happens.
//
// Agrees exactly with TotalHeight at row boundaries:
// RowToPixel(cfg, r) == TotalHeight(cfg with Rows=r) - HeaderHeight.
func RowToPixel(cfg Config, row int64) float64 {
	if row < 0 {
		row = 0
	}
	if cfg.Rows > 0 && row > cfg.Rows-1 {
		row = cfg.Rows - 1
	}
	if ceiling := cfg.SafeRowCeiling(); row > ceiling {
		row = ceiling
	}
	full := row / lookupChunkRows
	rem := row % lookupChunkRows
	return float64(full)*float64(lookupChunkRows)*cfg.CellHeight + float64(rem)*cfg.CellHeight
}

// RealMaxScroll returns the maximum vertical scroll offset, floored at 0
// for the degenerate case where the content fits in the viewport.
func RealMaxScroll(cfg Config) float64 {
	m := TotalHeight(cfg) - cfg.VisibleHeight
	if m < 0 {
		return 0
	}
	return m
}

// HorizontalMaxScroll returns the maximum horizontal scroll offset for a
// given total content width. Column counts are small (hundreds at most),
// so no chunking is needed on this axis. The width is supplied by the
// render engine, which is authoritative for horizontal extent.
func HorizontalMaxScroll(cfg Config, totalWidth float64) float64 {
	m := totalWidth - cfg.VisibleWidth
	if m < 0 {
		return 0
	}
	return m
}

// ScrollRatio converts a scroll offset into a [0,1] ratio of maxScroll.
// Returns 0 whenever maxScroll is not positive.
func ScrollRatio(offset, maxScroll float64) float64 {
	if maxScroll <= 0 {
		return 0
	}
	r := offset / maxScroll
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}
