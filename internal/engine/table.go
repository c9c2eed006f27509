package engine

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/lipgloss"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zjrosen/gridline/internal/data"
	"github.com/zjrosen/gridline/internal/log"
)

// overscanRows is how many extra rows beyond the visible range are
// painted, so a partial row at the bottom edge never shows blank.
const overscanRows = 2

// rowChunk bounds intermediate products when converting a row index to
// a pixel offset. See internal/grid for the mapper this mirrors.
const rowChunk = 100_000_000

var (
	headerBgStyle   = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#303030"})
	headerTextStyle = lipgloss.NewStyle().Bold(true).Background(lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#303030"}).Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"})
	rowEvenStyle    = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1C1C"})
	rowOddStyle     = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#F9F9F9", Dark: "#242424"})
	cellTextEven    = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1C1C1C"}).Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#BBBBBB"})
	cellTextOdd     = lipgloss.NewStyle().Background(lipgloss.AdaptiveColor{Light: "#F9F9F9", Dark: "#242424"}).Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#BBBBBB"})
	separatorStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#444444"}).Background(lipgloss.AdaptiveColor{Light: "#F2F2F2", Dark: "#303030"})
)

// TableEngine renders fixed-width grid cells from a segment-cached row
// source. It implements Engine.
type TableEngine struct {
	cfg         TableConfig
	cache       *data.SegmentCache
	source      data.RowSource
	columnNames []string
	disposed    bool
}

var _ Engine = (*TableEngine)(nil)

// NewTableEngine constructs the engine with a segment size hint for its
// row loading.
func NewTableEngine(cfg TableConfig, segmentSize int64, source data.RowSource) (*TableEngine, error) {
	if cfg.CellWidth <= 0 || cfg.CellHeight <= 0 {
		return nil, fmt.Errorf("engine: non-positive cell size (%gx%g)", cfg.CellWidth, cfg.CellHeight)
	}
	if cfg.Columns < 0 || cfg.Rows < 0 {
		return nil, fmt.Errorf("engine: negative extent (rows=%d, columns=%d)", cfg.Rows, cfg.Columns)
	}
	e := &TableEngine{
		cfg:    cfg,
		cache:  data.NewSegmentCache(source, segmentSize, cfg.Rows),
		source: source,
	}
	if namer, ok := source.(data.ColumnNamer); ok {
		e.columnNames = namer.ColumnNames()
	}
	log.Info(log.CatEngine, "table engine created", "rows", cfg.Rows, "columns", cfg.Columns, "segmentSize", segmentSize)
	return e, nil
}

// NewFactory returns an engine factory bound to a row source.
func NewFactory(source data.RowSource) Factory {
	return func(cfg TableConfig, segmentSize int64) (Engine, error) {
		return NewTableEngine(cfg, segmentSize, source)
	}
}

// TotalWidth implements Engine. This engine uses a fixed column width.
func (e *TableEngine) TotalWidth() float64 {
	return float64(e.cfg.Columns) * e.cfg.CellWidth
}

// columnTitle returns the header label for a column.
func (e *TableEngine) columnTitle(col int64) string {
	if col >= 0 && col < int64(len(e.columnNames)) {
		return e.columnNames[col]
	}
	return fmt.Sprintf("Col %d", col+1)
}

// visibleColumns returns the inclusive column range covered by the
// viewport at the given horizontal offset.
func (e *TableEngine) visibleColumns(scrollLeft float64) (int64, int64) {
	if e.cfg.Columns == 0 {
		return 0, -1
	}
	start := int64(math.Floor(scrollLeft / e.cfg.CellWidth))
	end := int64(math.Floor((scrollLeft + e.cfg.VisibleWidth) / e.cfg.CellWidth))
	if end > e.cfg.Columns-1 {
		end = e.cfg.Columns - 1
	}
	if start < 0 {
		start = 0
	}
	return start, end
}

// RenderHeader implements Engine.
func (e *TableEngine) RenderHeader(ctx Context2D, scrollLeft float64) error {
	if e.disposed {
		return ErrDisposed
	}
	startCol, endCol := e.visibleColumns(scrollLeft)

	ctx.ClearRect(0, 0, e.cfg.VisibleWidth, e.cfg.HeaderHeight)
	ctx.FillRect(0, 0, e.cfg.VisibleWidth, e.cfg.HeaderHeight, headerBgStyle)

	midY := e.cfg.HeaderHeight / 2
	for col := startCol; col <= endCol; col++ {
		x := float64(col)*e.cfg.CellWidth - scrollLeft
		title := e.columnTitle(col)
		tx := x + (e.cfg.CellWidth-ctx.MeasureText(title))/2
		ctx.FillText(title, tx, midY, headerTextStyle)
	}
	// Column separators on the boundaries, including the trailing one.
	for col := startCol; col <= endCol+1; col++ {
		x := float64(col)*e.cfg.CellWidth - scrollLeft
		ctx.FillText("│", x, midY, separatorStyle)
	}
	return nil
}

// ConfigureSurface implements Engine. It ensures the surface's cell
// buffer matches its display size under the scale in effect, the same
// way a canvas is resized to displaySize x devicePixelRatio before
// painting. Returns the vertical scale in effect.
func (e *TableEngine) ConfigureSurface(s *Surface, ctx Context2D) (float64, error) {
	if e.disposed {
		return 0, ErrDisposed
	}
	if s == nil {
		return 0, ErrNoSurface
	}
	sx, sy := s.Scale()
	wantCols := int(math.Ceil(s.Width() / sx))
	wantRows := int(math.Ceil(s.Height() / sy))
	if s.Cols() != wantCols || s.Rows() != wantRows {
		s.SetScale(sx, sy)
	}
	return sy, nil
}

// RenderContent implements Engine. Coordinates are content-local; the
// caller adjusts scrollTop against the first visible row so the numbers
// handed to the drawing context stay small regardless of row count.
func (e *TableEngine) RenderContent(ctx Context2D, scrollLeft, scrollTop float64) error {
	if e.disposed {
		return ErrDisposed
	}
	tracer := otel.Tracer("gridline/engine")
	_, span := tracer.Start(context.Background(), "engine.render_content")
	defer span.End()

	ctx.ClearRect(0, 0, e.cfg.VisibleWidth, e.cfg.VisibleHeight)
	if e.cfg.Rows == 0 || e.cfg.Columns == 0 {
		return nil
	}

	startRow := int64(math.Floor(scrollTop / e.cfg.CellHeight))
	if startRow < 0 {
		startRow = 0
	}
	visibleRows := int64(math.Ceil(e.cfg.VisibleHeight/e.cfg.CellHeight)) + overscanRows
	endRow := startRow + visibleRows
	if endRow > e.cfg.Rows-1 {
		endRow = e.cfg.Rows - 1
	}
	span.SetAttributes(
		attribute.Int64("render.start_row", startRow),
		attribute.Int64("render.end_row", endRow),
	)

	// Offset of the first visible row, chunked so the product never
	// leaves float64's exact integer range.
	adjustedTop := scrollTop - rowOffset(startRow, e.cfg.CellHeight)
	startCol, endCol := e.visibleColumns(scrollLeft)

	for ri := startRow; ri <= endRow; ri++ {
		y := float64(ri-startRow)*e.cfg.CellHeight - adjustedTop
		if y+e.cfg.CellHeight < 0 || y > e.cfg.VisibleHeight {
			continue
		}

		bg, fg := rowEvenStyle, cellTextEven
		if ri%2 != 0 {
			bg, fg = rowOddStyle, cellTextOdd
		}
		ctx.FillRect(0, y, e.cfg.VisibleWidth, e.cfg.CellHeight, bg)

		row, ok, err := e.cache.Row(ri)
		if err != nil {
			return fmt.Errorf("fetching row %d: %w", ri, err)
		}
		if !ok {
			continue
		}

		midY := y + e.cfg.CellHeight/2
		for col := startCol; col <= endCol; col++ {
			x := float64(col)*e.cfg.CellWidth - scrollLeft
			if x+e.cfg.CellWidth < 0 || x > e.cfg.VisibleWidth {
				continue
			}
			text := clip(row.Cell(col), ctx, e.cfg.CellWidth)
			tx := x + (e.cfg.CellWidth-ctx.MeasureText(text))/2
			ctx.FillText(text, tx, midY, fg)
		}
	}
	return nil
}

// Dispose implements Engine. Tolerant of repeated calls.
func (e *TableEngine) Dispose() {
	if e.disposed {
		return
	}
	e.disposed = true
	e.cache.Flush()
	if closer, ok := e.source.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.ErrorErr(log.CatEngine, "closing row source", err)
		}
	}
	log.Info(log.CatEngine, "table engine disposed")
}

// rowOffset is the chunked row-index-to-pixel conversion.
func rowOffset(row int64, cellHeight float64) float64 {
	full := row / rowChunk
	rem := row % rowChunk
	return float64(full)*float64(rowChunk)*cellHeight + float64(rem)*cellHeight
}

// clip shortens text until it fits a cell, appending an ellipsis when
// anything was cut.
func clip(text string, ctx Context2D, cellWidth float64) string {
	if ctx.MeasureText(text) <= cellWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && ctx.MeasureText(string(runes)+"…") > cellWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
