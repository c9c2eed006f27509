// Package data provides row sources and the segment cache behind the
// render engine. Rows are loaded in contiguous segments so the engine
// never materializes more than a neighborhood of the visible range, no
// matter how large the dataset claims to be.
package data

// Row is one grid row's cell values, indexed by column.
type Row struct {
	Cells []string
}

// Cell returns the value at the given column, or "" when the row has no
// such column.
func (r Row) Cell(col int64) string {
	if col < 0 || col >= int64(len(r.Cells)) {
		return ""
	}
	return r.Cells[col]
}

// RowSource produces rows on demand. Implementations may be backed by
// anything from a pure generator to a database; the segment cache is the
// only consumer and always asks for contiguous ranges.
type RowSource interface {
	// FetchRows returns up to count rows starting at index start.
	// Fewer rows than requested is not an error; absent rows render
	// as blanks.
	FetchRows(start, count int64) ([]Row, error)
}

// ColumnNamer is an optional RowSource extension. Sources that know
// their column names implement it; the engine falls back to generated
// headers otherwise.
type ColumnNamer interface {
	ColumnNames() []string
}
