package data

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// countingSource generates rows and counts how often it is asked.
type countingSource struct {
	rows  int64
	calls int
	err   error
}

func (s *countingSource) FetchRows(start, count int64) ([]Row, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Row, 0, count)
	for i := start; i < start+count && i < s.rows; i++ {
		out = append(out, Row{Cells: []string{fmt.Sprintf("r%d", i)}})
	}
	return out, nil
}

func TestSegmentCacheReadThrough(t *testing.T) {
	src := &countingSource{rows: 1_000}
	c := NewSegmentCache(src, 10, 1_000)

	seg, err := c.Segment(3)
	require.NoError(t, err)
	require.Len(t, seg, 10)
	require.Equal(t, "r30", seg[0].Cells[0])
	require.Equal(t, 1, src.calls)

	// Second hit is served from cache.
	_, err = c.Segment(3)
	require.NoError(t, err)
	require.Equal(t, 1, src.calls)
}

func TestSegmentCacheRow(t *testing.T) {
	src := &countingSource{rows: 100}
	c := NewSegmentCache(src, 10, 100)

	row, ok, err := c.Row(37)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "r37", row.Cell(0))
	require.Equal(t, 1, src.calls, "one segment load covers the row")

	// Neighbors in the same segment are free.
	_, ok, err = c.Row(31)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, src.calls)

	t.Run("out of range", func(t *testing.T) {
		_, ok, err := c.Row(-1)
		require.NoError(t, err)
		require.False(t, ok)

		_, ok, err = c.Row(100)
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestSegmentCacheTruncatesFinalSegment(t *testing.T) {
	src := &countingSource{rows: 25}
	c := NewSegmentCache(src, 10, 25)

	seg, err := c.Segment(2)
	require.NoError(t, err)
	require.Len(t, seg, 5)

	seg, err = c.Segment(3)
	require.NoError(t, err)
	require.Empty(t, seg)
}

func TestSegmentCachePropagatesSourceErrors(t *testing.T) {
	src := &countingSource{rows: 100, err: errors.New("disk gone")}
	c := NewSegmentCache(src, 10, 100)

	_, err := c.Segment(0)
	require.ErrorContains(t, err, "loading segment 0")

	_, _, err = c.Row(5)
	require.Error(t, err)
}

func TestSegmentCacheEviction(t *testing.T) {
	src := &countingSource{rows: 10_000}
	c := NewSegmentCache(src, 10, 10_000)

	// Walk forward past the residency limit; the pass over segment 11
	// evicts far segments down to the floor.
	for i := int64(0); i <= 11; i++ {
		_, err := c.Segment(i)
		require.NoError(t, err)
	}
	require.Equal(t, 8, c.ResidentSegments())

	// The neighborhood of the latest segment survived.
	calls := src.calls
	for _, idx := range []int64{9, 10, 11} {
		_, err := c.Segment(idx)
		require.NoError(t, err)
	}
	require.Equal(t, calls, src.calls, "neighborhood still cached")
}

func TestSegmentCacheFlush(t *testing.T) {
	src := &countingSource{rows: 100}
	c := NewSegmentCache(src, 10, 100)

	_, err := c.Segment(0)
	require.NoError(t, err)
	require.Equal(t, 1, c.ResidentSegments())

	c.Flush()
	require.Equal(t, 0, c.ResidentSegments())

	// Next read goes back to the source.
	_, err = c.Segment(0)
	require.NoError(t, err)
	require.Equal(t, 2, src.calls)
}

func TestRowCell(t *testing.T) {
	r := Row{Cells: []string{"a", "b"}}
	require.Equal(t, "a", r.Cell(0))
	require.Equal(t, "b", r.Cell(1))
	require.Equal(t, "", r.Cell(2))
	require.Equal(t, "", r.Cell(-1))
}

func TestSyntheticSource(t *testing.T) {
	s := NewSyntheticSource(3)

	rows, err := s.FetchRows(999_999_990, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "cell 999999991-1", rows[0].Cell(0))
	require.Equal(t, "cell 999999992-3", rows[1].Cell(2))

	rows, err = s.FetchRows(-1, 5)
	require.NoError(t, err)
	require.Empty(t, rows)
}
