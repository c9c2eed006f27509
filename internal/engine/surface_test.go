package engine

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

var plain = lipgloss.NewStyle()

func TestSurfaceAllocation(t *testing.T) {
	s := NewSurface(10, 2)
	require.Equal(t, 10, s.Cols())
	require.Equal(t, 2, s.Rows())

	// Raising the scale shrinks the cell buffer, like a canvas backing
	// store under a device pixel ratio.
	s.SetScale(2, 2)
	require.Equal(t, 5, s.Cols())
	require.Equal(t, 1, s.Rows())

	// Fractional coverage rounds up so the edge is never unpainted.
	s.Resize(11, 3)
	require.Equal(t, 6, s.Cols())
	require.Equal(t, 2, s.Rows())
}

func TestSurfaceScaleFloor(t *testing.T) {
	s := NewSurface(10, 10)
	s.SetScale(0, -3)
	sx, sy := s.Scale()
	require.Equal(t, 1.0, sx)
	require.Equal(t, 1.0, sy)
}

func TestSurfaceContext(t *testing.T) {
	t.Run("drawable", func(t *testing.T) {
		_, err := NewSurface(5, 1).Context()
		require.NoError(t, err)
	})

	t.Run("zero size", func(t *testing.T) {
		_, err := NewSurface(0, 0).Context()
		require.ErrorIs(t, err, ErrNoSurface)
	})
}

func TestFillTextPlacement(t *testing.T) {
	s := NewSurface(80, 40)
	s.SetScale(8, 20)
	ctx, err := s.Context()
	require.NoError(t, err)

	// x=16 is the third cell under an 8px scale; y=25 is the second row
	// under a 20px scale.
	ctx.FillText("ab", 16, 25, plain)
	require.Equal(t, "  ab      ", s.Line(1))
	require.Equal(t, "          ", s.Line(0))
}

func TestFillTextClipsAtEdge(t *testing.T) {
	s := NewSurface(5, 1)
	ctx, err := s.Context()
	require.NoError(t, err)

	ctx.FillText("toolong", 3, 0, plain)
	require.Equal(t, "   to", s.Line(0))
}

func TestFillTextWideRunes(t *testing.T) {
	s := NewSurface(6, 1)
	ctx, err := s.Context()
	require.NoError(t, err)

	// CJK clusters are two cells wide; the continuation cell renders
	// nothing of its own.
	ctx.FillText("日本", 0, 0, plain)
	require.Equal(t, "日本  ", s.Line(0))
	require.Equal(t, 4.0, ctx.MeasureText("日本"))
}

func TestMeasureTextScales(t *testing.T) {
	s := NewSurface(80, 20)
	s.SetScale(8, 20)
	ctx, err := s.Context()
	require.NoError(t, err)

	require.Equal(t, 24.0, ctx.MeasureText("abc"))
}

func TestFillRectAndClearRect(t *testing.T) {
	s := NewSurface(4, 2)
	ctx, err := s.Context()
	require.NoError(t, err)

	ctx.FillText("abcd", 0, 0, plain)
	ctx.FillText("efgh", 0, 1, plain)

	ctx.ClearRect(1, 0, 2, 1)
	require.Equal(t, "a  d", s.Line(0))
	require.Equal(t, "efgh", s.Line(1))
}

func TestSurfaceRender(t *testing.T) {
	s := NewSurface(3, 2)
	ctx, err := s.Context()
	require.NoError(t, err)

	ctx.FillText("ab", 0, 0, plain)
	ctx.FillText("c", 1, 1, plain)
	require.Equal(t, "ab \n c ", s.Render())
}
