package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGeometryThumbFloor(t *testing.T) {
	b := NewBar(Vertical)

	// A billion rows against an 800px track: the proportional thumb would
	// be microscopic, the floor keeps it grabbable.
	m := BarMetrics{
		ViewportExtent: 800,
		TotalExtent:    50_000_000_040,
		TrackExtent:    800,
		MaxScroll:      49_999_999_240,
	}
	g := b.Geometry(m, 0)
	require.Equal(t, float64(MinThumbSize), g.ThumbSize)
	require.True(t, g.Visible)
}

func TestGeometryProportionalThumb(t *testing.T) {
	b := NewBar(Vertical)

	m := BarMetrics{ViewportExtent: 400, TotalExtent: 800, TrackExtent: 400, MaxScroll: 400}
	g := b.Geometry(m, 0.5)
	require.Equal(t, 200.0, g.ThumbSize)
	require.Equal(t, 100.0, g.ThumbOffset)
}

func TestGeometryContentFits(t *testing.T) {
	b := NewBar(Horizontal)

	m := BarMetrics{ViewportExtent: 800, TotalExtent: 500, TrackExtent: 800, MaxScroll: 0}
	g := b.Geometry(m, 0)
	require.False(t, g.Visible)
	require.Equal(t, 0.0, g.ThumbOffset)
}

// Thumb offset stays on the track for any ratio, and the extremes map to
// the track's extremes.
func TestGeometryThumbStaysOnTrack(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewBar(Vertical)
		m := BarMetrics{
			ViewportExtent: rapid.Float64Range(50, 2000).Draw(t, "viewport"),
			TotalExtent:    rapid.Float64Range(1, 50_000_000_040).Draw(t, "total"),
			MaxScroll:      0,
		}
		m.TrackExtent = m.ViewportExtent
		ratio := rapid.Float64Range(0, 1).Draw(t, "ratio")

		g := b.Geometry(m, ratio)
		require.GreaterOrEqual(t, g.ThumbOffset, 0.0)
		require.LessOrEqual(t, g.ThumbOffset+g.ThumbSize, m.TrackExtent+1e-9)
	})
}

func TestTrackClick(t *testing.T) {
	b := NewBar(Vertical)
	m := BarMetrics{ViewportExtent: 800, TotalExtent: 10_000, TrackExtent: 800, MaxScroll: 9_200}

	require.Equal(t, 0.0, b.TrackClick(m, 0))
	require.Equal(t, 4_600.0, b.TrackClick(m, 400))
	require.Equal(t, 9_200.0, b.TrackClick(m, 800))
	require.Equal(t, 9_200.0, b.TrackClick(m, 10_000), "past the track clamps")
	require.Equal(t, 0.0, b.TrackClick(m, -50), "before the track clamps")
}

func TestTrackClickDegenerateTrack(t *testing.T) {
	b := NewBar(Horizontal)
	require.Equal(t, 0.0, b.TrackClick(BarMetrics{}, 100))
}

// Click-at-ratio then read-back round-trips within one quantization step
// of the track.
func TestTrackClickRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		b := NewBar(Vertical)
		m := BarMetrics{
			ViewportExtent: 800,
			TotalExtent:    rapid.Float64Range(1_000, 50_000_000_040).Draw(t, "total"),
			TrackExtent:    800,
		}
		m.MaxScroll = m.TotalExtent - m.ViewportExtent
		pos := rapid.Float64Range(0, m.TrackExtent).Draw(t, "pos")

		target := b.TrackClick(m, pos)
		back := ScrollRatio(target, m.MaxScroll) * m.TrackExtent
		require.LessOrEqual(t, math.Abs(back-pos), m.MaxScroll/m.TrackExtent+1e-6)
	})
}

func TestDragSessionLifecycle(t *testing.T) {
	b := NewBar(Vertical)
	m := BarMetrics{ViewportExtent: 800, TotalExtent: 10_000, TrackExtent: 800, MaxScroll: 9_200}

	released := 0
	require.False(t, b.Dragging())

	b.StartDrag(100, 1_000, func() { released++ })
	require.True(t, b.Dragging())

	// 80px along an 800px track is a tenth of MaxScroll.
	target, ok := b.DragMove(m, 180, 1_000)
	require.True(t, ok)
	require.Equal(t, 1_920.0, target)

	// Moves are relative to the press position, not cumulative.
	target, ok = b.DragMove(m, 100, target)
	require.True(t, ok)
	require.Equal(t, 1_000.0, target)

	b.EndDrag()
	require.False(t, b.Dragging())
	require.Equal(t, 1, released)

	// Ending again is a no-op.
	b.EndDrag()
	require.Equal(t, 1, released)
}

func TestDragMoveWithoutSession(t *testing.T) {
	b := NewBar(Horizontal)
	m := BarMetrics{ViewportExtent: 800, TotalExtent: 10_000, TrackExtent: 800, MaxScroll: 9_200}

	target, ok := b.DragMove(m, 500, 123)
	require.False(t, ok)
	require.Equal(t, 123.0, target, "current offset passes through untouched")
}

func TestDragReleaseRunsOnce(t *testing.T) {
	b := NewBar(Vertical)

	released := 0
	s := b.StartDrag(0, 0, func() { released++ })

	// Teardown racing a normal pointer-up must not double-release.
	s.End()
	b.EndDrag()
	require.Equal(t, 1, released)
}

func TestStartDragClosesStaleSession(t *testing.T) {
	b := NewBar(Vertical)

	firstReleased := 0
	b.StartDrag(10, 0, func() { firstReleased++ })
	b.StartDrag(20, 0, nil)
	require.Equal(t, 1, firstReleased, "stale session released before new one opens")
	require.True(t, b.Dragging())
}

func TestDragClampsAtEdges(t *testing.T) {
	b := NewBar(Vertical)
	m := BarMetrics{ViewportExtent: 800, TotalExtent: 10_000, TrackExtent: 800, MaxScroll: 9_200}

	b.StartDrag(400, 4_600, nil)

	target, ok := b.DragMove(m, -10_000, 4_600)
	require.True(t, ok)
	require.Equal(t, 0.0, target)

	target, ok = b.DragMove(m, 10_000, target)
	require.True(t, ok)
	require.Equal(t, 9_200.0, target)
}
