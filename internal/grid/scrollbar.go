package grid

import (
	"sync"

	"github.com/google/uuid"

	"github.com/zjrosen/gridline/internal/log"
)

// Axis identifies which scrollbar a piece of geometry or input belongs to.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	if a == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// MinThumbSize is the floor on thumb extent in pixels. It keeps the thumb
// grabbable even when the content is astronomically longer than the track.
const MinThumbSize = 20

// Geometry is the derived scrollbar presentation: pure function of scroll
// state, viewport config, and total content extent. Recomputed per render,
// never cached.
type Geometry struct {
	ThumbSize   float64
	ThumbOffset float64
	Visible     bool
}

// BarMetrics carries the per-axis extents a Bar needs to map between
// track positions and scroll offsets.
type BarMetrics struct {
	ViewportExtent float64 // visible size along the axis
	TotalExtent    float64 // total content size along the axis
	TrackExtent    float64 // length of the scrollbar track widget
	MaxScroll      float64 // maximum scroll offset along the axis
}

// DragSession records an in-progress thumb drag for one axis. Created on
// pointer-down over the thumb, consulted on each pointer-move, destroyed
// on pointer-up or controller teardown. At most one per axis.
type DragSession struct {
	id            string
	axis          Axis
	initialPos    float64
	initialScroll float64

	release     func()
	releaseOnce sync.Once
}

// End releases the session's pointer subscription. Safe to call more
// than once; the release runs exactly once even when teardown races a
// normal pointer-up.
func (d *DragSession) End() {
	d.releaseOnce.Do(func() {
		if d.release != nil {
			d.release()
		}
		log.Debug(log.CatBar, "drag session ended", "id", d.id, "axis", d.axis)
	})
}

// Bar is one scrollbar controller. The vertical and horizontal bars are
// structurally identical and differ only by axis; the owning Viewport
// supplies per-axis metrics on every call.
type Bar struct {
	axis    Axis
	session *DragSession
}

// NewBar creates a scrollbar controller for the given axis.
func NewBar(axis Axis) *Bar {
	return &Bar{axis: axis}
}

// Axis returns the axis this bar controls.
func (b *Bar) Axis() Axis { return b.axis }

// Dragging reports whether a drag session is active on this bar.
func (b *Bar) Dragging() bool { return b.session != nil }

// Geometry computes the thumb presentation for the current scroll ratio.
func (b *Bar) Geometry(m BarMetrics, ratio float64) Geometry {
	g := Geometry{Visible: m.TotalExtent > m.ViewportExtent}
	if m.TotalExtent <= 0 || m.TrackExtent <= 0 {
		return g
	}
	size := m.ViewportExtent / m.TotalExtent * m.TrackExtent
	if size < MinThumbSize {
		size = MinThumbSize
	}
	if size > m.TrackExtent {
		size = m.TrackExtent
	}
	g.ThumbSize = size
	g.ThumbOffset = ratio * (m.TrackExtent - size)
	return g
}

// TrackClick maps a click position within the track to a scroll offset.
// Clicks that land on the thumb itself must not reach this method (the
// host checks the hit target first); they belong to the drag path, and
// letting them through would make click and drag fight over the state.
// Returns the target offset, already clamped to [0, MaxScroll].
func (b *Bar) TrackClick(m BarMetrics, pos float64) float64 {
	if m.TrackExtent <= 0 {
		return 0
	}
	ratio := pos / m.TrackExtent
	return clampOffset(ratio*m.MaxScroll, m.MaxScroll)
}

// StartDrag opens a drag session recording the pointer position and the
// scroll offset at press time. release is the scoped unsubscription for
// the host's global pointer listeners; it is guaranteed to run exactly
// once, on drag end or on controller teardown, whichever comes first.
// A second press while a session is live is not observed in a
// well-behaved host; if it happens anyway, the stale session is closed
// before the new one opens.
func (b *Bar) StartDrag(pos, currentScroll float64, release func()) *DragSession {
	if b.session != nil {
		b.session.End()
	}
	b.session = &DragSession{
		id:            uuid.NewString(),
		axis:          b.axis,
		initialPos:    pos,
		initialScroll: currentScroll,
		release:       release,
	}
	log.Debug(log.CatBar, "drag session started", "id", b.session.id, "axis", b.axis, "pos", pos)
	return b.session
}

// DragMove maps a pointer move to a new scroll offset. No-op (returns
// the current offset and false) when no session is active on this axis.
func (b *Bar) DragMove(m BarMetrics, pos, currentScroll float64) (float64, bool) {
	if b.session == nil {
		return currentScroll, false
	}
	if m.TrackExtent <= 0 {
		return currentScroll, false
	}
	delta := pos - b.session.initialPos
	scrollDelta := delta / m.TrackExtent * m.MaxScroll
	return clampOffset(b.session.initialScroll+scrollDelta, m.MaxScroll), true
}

// EndDrag closes the active session, releasing its listeners.
func (b *Bar) EndDrag() {
	if b.session == nil {
		return
	}
	b.session.End()
	b.session = nil
}
