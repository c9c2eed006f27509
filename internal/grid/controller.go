package grid

import (
	"github.com/zjrosen/gridline/internal/engine"
	"github.com/zjrosen/gridline/internal/log"
)

// FrameScheduler defers a callback to the host's next paint opportunity.
// The Bubble Tea shell schedules on its tick; tests drive frames by hand.
type FrameScheduler interface {
	Schedule(fn func())
}

// SyncScheduler runs callbacks immediately. It is the fallback for hosts
// without a frame loop; with it, vertical wheel redraws degrade from
// coalesced to synchronous but stay correct.
type SyncScheduler struct{}

// Schedule implements FrameScheduler.
func (SyncScheduler) Schedule(fn func()) { fn() }

// Viewport is the scroll coordination controller: it owns the scroll
// state, the two scrollbar controllers, and the render bridge, and is
// the single place input events turn into state changes and repaints.
//
// All methods are driven from the host's event loop; the controller is
// deliberately single-goroutine and carries no locks of its own.
type Viewport struct {
	cfg    Config
	state  State
	vbar   *Bar
	hbar   *Bar
	bridge *Bridge
	sched  FrameScheduler

	// framePending is true while a vertical redraw is queued for the
	// next frame. Further wheel events keep mutating the state; the
	// queued redraw reads the state when it fires, so the last position
	// wins and intermediate ones are never painted.
	framePending bool

	closed bool
}

// NewViewport wires a controller from a validated config, an engine
// factory, and the surfaces to paint on. A nil scheduler falls back to
// SyncScheduler.
func NewViewport(cfg Config, factory engine.Factory, headerSurface, contentSurface *engine.Surface, sched FrameScheduler) (*Viewport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sched == nil {
		sched = SyncScheduler{}
	}
	return &Viewport{
		cfg:    cfg,
		vbar:   NewBar(Vertical),
		hbar:   NewBar(Horizontal),
		bridge: NewBridge(factory, headerSurface, contentSurface),
		sched:  sched,
	}, nil
}

// Initialize constructs the render engine and performs the first paint.
// A failed engine construction leaves the controller not ready; input
// still mutates scroll state but nothing is painted.
func (v *Viewport) Initialize() {
	v.bridge.Initialize(v.cfg)
	v.state.Recover(v.cfg)
	v.bridge.RenderContent(v.state.left, v.state.top)
}

// Ready reports whether the render engine is usable.
func (v *Viewport) Ready() bool { return v.bridge.Ready() }

// Config returns the viewport configuration in effect.
func (v *Viewport) Config() Config { return v.cfg }

// Offsets returns the current scroll position.
func (v *Viewport) Offsets() (left, top float64) {
	return v.state.left, v.state.top
}

// CurrentRow returns the row index implied by the vertical offset.
func (v *Viewport) CurrentRow() int64 { return v.state.CurrentRow(v.cfg) }

// Bridge exposes the render bridge, mainly for its redraw event broker.
func (v *Viewport) Bridge() *Bridge { return v.bridge }

// metrics derives the per-axis extents for scrollbar math. Always
// computed fresh from config and engine; nothing here is cached, so
// geometry can never go stale after a resize or reinitialization.
func (v *Viewport) metrics(axis Axis) BarMetrics {
	if axis == Horizontal {
		total := v.bridge.TotalWidth()
		return BarMetrics{
			ViewportExtent: v.cfg.VisibleWidth,
			TotalExtent:    total,
			TrackExtent:    v.cfg.VisibleWidth,
			MaxScroll:      HorizontalMaxScroll(v.cfg, total),
		}
	}
	return BarMetrics{
		ViewportExtent: v.cfg.VisibleHeight,
		TotalExtent:    TotalHeight(v.cfg),
		TrackExtent:    v.cfg.VisibleHeight,
		MaxScroll:      RealMaxScroll(v.cfg),
	}
}

func (v *Viewport) bar(axis Axis) *Bar {
	if axis == Horizontal {
		return v.hbar
	}
	return v.vbar
}

func (v *Viewport) offset(axis Axis) float64 {
	if axis == Horizontal {
		return v.state.left
	}
	return v.state.top
}

// setOffset writes one axis through the clamp, reporting change.
func (v *Viewport) setOffset(axis Axis, target, maxScroll float64) bool {
	if axis == Horizontal {
		return v.state.SetLeft(target, maxScroll)
	}
	return v.state.SetTop(target, maxScroll)
}

// Geometry computes the thumb presentation for one axis.
func (v *Viewport) Geometry(axis Axis) Geometry {
	m := v.metrics(axis)
	return v.bar(axis).Geometry(m, ScrollRatio(v.offset(axis), m.MaxScroll))
}

// HandleWheel dispatches a wheel event to the right axis. Vertical
// scrolls mutate state immediately but coalesce their repaint to one
// per frame; horizontal scrolls repaint header and content
// synchronously so the two can never be seen misaligned.
func (v *Viewport) HandleWheel(ev WheelEvent) {
	if v.closed {
		return
	}
	if ev.Horizontal {
		max := HorizontalMaxScroll(v.cfg, v.bridge.TotalWidth())
		if !v.state.SetLeft(v.state.left+ev.horizontalDelta(), max) {
			return
		}
		v.bridge.RenderHeader(v.state.left)
		v.bridge.RenderContent(v.state.left, v.state.top)
		return
	}
	max := RealMaxScroll(v.cfg)
	delta := ev.verticalDelta(v.state.top, max)
	if !v.state.SetTop(v.state.top+delta, max) {
		return
	}
	v.scheduleContentRedraw()
}

// scheduleContentRedraw queues at most one content repaint per frame.
func (v *Viewport) scheduleContentRedraw() {
	if v.framePending {
		return
	}
	v.framePending = true
	v.sched.Schedule(func() {
		v.framePending = false
		if v.closed {
			return
		}
		v.bridge.RenderContent(v.state.left, v.state.top)
	})
}

// redraw repaints after a jump on the given axis. Horizontal jumps move
// the header too.
func (v *Viewport) redraw(axis Axis) {
	if axis == Horizontal {
		v.bridge.RenderHeader(v.state.left)
	}
	v.bridge.RenderContent(v.state.left, v.state.top)
}

// HandleTrackClick jumps the scroll position to where the track was
// clicked. The host must route thumb hits to StartThumbDrag instead;
// this path is for bare track only.
func (v *Viewport) HandleTrackClick(axis Axis, pos float64) {
	if v.closed {
		return
	}
	m := v.metrics(axis)
	target := v.bar(axis).TrackClick(m, pos)
	if !v.setOffset(axis, target, m.MaxScroll) {
		return
	}
	log.Debug(log.CatInput, "track click", "axis", axis, "pos", pos, "target", target)
	v.redraw(axis)
}

// StartThumbDrag opens a drag session on the given axis. release is the
// host's unsubscription for its global pointer listeners; it runs
// exactly once, on drag end or on Close.
func (v *Viewport) StartThumbDrag(axis Axis, pos float64, release func()) {
	if v.closed {
		if release != nil {
			release()
		}
		return
	}
	v.bar(axis).StartDrag(pos, v.offset(axis), release)
}

// MoveThumbDrag maps a pointer move within an active drag to a scroll
// change. Moves without an active session on the axis are ignored.
func (v *Viewport) MoveThumbDrag(axis Axis, pos float64) {
	if v.closed {
		return
	}
	m := v.metrics(axis)
	target, ok := v.bar(axis).DragMove(m, pos, v.offset(axis))
	if !ok {
		return
	}
	if !v.setOffset(axis, target, m.MaxScroll) {
		return
	}
	v.redraw(axis)
}

// EndThumbDrag closes the drag session on the given axis, if any.
func (v *Viewport) EndThumbDrag(axis Axis) {
	v.bar(axis).EndDrag()
}

// ScrollToRow jumps so the given row sits at the top of the viewport.
// Out-of-range rows clamp to the grid edges, and the resulting offset
// clamps to the scroll range, so the last viewport-full of rows is
// reached by clamping rather than overshooting past it.
func (v *Viewport) ScrollToRow(row int64) {
	if v.closed {
		return
	}
	target := RowToPixel(v.cfg, row)
	if !v.state.SetTop(target, RealMaxScroll(v.cfg)) {
		return
	}
	log.Debug(log.CatViewport, "scroll to row", "row", row, "target", target)
	v.redraw(Vertical)
}

// Resize applies a new viewport size: the engine is rebuilt for the new
// extents, offsets are re-clamped against the new ranges, and
// everything repaints.
func (v *Viewport) Resize(width, height float64) {
	if v.closed {
		return
	}
	v.cfg = v.cfg.WithVisible(width, height)
	v.bridge.Reconfigure(v.cfg)
	v.state.SetTop(v.state.top, RealMaxScroll(v.cfg))
	v.state.SetLeft(v.state.left, HorizontalMaxScroll(v.cfg, v.bridge.TotalWidth()))
	v.state.Recover(v.cfg)
	v.redraw(Horizontal)
}

// Close tears the controller down: live drag sessions are released and
// the engine is disposed. Idempotent.
func (v *Viewport) Close() {
	if v.closed {
		return
	}
	v.closed = true
	v.vbar.EndDrag()
	v.hbar.EndDrag()
	v.bridge.Dispose()
	log.Info(log.CatViewport, "viewport closed")
}
