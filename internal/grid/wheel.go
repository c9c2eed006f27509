package grid

// DeltaMode says what unit a wheel event's deltas are expressed in.
// Pixel deltas apply as-is; line deltas are scaled by lineScrollSpeed,
// matching how browsers report wheel ticks on different platforms.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
)

// WheelEvent is a host wheel event normalized to the controller's input
// model. Horizontal is true when the host's horizontal-scroll modifier
// (shift, typically) is held.
type WheelEvent struct {
	DeltaX float64
	DeltaY float64
	Mode   DeltaMode

	Horizontal bool
}

const (
	// lineScrollSpeed converts line-based wheel deltas to pixels.
	lineScrollSpeed = 40

	// decelZoneStart marks the beginning of the deceleration zone as a
	// fraction of realMaxScroll. In the final 5% of a near-billion-row
	// dataset a single wheel tick can represent millions of rows; the
	// reduced sensitivity prevents overshoot and jitter at the tail.
	decelZoneStart = 0.95

	// decelFactor divides the wheel delta inside the deceleration zone.
	decelFactor = 10
)

// speed returns the pixel multiplier for the event's delta mode.
func (e WheelEvent) speed() float64 {
	if e.Mode == DeltaLine {
		return lineScrollSpeed
	}
	return 1
}

// horizontalDelta picks the delta for shifted (horizontal) scrolling:
// deltaX when present, falling back to deltaY for hosts that report
// shift+wheel on the Y axis.
func (e WheelEvent) horizontalDelta() float64 {
	if e.DeltaX != 0 {
		return e.DeltaX * e.speed()
	}
	return e.DeltaY * e.speed()
}

// verticalDelta returns the pixel delta for vertical scrolling, with the
// deceleration zone applied relative to the current position.
func (e WheelEvent) verticalDelta(scrollTop, realMaxScroll float64) float64 {
	d := e.DeltaY * e.speed()
	if realMaxScroll > 0 && scrollTop > decelZoneStart*realMaxScroll {
		d /= decelFactor
	}
	return d
}
