package grid

import "math"

// State holds the current scroll offsets. It is mutated only by the
// controller's own input paths (wheel, track click, thumb drag,
// ScrollToRow), which all funnel through the same clamp.
type State struct {
	left float64
	top  float64
}

// Left returns the current horizontal offset.
func (s *State) Left() float64 { return s.left }

// Top returns the current vertical offset.
func (s *State) Top() float64 { return s.top }

// SetTop writes a vertical offset clamped to [0, maxScroll]. Returns
// true when the stored value actually changed, so callers can suppress
// redundant redraws.
func (s *State) SetTop(v, maxScroll float64) bool {
	v = clampOffset(v, maxScroll)
	if v == s.top {
		return false
	}
	s.top = v
	return true
}

// SetLeft writes a horizontal offset clamped to [0, maxScroll].
func (s *State) SetLeft(v, maxScroll float64) bool {
	v = clampOffset(v, maxScroll)
	if v == s.left {
		return false
	}
	s.left = v
	return true
}

// CurrentRow returns the row index implied by the current vertical
// offset.
func (s *State) CurrentRow(cfg Config) int64 {
	return int64(s.top / cfg.CellHeight)
}

// Recover resets scrollTop to 0 when it implies a row beyond the grid.
// Out-of-range offsets are a recoverable anomaly, not an error; the
// reset-to-zero behavior matches the rest of the anomaly handling.
// Returns true if a reset happened.
func (s *State) Recover(cfg Config) bool {
	if s.CurrentRow(cfg) > cfg.Rows {
		s.top = 0
		return true
	}
	return false
}

// clampOffset is the single clamp every scroll write funnels through.
// Non-finite and negative candidates reset to 0 rather than erroring.
func clampOffset(v, maxScroll float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if maxScroll < 0 {
		maxScroll = 0
	}
	if v > maxScroll {
		return maxScroll
	}
	return v
}
