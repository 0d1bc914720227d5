package render

import "math"

// Smoother turns normalized column levels into integer bar heights and
// limits how fast a bar may fall: at most one row per frame. Rises are
// shown immediately. It is not safe for concurrent use; the pipeline owns it.
type Smoother struct {
	previous []int
}

// NewSmoother returns a Smoother with no history.
func NewSmoother() *Smoother {
	return &Smoother{}
}

// Heights converts levels to heights for a grid with the given row count
// and records the result as the history for the next call. A change in
// column count discards the history first.
func (s *Smoother) Heights(levels []float64, rows int) []int {
	if len(s.previous) != len(levels) {
		s.previous = nil
	}

	heights := make([]int, len(levels))
	for i, level := range levels {
		h := TargetHeight(level, rows)
		if s.previous != nil && s.previous[i] > h {
			h = max(s.previous[i]-1, 0)
		}
		heights[i] = h
	}

	s.previous = append(s.previous[:0:0], heights...)

	return heights
}

// Previous returns a copy of the heights produced by the last call, or nil.
func (s *Smoother) Previous() []int {
	if s.previous == nil {
		return nil
	}

	return append([]int(nil), s.previous...)
}

// Reset drops the history so the next frame renders unsmoothed.
func (s *Smoother) Reset() {
	s.previous = nil
}

// TargetHeight is round(level * rows). Levels above 1 give heights taller
// than the grid; the renderer clips them.
func TargetHeight(level float64, rows int) int {
	if !(level > 0) || rows <= 0 {
		return 0
	}

	return int(math.Round(level * float64(rows)))
}
