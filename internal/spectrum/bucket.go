package spectrum

import "github.com/alkime/visualizer/pkg/collections"

// Range is a half-open span [Start, End) of spectrum bins assigned to one
// display column. Start == End means the column owns no bins.
type Range struct {
	Start int
	End   int
}

// Empty reports whether the range covers no bins.
func (r Range) Empty() bool {
	return r.Start >= r.End
}

// UsableBins returns how many leading bins of s feed the bucketizer.
// By default only the lower half of the spectrum is used; allBins lifts that.
func UsableBins(s Spectrum, allBins bool) int {
	if allBins {
		return len(s)
	}

	return len(s) / 2
}

// Ranges partitions [0, usable) into width contiguous ranges, left to right.
// When width > usable some ranges are empty.
func Ranges(usable, width int) []Range {
	if width <= 0 {
		return nil
	}

	usable = max(usable, 0)
	ranges := make([]Range, width)

	for i := range width {
		start := i * usable / width
		end := min((i+1)*usable/width, usable)
		ranges[i] = Range{Start: start, End: end}
	}

	return ranges
}

// Bucketize averages the first usable bins of s into width columns.
// Columns with an empty range get 0.
func Bucketize(s Spectrum, usable, width int) []float64 {
	usable = min(usable, len(s))
	ranges := Ranges(usable, width)
	out := make([]float64, len(ranges))

	for i, r := range ranges {
		if r.Empty() {
			continue
		}
		out[i] = collections.Mean([]float64(s[r.Start:r.End]))
	}

	return out
}
