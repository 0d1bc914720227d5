package spectrum_test

import (
	"testing"

	"github.com/alkime/visualizer/internal/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRanges_EightBinsFourColumns(t *testing.T) {
	t.Parallel()

	got := spectrum.Ranges(8, 4)
	want := []spectrum.Range{
		{Start: 0, End: 2},
		{Start: 2, End: 4},
		{Start: 4, End: 6},
		{Start: 6, End: 8},
	}
	require.Equal(t, want, got)
}

func TestRanges_TileUsableBins(t *testing.T) {
	t.Parallel()

	for usable := 1; usable <= 64; usable++ {
		for width := 1; width <= usable; width++ {
			ranges := spectrum.Ranges(usable, width)
			require.Len(t, ranges, width)

			next := 0
			for i, r := range ranges {
				require.Equal(t, next, r.Start, "U=%d W=%d col=%d starts at a gap or overlap", usable, width, i)
				require.False(t, r.Empty(), "U=%d W=%d col=%d is empty", usable, width, i)
				require.LessOrEqual(t, r.End, usable)
				next = r.End
			}
			require.Equal(t, usable, next, "U=%d W=%d does not reach the end", usable, width)
		}
	}
}

func TestRanges_MoreColumnsThanBins(t *testing.T) {
	t.Parallel()

	ranges := spectrum.Ranges(3, 8)
	require.Len(t, ranges, 8)

	covered := 0
	empty := 0
	prev := spectrum.Range{}
	for _, r := range ranges {
		assert.LessOrEqual(t, r.Start, r.End)
		assert.LessOrEqual(t, r.End, 3)
		assert.GreaterOrEqual(t, r.Start, prev.Start, "monotonic start")
		assert.GreaterOrEqual(t, r.End, prev.End, "monotonic end")
		prev = r

		if r.Empty() {
			empty++
			continue
		}
		covered += r.End - r.Start
	}

	assert.Equal(t, 3, covered)
	assert.Equal(t, 5, empty)
}

func TestRanges_Degenerate(t *testing.T) {
	t.Parallel()

	assert.Nil(t, spectrum.Ranges(8, 0))
	assert.Nil(t, spectrum.Ranges(8, -1))

	for _, r := range spectrum.Ranges(0, 3) {
		assert.True(t, r.Empty())
	}
}

func TestBucketize(t *testing.T) {
	t.Parallel()

	s := spectrum.Spectrum{1, 3, 5, 7, 2, 2, 0, 10, 99, 99}

	tests := []struct {
		name   string
		usable int
		width  int
		want   []float64
	}{
		{name: "pairs", usable: 8, width: 4, want: []float64{2, 6, 2, 5}},
		{name: "single column", usable: 4, width: 1, want: []float64{4}},
		{name: "one bin each", usable: 3, width: 3, want: []float64{1, 3, 5}},
		{name: "more columns than bins", usable: 2, width: 4, want: []float64{0, 1, 0, 3}},
		{name: "usable clipped to spectrum", usable: 100, width: 1, want: []float64{22.8}},
		{name: "no columns", usable: 8, width: 0, want: []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := spectrum.Bucketize(s, tt.usable, tt.width)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9, "column %d", i)
			}
		})
	}
}

func TestUsableBins(t *testing.T) {
	t.Parallel()

	s := make(spectrum.Spectrum, 512)

	assert.Equal(t, 256, spectrum.UsableBins(s, false))
	assert.Equal(t, 512, spectrum.UsableBins(s, true))
	assert.Equal(t, 0, spectrum.UsableBins(spectrum.Spectrum{1}, false))
}
