package spectrum_test

import (
	"math"
	"testing"

	"github.com/alkime/visualizer/internal/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransform(t *testing.T, opts spectrum.TransformOptions) *spectrum.Transform {
	t.Helper()

	tr, err := spectrum.NewTransform(opts)
	require.NoError(t, err)

	return tr
}

func ones(n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = 1
	}
	return s
}

func TestTransform_EmptyInput(t *testing.T) {
	t.Parallel()

	tr := newTransform(t, spectrum.TransformOptions{})

	require.NotPanics(t, func() {
		assert.Empty(t, tr.Apply(nil))
		assert.Empty(t, tr.Apply([]float32{}))
	})
}

func TestTransform_Length(t *testing.T) {
	t.Parallel()

	tr := newTransform(t, spectrum.TransformOptions{})

	tests := []struct {
		name    string
		samples int
		want    int
	}{
		{name: "single sample", samples: 1, want: 0},
		{name: "power of two", samples: 1024, want: 512},
		{name: "padded up", samples: 1000, want: 512},
		{name: "just over", samples: 1025, want: 1024},
		{name: "three", samples: 3, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tr.Apply(make([]float32, tt.samples))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestTransform_Silence(t *testing.T) {
	t.Parallel()

	tr := newTransform(t, spectrum.TransformOptions{})

	for _, m := range tr.Apply(make([]float32, 512)) {
		require.Zero(t, m)
	}
}

func TestTransform_DC(t *testing.T) {
	t.Parallel()

	tr := newTransform(t, spectrum.TransformOptions{})

	got := tr.Apply(ones(8))
	require.Len(t, got, 4)
	assert.InDelta(t, 8.0, got[0], 1e-9)
	for _, m := range got[1:] {
		assert.InDelta(t, 0.0, m, 1e-9)
	}
}

func TestTransform_Sine(t *testing.T) {
	t.Parallel()

	const (
		n   = 64
		bin = 5
	)

	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * bin * float64(i) / n))
	}

	tr := newTransform(t, spectrum.TransformOptions{})
	got := tr.Apply(samples)
	require.Len(t, got, n/2)

	for i, m := range got {
		if i == bin {
			assert.InDelta(t, n/2, m, 1e-3, "peak bin")
			continue
		}
		assert.InDelta(t, 0.0, m, 1e-3, "bin %d", i)
	}
}

func TestTransform_ZeroPadding(t *testing.T) {
	t.Parallel()

	tr := newTransform(t, spectrum.TransformOptions{})

	// Five ones padded to eight: DC is the plain sum.
	got := tr.Apply(ones(5))
	require.Len(t, got, 4)
	assert.InDelta(t, 5.0, got[0], 1e-9)
}

func TestTransform_HalfWindow(t *testing.T) {
	t.Parallel()

	tr := newTransform(t, spectrum.TransformOptions{HalfWindow: true})

	got := tr.Apply(ones(8))
	require.Len(t, got, 4)
	assert.InDelta(t, 4.0, got[0], 1e-9)
}

func TestTransform_HannWindow(t *testing.T) {
	t.Parallel()

	tr := newTransform(t, spectrum.TransformOptions{Window: "Hann"})

	// Sum of an 8-point symmetric Hann window is 3.5.
	got := tr.Apply(ones(8))
	require.Len(t, got, 4)
	assert.InDelta(t, 3.5, got[0], 1e-9)
}

func TestTransform_Deterministic(t *testing.T) {
	t.Parallel()

	samples := make([]float32, 300)
	for i := range samples {
		samples[i] = float32(math.Sin(float64(i)*0.3)) * 0.5
	}

	tr := newTransform(t, spectrum.TransformOptions{})
	first := tr.Apply(samples)
	second := tr.Apply(samples)

	require.Equal(t, first, second)
	require.Equal(t, first, newTransform(t, spectrum.TransformOptions{}).Apply(samples))
}

func TestTransform_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	samples := ones(16)
	tr := newTransform(t, spectrum.TransformOptions{Window: spectrum.WindowBlackman})
	tr.Apply(samples)

	require.Equal(t, ones(16), samples)
}

func TestNewTransform_Windows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		window  string
		wantErr bool
	}{
		{window: ""},
		{window: "none"},
		{window: "hann"},
		{window: "HAMMING"},
		{window: " blackman "},
		{window: "bartlett"},
		{window: "kaiser", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.window, func(t *testing.T) {
			t.Parallel()

			tr, err := spectrum.NewTransform(spectrum.TransformOptions{Window: tt.window})
			if tt.wantErr {
				require.ErrorIs(t, err, spectrum.ErrUnknownWindow)
				require.Nil(t, tr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, tr)
		})
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	t.Parallel()

	tests := map[int]int{
		-3:   1,
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		511:  512,
		512:  512,
		513:  1024,
		4800: 8192,
	}

	for in, want := range tests {
		assert.Equal(t, want, spectrum.NextPowerOfTwo(in), "NextPowerOfTwo(%d)", in)
	}
}
