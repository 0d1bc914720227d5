// Package spectrum turns raw sample buffers into per-column display levels:
// a real FFT magnitude spectrum, a linear bucketing of its bins onto display
// columns, and a decibel mapping of each bucket into a normalized level.
package spectrum

import (
	"fmt"
	"math/cmplx"
	"strings"
	"sync"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Spectrum holds non-negative bin magnitudes in ascending frequency order.
type Spectrum []float64

// Window names accepted by TransformOptions.Window.
const (
	WindowNone     = "none"
	WindowHann     = "hann"
	WindowHamming  = "hamming"
	WindowBlackman = "blackman"
	WindowBartlett = "bartlett"
)

var windowFuncs = map[string]func(int) []float64{
	WindowHann:     window.Hann,
	WindowHamming:  window.Hamming,
	WindowBlackman: window.Blackman,
	WindowBartlett: window.Bartlett,
}

// TransformOptions configures a Transform.
type TransformOptions struct {
	// Window names the taper applied to the samples before the FFT.
	// Empty or "none" leaves the samples untouched.
	Window string

	// HalfWindow copies only the first half of each buffer into the
	// working buffer and zero-fills the rest.
	HalfWindow bool
}

// Transform computes magnitude spectra. FFT plans are cached per length,
// so a Transform is cheap to reuse across frames. Safe for concurrent use.
type Transform struct {
	opts   TransformOptions
	window func(int) []float64

	mu    sync.Mutex
	plans map[int]*fourier.FFT
}

// NewTransform validates opts and returns a ready Transform.
func NewTransform(opts TransformOptions) (*Transform, error) {
	name := strings.ToLower(strings.TrimSpace(opts.Window))
	if name == "" {
		name = WindowNone
	}

	t := &Transform{ //nolint:exhaustruct // mu zero value is ready to use
		opts:  opts,
		plans: make(map[int]*fourier.FFT),
	}

	if name != WindowNone {
		fn, ok := windowFuncs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, opts.Window)
		}
		t.window = fn
	}
	t.opts.Window = name

	return t, nil
}

// Apply returns the magnitude spectrum of samples. The result has
// NextPowerOfTwo(len(samples))/2 entries; an empty buffer yields an empty
// spectrum.
func (t *Transform) Apply(samples []float32) Spectrum {
	if len(samples) == 0 {
		return Spectrum{}
	}

	size := NextPowerOfTwo(len(samples))
	half := size / 2
	if half == 0 {
		return Spectrum{}
	}

	n := len(samples)
	if t.opts.HalfWindow {
		n /= 2
	}

	seq := make([]float64, size)
	for i := range n {
		seq[i] = float64(samples[i])
	}

	if t.window != nil && n > 1 {
		for i, w := range t.window(n) {
			seq[i] *= w
		}
	}

	coeffs := t.coefficients(size, seq)

	out := make(Spectrum, half)
	for i := range half {
		out[i] = cmplx.Abs(coeffs[i])
	}

	return out
}

// coefficients runs the cached plan for size. Plans keep internal scratch
// space, so the call is serialized.
func (t *Transform) coefficients(size int, seq []float64) []complex128 {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.plans[size]
	if !ok {
		p = fourier.NewFFT(size)
		t.plans[size] = p
	}

	return p.Coefficients(nil, seq)
}

// NextPowerOfTwo returns the smallest power of two >= n. It returns 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
