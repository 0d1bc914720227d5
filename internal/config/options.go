package config

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/alkime/visualizer/internal/render"
	"github.com/alkime/visualizer/internal/spectrum"
)

// DecibelRange is the span of levels mapped onto the bar height.
type DecibelRange struct {
	Min float64
	Max float64
}

// DefaultRange is used when no valid range is given.
var DefaultRange = DecibelRange{Min: spectrum.DefaultMinDecibels, Max: spectrum.DefaultMaxDecibels}

// Config is the immutable render configuration handed to the pipeline.
// Build it once with New; it is passed by value afterwards.
type Config struct {
	// Glyph is the single character drawn in occupied cells.
	Glyph string
	// FixedSize overrides the terminal size when non-nil.
	FixedSize *render.Size
	// Range is the decibel span, Min < Max.
	Range DecibelRange
	// Colour is a foreground escape prefix, or empty.
	Colour string
	// Sources lists lower-cased capture source names to include. Empty
	// means the default source.
	Sources []string

	// Window names the analysis window (see spectrum.TransformOptions).
	Window string
	// HalfWindow feeds only the first half of each buffer to the FFT.
	HalfWindow bool
	// AllBins buckets the whole spectrum instead of its lower half.
	AllBins bool
	// Mono averages the delivered channels into one buffer per frame.
	Mono bool
}

// Options are the raw, unvalidated option strings from the command line.
type Options struct {
	Text    string
	Colour  string
	Range   string
	Size    string
	Sources []string

	Window     string
	HalfWindow bool
	AllBins    bool
	Mono       bool
}

// New validates opts into a Config. Malformed values never fail: each
// falls back to its default.
func New(opts Options) Config {
	cfg := Config{
		Glyph:      ParseGlyph(opts.Text),
		Range:      DefaultRange,
		Window:     opts.Window,
		HalfWindow: opts.HalfWindow,
		AllBins:    opts.AllBins,
		Mono:       opts.Mono,
	}

	if colour, ok := ParseColour(opts.Colour); ok {
		cfg.Colour = colour
	}

	if r, ok := ParseRange(opts.Range); ok {
		cfg.Range = r
	}

	if size, ok := ParseSize(opts.Size); ok {
		cfg.FixedSize = &size
	}

	for _, src := range opts.Sources {
		if name := strings.ToLower(strings.TrimSpace(src)); name != "" {
			cfg.Sources = append(cfg.Sources, name)
		}
	}

	return cfg
}

// ParseGlyph returns s when it is exactly one character, else render.DefaultGlyph.
func ParseGlyph(s string) string {
	if utf8.RuneCountInString(s) != 1 {
		return render.DefaultGlyph
	}

	return s
}

// ParseColour parses "r,g,b" (each 0-255) into the escape prefix for the
// nearest colour in the 6x6x6 cube of the 256-colour palette.
func ParseColour(s string) (string, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return "", false
	}

	var rgb [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return "", false
		}
		rgb[i] = int(float64(v)/255.0*5.0 + 0.5)
	}

	return render.ColourPrefix(CubeCode(rgb[0], rgb[1], rgb[2])), true
}

// CubeCode returns the palette index for cube coordinates r, g, b in 0..5.
func CubeCode(r, g, b int) int {
	return 16 + 36*r + 6*g + b
}

// ParseRange parses "lower,upper" decibels. The lower bound must be below
// the upper bound.
func ParseRange(s string) (DecibelRange, bool) {
	lo, hi, ok := strings.Cut(s, ",")
	if !ok {
		return DecibelRange{}, false
	}

	minDb, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return DecibelRange{}, false
	}

	maxDb, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return DecibelRange{}, false
	}

	if math.IsInf(minDb, 0) || math.IsInf(maxDb, 0) || !(minDb < maxDb) {
		return DecibelRange{}, false
	}

	return DecibelRange{Min: minDb, Max: maxDb}, true
}

// ParseSize parses "WIDTHxHEIGHT" with non-negative integers.
func ParseSize(s string) (render.Size, bool) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return render.Size{}, false
	}

	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil || width < 0 {
		return render.Size{}, false
	}

	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || height < 0 {
		return render.Size{}, false
	}

	return render.Size{Width: width, Height: height}, true
}
