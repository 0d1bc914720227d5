package config_test

import (
	"testing"

	"github.com/alkime/visualizer/internal/config"
	"github.com/alkime/visualizer/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGlyph(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":   render.DefaultGlyph,
		"#":  "#",
		"█":  "█",
		"ab": render.DefaultGlyph,
		"##": render.DefaultGlyph,
	}

	for in, want := range tests {
		assert.Equal(t, want, config.ParseGlyph(in), "ParseGlyph(%q)", in)
	}
}

func TestParseColour(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "white", in: "255,255,255", want: "\x1b[38;5;231m", wantOK: true},
		{name: "black", in: "0,0,0", want: "\x1b[38;5;16m", wantOK: true},
		{name: "red", in: "255,0,0", want: "\x1b[38;5;196m", wantOK: true},
		{name: "rounds to nearest step", in: "128, 0, 26", want: "\x1b[38;5;125m", wantOK: true},
		{name: "out of range", in: "256,0,0"},
		{name: "negative", in: "-1,0,0"},
		{name: "too few", in: "1,2"},
		{name: "too many", in: "1,2,3,4"},
		{name: "not a number", in: "red,green,blue"},
		{name: "empty", in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := config.ParseColour(tt.in)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCubeCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 16, config.CubeCode(0, 0, 0))
	assert.Equal(t, 231, config.CubeCode(5, 5, 5))
	assert.Equal(t, 46, config.CubeCode(0, 5, 0))
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   config.DecibelRange
		wantOK bool
	}{
		{name: "default shape", in: "0,60", want: config.DecibelRange{Min: 0, Max: 60}, wantOK: true},
		{name: "negative floor", in: "-20, 40", want: config.DecibelRange{Min: -20, Max: 40}, wantOK: true},
		{name: "fractional", in: "1.5,2.5", want: config.DecibelRange{Min: 1.5, Max: 2.5}, wantOK: true},
		{name: "inverted", in: "60,0"},
		{name: "equal", in: "10,10"},
		{name: "infinite", in: "0,inf"},
		{name: "missing separator", in: "60"},
		{name: "garbage", in: "a,b"},
		{name: "empty", in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := config.ParseRange(tt.in)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		want   render.Size
		wantOK bool
	}{
		{name: "typical", in: "80x24", want: render.Size{Width: 80, Height: 24}, wantOK: true},
		{name: "upper case", in: "100X10", want: render.Size{Width: 100, Height: 10}, wantOK: true},
		{name: "zero", in: "0x0", want: render.Size{}, wantOK: true},
		{name: "negative", in: "-1x10"},
		{name: "missing height", in: "80x"},
		{name: "no separator", in: "80"},
		{name: "garbage", in: "axb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := config.ParseSize(tt.in)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.Options{})
		assert.Equal(t, render.DefaultGlyph, cfg.Glyph)
		assert.Equal(t, config.DefaultRange, cfg.Range)
		assert.Nil(t, cfg.FixedSize)
		assert.Empty(t, cfg.Colour)
		assert.Empty(t, cfg.Sources)
	})

	t.Run("malformed values fall back", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.Options{
			Text:   "too long",
			Colour: "1,2",
			Range:  "50,10",
			Size:   "wide",
		})
		assert.Equal(t, render.DefaultGlyph, cfg.Glyph)
		assert.Equal(t, config.DefaultRange, cfg.Range)
		assert.Nil(t, cfg.FixedSize)
		assert.Empty(t, cfg.Colour)
	})

	t.Run("valid values", func(t *testing.T) {
		t.Parallel()

		cfg := config.New(config.Options{
			Text:       "*",
			Colour:     "0,0,255",
			Range:      "10,70",
			Size:       "40x12",
			Sources:    []string{" BlackHole 2ch ", "", "USB Mic"},
			Window:     "hann",
			HalfWindow: true,
			AllBins:    true,
			Mono:       true,
		})
		assert.Equal(t, "*", cfg.Glyph)
		assert.Equal(t, "\x1b[38;5;21m", cfg.Colour)
		assert.Equal(t, config.DecibelRange{Min: 10, Max: 70}, cfg.Range)
		require.NotNil(t, cfg.FixedSize)
		assert.Equal(t, render.Size{Width: 40, Height: 12}, *cfg.FixedSize)
		assert.Equal(t, []string{"blackhole 2ch", "usb mic"}, cfg.Sources)
		assert.Equal(t, "hann", cfg.Window)
		assert.True(t, cfg.HalfWindow)
		assert.True(t, cfg.AllBins)
		assert.True(t, cfg.Mono)
	})
}
