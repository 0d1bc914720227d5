package spectrum

import (
	"fmt"
	"math"
)

const (
	// DefaultMinDecibels is the floor of the display range.
	DefaultMinDecibels = 0.0
	// DefaultMaxDecibels is the top of the display range.
	DefaultMaxDecibels = 60.0
)

// LevelMapper converts an average bin magnitude into a display level.
// A level of 0 sits at Min decibels and 1 at Max. Levels above Max are
// returned as-is (greater than 1); the renderer clips them visually.
type LevelMapper struct {
	Min float64
	Max float64
}

// DefaultLevelMapper maps the 0-60 dB range.
func DefaultLevelMapper() LevelMapper {
	return LevelMapper{Min: DefaultMinDecibels, Max: DefaultMaxDecibels}
}

// NewLevelMapper returns a mapper for [minDb, maxDb].
func NewLevelMapper(minDb, maxDb float64) (LevelMapper, error) {
	if !(minDb < maxDb) {
		return LevelMapper{}, fmt.Errorf("%w: got %v,%v", ErrInvalidRange, minDb, maxDb)
	}

	return LevelMapper{Min: minDb, Max: maxDb}, nil
}

// Map returns the normalized level for magnitude m. Magnitudes at or below
// the floor (including zero) map to exactly 0.
func (lm LevelMapper) Map(m float64) float64 {
	if !(m > 0) {
		return 0
	}

	db := max(20*math.Log10(m), lm.Min)

	return (db - lm.Min) / (lm.Max - lm.Min)
}

// MapAll maps every magnitude in ms.
func (lm LevelMapper) MapAll(ms []float64) []float64 {
	out := make([]float64, len(ms))
	for i, m := range ms {
		out[i] = lm.Map(m)
	}

	return out
}
