package render

import (
	"errors"
	"fmt"

	"golang.org/x/term"
)

// ErrNoTerminal is returned when the output is not attached to a terminal
// whose size can be read.
var ErrNoTerminal = errors.New("terminal size unavailable")

// Size is a grid size in character cells.
type Size struct {
	Width  int
	Height int
}

// DimensionProvider supplies the grid size for the next frame.
type DimensionProvider interface {
	Dimensions() (Size, error)
}

// Fixed always reports the same size.
type Fixed Size

// Dimensions implements DimensionProvider.
func (f Fixed) Dimensions() (Size, error) {
	return Size{Width: max(f.Width, 0), Height: max(f.Height, 0)}, nil
}

// Terminal reports the live size of the terminal attached to Fd.
type Terminal struct {
	Fd int
}

// Dimensions implements DimensionProvider. It queries the terminal on
// every call so resizes are picked up on the next frame.
func (t Terminal) Dimensions() (Size, error) {
	w, h, err := term.GetSize(t.Fd)
	if err != nil {
		return Size{}, fmt.Errorf("%w: %w", ErrNoTerminal, err)
	}

	return Size{Width: w, Height: h}, nil
}

// NewDimensionProvider returns Fixed when fixed is set, otherwise a
// Terminal provider for fd.
func NewDimensionProvider(fixed *Size, fd int) DimensionProvider {
	if fixed != nil {
		return Fixed(*fixed)
	}

	return Terminal{Fd: fd}
}
