package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
)

// Terminal control sequences written around the render loop.
var (
	ClearScreen = CursorHome + termenv.CSI + fmt.Sprintf(termenv.EraseDisplaySeq, 2)
	HideCursor  = termenv.CSI + termenv.HideCursorSeq
	ShowCursor  = termenv.CSI + termenv.ShowCursorSeq
	ResetStyle  = termenv.CSI + termenv.ResetSeq + "m"
)

// Console prepares the terminal for drawing and puts it back afterwards.
type Console struct {
	w      io.Writer
	colour string

	restoreOnce sync.Once
	restoreErr  error
}

// NewConsole returns a Console writing to w. colour is an escape prefix
// applied once at setup; empty leaves the terminal's own colours.
func NewConsole(w io.Writer, colour string) *Console {
	return &Console{w: w, colour: colour} //nolint:exhaustruct // once fields zero
}

// Setup clears the screen, hides the cursor and sets the bar colour.
func (c *Console) Setup() error {
	seq := ClearScreen + HideCursor + c.colour
	if _, err := io.WriteString(c.w, seq); err != nil {
		return fmt.Errorf("failed to prepare terminal: %w", err)
	}

	return nil
}

// Restore shows the cursor and resets the colour, in that order. Only the
// first call writes; later calls return the first result.
func (c *Console) Restore() error {
	c.restoreOnce.Do(func() {
		if _, err := io.WriteString(c.w, ShowCursor+ResetStyle+"\n"); err != nil {
			c.restoreErr = fmt.Errorf("failed to restore terminal: %w", err)
		}
	})

	return c.restoreErr
}

// ColourPrefix returns the foreground escape prefix for a 256-colour
// palette code.
func ColourPrefix(code int) string {
	return termenv.CSI + termenv.ANSI256Color(code).Sequence(false) + "m"
}
