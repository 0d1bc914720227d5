package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// DefaultGlyph fills occupied cells when no glyph is configured.
const DefaultGlyph = "┃"

// CursorHome moves the cursor to the top-left cell without clearing.
var CursorHome = termenv.CSI + fmt.Sprintf(termenv.CursorPositionSeq, 1, 1)

// Grid renders bar heights as a block of text, top row first.
type Grid struct {
	Glyph string
}

// NewGrid returns a Grid using glyph, or DefaultGlyph when glyph is empty.
func NewGrid(glyph string) Grid {
	if glyph == "" {
		glyph = DefaultGlyph
	}

	return Grid{Glyph: glyph}
}

// Frame lays out heights on a width x height grid. Row index height-1 is
// printed first and row 0 last. A column of height h occupies rows 0..h-1,
// so height 0 is blank and heights beyond the grid are clipped. Columns
// past len(heights) are blank. The frame starts with CursorHome and has no
// trailing newline.
func (g Grid) Frame(heights []int, width, height int) []byte {
	width = max(width, 0)
	height = max(height, 0)

	var sb strings.Builder
	sb.Grow(len(CursorHome) + height*(width*len(g.Glyph)+1))
	sb.WriteString(CursorHome)

	for row := height - 1; row >= 0; row-- {
		for col := range width {
			if col < len(heights) && heights[col] > row {
				sb.WriteString(g.Glyph)
			} else {
				sb.WriteByte(' ')
			}
		}

		if row > 0 {
			sb.WriteByte('\n')
		}
	}

	return []byte(sb.String())
}

// Write renders the frame and hands it to w in a single Write call.
func (g Grid) Write(w io.Writer, heights []int, width, height int) error {
	if _, err := w.Write(g.Frame(heights, width, height)); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}
