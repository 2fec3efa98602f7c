package tui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// overlay paints block over base with its top-left corner at column x, row y.
// Lines of base are assumed to be exactly width cells wide; block lines that
// would run past the right edge are cut.
func overlay(base []string, block string, x, y, width int) []string {
	out := make([]string, len(base))
	copy(out, base)
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	blockLines := strings.Split(block, "\n")
	blockWidth := 0
	for _, line := range blockLines {
		if w := ansi.StringWidth(line); w > blockWidth {
			blockWidth = w
		}
	}
	if x+blockWidth > width {
		blockWidth = width - x
	}
	if blockWidth <= 0 {
		return out
	}
	for i, line := range blockLines {
		row := y + i
		if row >= len(out) {
			break
		}
		line = ansi.Truncate(line, blockWidth, "")
		if pad := blockWidth - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		left := ansi.Truncate(out[row], x, "")
		right := ansi.TruncateLeft(out[row], x+blockWidth, "")
		out[row] = left + ansi.ResetStyle + line + ansi.ResetStyle + right
	}
	return out
}
