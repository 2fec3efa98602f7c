package rain

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// DefaultColor is the color of a freshly drawn glyph.
const DefaultColor = "#00ff9c"

const paletteSteps = 8

// Palette maps cell brightness onto a ramp from black to the head color.
type Palette struct {
	styles []lipgloss.Style
}

// NewPalette builds a ramp ending at head. An unparsable color falls back to DefaultColor.
func NewPalette(head string) Palette {
	base, err := colorful.Hex(head)
	if err != nil {
		base, _ = colorful.Hex(DefaultColor)
	}
	black := colorful.Color{}
	styles := make([]lipgloss.Style, paletteSteps)
	for i := range styles {
		t := float64(i+1) / paletteSteps
		c := black.BlendRgb(base, t).Clamped()
		styles[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
	}
	return Palette{styles: styles}
}

func (p Palette) bucket(level float64) int {
	idx := int(math.Ceil(level*paletteSteps)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.styles) {
		idx = len(p.styles) - 1
	}
	return idx
}

// Render draws the field as one line per row, each padded to the field width.
func Render(f *Field, p Palette) []string {
	lines := make([]string, 0, f.Rows())
	var line, run strings.Builder
	for r := 0; r < f.Rows(); r++ {
		line.Reset()
		run.Reset()
		current := -1
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if current < 0 {
				line.WriteString(run.String())
			} else {
				line.WriteString(p.styles[current].Render(run.String()))
			}
			run.Reset()
		}
		for c := 0; c < f.Columns(); c++ {
			cell := f.Cell(r, c)
			b := -1
			if cell.Level > 0 {
				b = p.bucket(cell.Level)
			}
			if b != current {
				flush()
				current = b
			}
			if b < 0 {
				run.WriteString(strings.Repeat(" ", f.metrics.CellW))
				continue
			}
			run.WriteRune(cell.Glyph)
			if pad := f.metrics.CellW - runewidth.RuneWidth(cell.Glyph); pad > 0 {
				run.WriteString(strings.Repeat(" ", pad))
			}
		}
		flush()
		if rest := f.width - f.Columns()*f.metrics.CellW; rest > 0 {
			line.WriteString(strings.Repeat(" ", rest))
		}
		lines = append(lines, line.String())
	}
	return lines
}
