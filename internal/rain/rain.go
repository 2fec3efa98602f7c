// Package rain implements the falling-glyph background animation.
package rain

import (
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/termrain/internal/generator"
)

const (
	// DefaultGlyphs is the glyph set drawn by the animation.
	DefaultGlyphs = "01"
	// DefaultFade is the share of brightness removed from every cell per tick.
	DefaultFade = 0.05
	// DefaultResetChance is the per-tick chance an overflowed column restarts at the top.
	DefaultResetChance = 0.025

	// Cells dimmer than this are erased.
	minLevel = 0.03
)

// Metrics is the size of one glyph box in the units of the field.
type Metrics struct {
	CellW int
	CellH int
}

// TerminalMetrics sizes a glyph box for a terminal grid: one row high and as
// wide as the widest glyph.
func TerminalMetrics(glyphs string) Metrics {
	w := 1
	for _, r := range glyphs {
		if rw := runewidth.RuneWidth(r); rw > w {
			w = rw
		}
	}
	return Metrics{CellW: w, CellH: 1}
}

// Cell is one painted glyph and its remaining brightness in (0, 1].
type Cell struct {
	Glyph rune
	Level float64
}

// Field holds one drop per column and the painted cells.
type Field struct {
	width   int
	height  int
	metrics Metrics
	glyphs  []rune

	fade        float64
	resetChance float64
	gen         *generator.Generator

	drops []int
	cells [][]Cell
}

// Option customizes a Field.
type Option func(*Field)

// WithFade sets the per-tick brightness loss.
func WithFade(fade float64) Option {
	return func(f *Field) { f.fade = fade }
}

// WithResetChance sets the chance an overflowed column restarts.
func WithResetChance(p float64) Option {
	return func(f *Field) { f.resetChance = p }
}

// New builds a field of the given size. Metrics with non-positive sides are
// treated as 1.
func New(width, height int, m Metrics, glyphs string, gen *generator.Generator, opts ...Option) *Field {
	if m.CellW < 1 {
		m.CellW = 1
	}
	if m.CellH < 1 {
		m.CellH = 1
	}
	if glyphs == "" {
		glyphs = DefaultGlyphs
	}
	f := &Field{
		metrics:     m,
		glyphs:      []rune(glyphs),
		fade:        DefaultFade,
		resetChance: DefaultResetChance,
		gen:         gen,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.Resize(width, height)
	return f
}

// Resize recomputes the column count from the new width and restarts every
// drop. Painted cells are dropped.
func (f *Field) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	f.width = width
	f.height = height
	cols := width / f.metrics.CellW
	rows := height / f.metrics.CellH

	f.drops = make([]int, cols)
	for i := range f.drops {
		f.drops[i] = 1
	}
	f.cells = make([][]Cell, rows)
	for r := range f.cells {
		f.cells[r] = make([]Cell, cols)
	}
}

// Tick advances the animation by one frame.
func (f *Field) Tick() {
	f.fadeCells()
	rows := len(f.cells)
	for i, drop := range f.drops {
		row := drop - 1
		if row >= 0 && row < rows {
			f.cells[row][i] = Cell{Glyph: f.gen.Glyph(f.glyphs), Level: 1}
		}
		if drop*f.metrics.CellH > f.height && f.gen.Chance(f.resetChance) {
			f.drops[i] = 0
		}
		f.drops[i]++
	}
}

func (f *Field) fadeCells() {
	keep := 1 - f.fade
	for r := range f.cells {
		row := f.cells[r]
		for c := range row {
			if row[c].Level == 0 {
				continue
			}
			row[c].Level *= keep
			if row[c].Level < minLevel {
				row[c] = Cell{}
			}
		}
	}
}

// Columns returns the number of drop columns.
func (f *Field) Columns() int {
	return len(f.drops)
}

// Rows returns the number of glyph rows.
func (f *Field) Rows() int {
	return len(f.cells)
}

// Drops returns a copy of the per-column drop rows.
func (f *Field) Drops() []int {
	out := make([]int, len(f.drops))
	copy(out, f.drops)
	return out
}

// Cell returns the painted cell at row, col.
func (f *Field) Cell(row, col int) Cell {
	if row < 0 || row >= len(f.cells) || col < 0 || col >= len(f.drops) {
		return Cell{}
	}
	return f.cells[row][col]
}
