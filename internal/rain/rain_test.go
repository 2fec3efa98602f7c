package rain

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/termrain/internal/generator"
)

func TestColumnsFromWidth(t *testing.T) {
	f := New(800, 600, Metrics{CellW: 14, CellH: 14}, "01", generator.NewSeeded(1))
	require.Equal(t, 57, f.Columns())
	for _, d := range f.Drops() {
		require.Equal(t, 1, d)
	}
}

func TestResizeRecomputesColumnsAndResetsDrops(t *testing.T) {
	f := New(800, 600, Metrics{CellW: 14, CellH: 14}, "01", generator.NewSeeded(1))
	for i := 0; i < 10; i++ {
		f.Tick()
	}
	require.Equal(t, 11, f.Drops()[0])

	f.Resize(1000, 300)
	require.Equal(t, 1000/14, f.Columns())
	require.Equal(t, 300/14, f.Rows())
	for _, d := range f.Drops() {
		require.Equal(t, 1, d)
	}
}

func TestTickAdvancesEveryDrop(t *testing.T) {
	f := New(10, 20, Metrics{CellW: 1, CellH: 1}, "01", generator.NewSeeded(2))
	f.Tick()
	for _, d := range f.Drops() {
		require.Equal(t, 2, d)
	}
	for c := 0; c < f.Columns(); c++ {
		cell := f.Cell(0, c)
		require.Equal(t, 1.0, cell.Level)
		require.Contains(t, "01", string(cell.Glyph))
	}
}

func TestNoResetBeforeOverflow(t *testing.T) {
	f := New(4, 5, Metrics{CellW: 1, CellH: 1}, "01", generator.NewSeeded(3), WithResetChance(1))
	for i := 0; i < 5; i++ {
		f.Tick()
	}
	// drop 5 * 1 is not > 5 yet
	require.Equal(t, []int{6, 6, 6, 6}, f.Drops())

	f.Tick()
	require.Equal(t, []int{1, 1, 1, 1}, f.Drops())
}

func TestNeverResetsWithZeroChance(t *testing.T) {
	f := New(3, 2, Metrics{CellW: 1, CellH: 1}, "01", generator.NewSeeded(4), WithResetChance(0))
	for i := 0; i < 50; i++ {
		f.Tick()
	}
	require.Equal(t, []int{51, 51, 51}, f.Drops())
}

func TestCellsFadeOut(t *testing.T) {
	f := New(1, 1, Metrics{CellW: 1, CellH: 1}, "1", generator.NewSeeded(5), WithResetChance(0), WithFade(0.5))
	f.Tick()
	require.Equal(t, 1.0, f.Cell(0, 0).Level)
	f.Tick()
	require.InDelta(t, 0.5, f.Cell(0, 0).Level, 1e-9)
	for i := 0; i < 10; i++ {
		f.Tick()
	}
	require.Equal(t, Cell{}, f.Cell(0, 0))
}

func TestTerminalMetricsUsesWidestGlyph(t *testing.T) {
	require.Equal(t, Metrics{CellW: 1, CellH: 1}, TerminalMetrics("01"))
	require.Equal(t, Metrics{CellW: 2, CellH: 1}, TerminalMetrics("01日"))
}

func TestRenderPadsLinesToWidth(t *testing.T) {
	f := New(7, 3, Metrics{CellW: 2, CellH: 1}, "01", generator.NewSeeded(6))
	f.Tick()
	lines := Render(f, NewPalette(DefaultColor))
	require.Len(t, lines, 3)
	for _, line := range lines {
		require.Equal(t, 7, ansi.StringWidth(line))
	}
	require.Equal(t, 3, strings.Count(ansi.Strip(lines[0]), "0")+strings.Count(ansi.Strip(lines[0]), "1"))
}

func TestPaletteBuckets(t *testing.T) {
	p := NewPalette("not-a-color")
	require.Equal(t, 0, p.bucket(0.01))
	require.Equal(t, paletteSteps-1, p.bucket(1))
	require.Equal(t, paletteSteps/2-1, p.bucket(0.5))
}
