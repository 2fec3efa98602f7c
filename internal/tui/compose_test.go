package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func stripAll(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ansi.Strip(line)
	}
	return out
}

func TestOverlayPlacesBlock(t *testing.T) {
	base := []string{"..........", "..........", ".........."}
	out := overlay(base, "AB\nC", 3, 1, 10)
	require.Equal(t, []string{"..........", "...AB.....", "...C ....."}, stripAll(out))
	require.Equal(t, "..........", base[1], "overlay must not modify base")
}

func TestOverlayClipsAtEdges(t *testing.T) {
	base := []string{"......", "......"}
	out := overlay(base, "XYZW\nXYZW\nXYZW", 4, 1, 6)
	require.Len(t, out, 2)
	require.Equal(t, "....XY", ansi.Strip(out[1]))
}

func TestOverlayKeepsWidth(t *testing.T) {
	base := []string{strings.Repeat("\x1b[32m1\x1b[0m", 8)}
	out := overlay(base, "ab", 2, 0, 8)
	require.Equal(t, 8, ansi.StringWidth(out[0]))
	require.Equal(t, "11ab1111", ansi.Strip(out[0]))
}
