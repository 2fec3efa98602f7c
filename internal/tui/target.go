package tui

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s     string
	width int
}

// buildStyledRunes colors the target against what has been typed so far.
// Comparison ignores case because submissions are upper-cased.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		style := pendingStyle
		if i < len(inputRunes) {
			if unicode.ToUpper(inputRunes[i]) == target {
				style = correctStyle
			} else {
				style = incorrectStyle
			}
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = cursorStyle
		}
		out = append(out, styledRune{
			s:     style.Render(string(target)),
			width: runewidth.RuneWidth(target),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune, gap string) string {
	var b strings.Builder
	for i, item := range runes {
		if i > 0 {
			b.WriteString(gap)
		}
		b.WriteString(item.s)
	}
	return b.String()
}

func styledWidth(runes []styledRune, gap string) int {
	total := 0
	for _, item := range runes {
		total += item.width
	}
	if len(runes) > 1 {
		total += (len(runes) - 1) * runewidth.StringWidth(gap)
	}
	return total
}
