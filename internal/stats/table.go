package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/termrain/internal/model"
)

// Table is a header row plus body rows with right-aligned column indexes.
type Table struct {
	Headers    []string
	Rows       [][]string
	RightAlign map[int]bool
}

// ReactionTable lists the most recent sessions, newest first. Early clicks
// have no reaction time and show "-".
func ReactionTable(recs []model.ReactionRecord, limit int) Table {
	t := Table{
		Headers:    []string{"When", "Delay (ms)", "Outcome", "Reaction (ms)"},
		RightAlign: map[int]bool{1: true, 3: true},
	}
	for _, r := range newestFirst(recs, limit) {
		reaction := "-"
		if r.Outcome == model.OutcomeHit {
			reaction = fmt.Sprintf("%d", r.ReactionMs)
		}
		t.Rows = append(t.Rows, []string{
			r.EndedAt.Local().Format(timeFormat),
			fmt.Sprintf("%d", r.DelayMs),
			r.Outcome,
			reaction,
		})
	}
	return t
}

// TypingTable lists the most recent rounds, newest first.
func TypingTable(recs []model.TypingRecord, limit int) Table {
	t := Table{
		Headers:    []string{"When", "Target", "Typed", "Outcome", "Score", "Distance"},
		RightAlign: map[int]bool{4: true, 5: true},
	}
	for _, r := range newestFirst(recs, limit) {
		t.Rows = append(t.Rows, []string{
			r.EndedAt.Local().Format(timeFormat),
			r.Target,
			r.Typed,
			r.Outcome,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Distance),
		})
	}
	return t
}

func newestFirst[T any](items []T, limit int) []T {
	n := len(items)
	if limit > 0 && n > limit {
		n = limit
	}
	out := make([]T, 0, n)
	for i := len(items) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, items[i])
	}
	return out
}

// Lines formats the header and rows with every column padded to its widest
// cell. Widths are terminal cells, not bytes.
func (t Table) Lines() []string {
	widths := t.widths()
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(t.Rows)+1)
	if len(t.Headers) > 0 {
		lines = append(lines, t.formatRow(t.Headers, widths))
	}
	for _, row := range t.Rows {
		lines = append(lines, t.formatRow(row, widths))
	}
	return lines
}

func (t Table) widths() []int {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	for i, header := range t.Headers {
		widths[i] = runewidth.StringWidth(header)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func (t Table) formatRow(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = t.padCell(cell, width, i)
	}
	return strings.Join(cells, " ")
}

func (t Table) padCell(value string, width, col int) string {
	pad := width - runewidth.StringWidth(value)
	if pad <= 0 {
		return value
	}
	if t.RightAlign[col] {
		return strings.Repeat(" ", pad) + value
	}
	return value + strings.Repeat(" ", pad)
}

func printTable(w io.Writer, t Table) error {
	if len(t.Rows) == 0 {
		return nil
	}
	for _, line := range t.Lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
