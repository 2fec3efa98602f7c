package stats

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	terminalWidthBackup = 80
	recentRows          = 10
	timeFormat          = "2006-01-02 15:04:05"
)

// TerminalWidth returns the stdout terminal width or a fallback.
func TerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// RenderReport prints the plain-text report. width bounds the trend line.
func RenderReport(w io.Writer, r Report, width int) error {
	if err := RenderReactionSummary(w, r.Reaction, width); err != nil {
		return err
	}
	if err := printTable(w, ReactionTable(r.Reactions, recentRows)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	if err := RenderTypingSummary(w, r.Rounds); err != nil {
		return err
	}
	return printTable(w, TypingTable(r.Typing, recentRows))
}

// RenderReactionSummary prints reaction totals and the trend sparkline.
func RenderReactionSummary(w io.Writer, s ReactionSummary, width int) error {
	if _, err := fmt.Fprintln(w, "Reaction"); err != nil {
		return err
	}
	if s.Sessions == 0 {
		_, err := fmt.Fprintln(w, "No reaction sessions found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d (hits %d, early %d)\n", s.Sessions, s.Hits, s.Early); err != nil {
		return err
	}
	if s.Hits == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Best: %d ms  Avg: %.1f ms  Median: %.1f ms\n", s.BestMs, s.AvgMs, s.MedianMs); err != nil {
		return err
	}
	trend := s.Trend
	if limit := width - len("Trend: "); limit > 0 && len(trend) > limit {
		trend = trend[len(trend)-limit:]
	}
	_, err := fmt.Fprintf(w, "Trend: %s\n", Sparkline(trend))
	return err
}

// RenderTypingSummary prints typing totals.
func RenderTypingSummary(w io.Writer, s TypingSummary) error {
	if _, err := fmt.Fprintln(w, "Typing"); err != nil {
		return err
	}
	if s.Rounds == 0 {
		_, err := fmt.Fprintln(w, "No typing rounds found.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Rounds: %d (clean %d, miss %d)  Accuracy: %.2f%%\n", s.Rounds, s.Clean, s.Misses, s.Accuracy*100); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Longest streak: %d  Avg miss distance: %.1f\n", s.LongestStreak, s.AvgMissDistance)
	return err
}
