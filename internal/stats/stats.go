// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/termrain/internal/model"
)

const sparkChars = " .:-=+*#%@"

// ReactionSummary aggregates reaction sessions.
type ReactionSummary struct {
	Sessions int
	Hits     int
	Early    int
	BestMs   int64
	AvgMs    float64
	MedianMs float64
	Trend    []float64
}

// TypingSummary aggregates typing rounds.
type TypingSummary struct {
	Rounds          int
	Clean           int
	Misses          int
	Accuracy        float64
	LongestStreak   int
	AvgMissDistance float64
}

// SummarizeReactions computes reaction metrics. Early clicks count as sessions
// but not toward timing; Trend is the moving average of hit times.
func SummarizeReactions(recs []model.ReactionRecord, window int) ReactionSummary {
	sum := ReactionSummary{Sessions: len(recs)}
	hits := make([]float64, 0, len(recs))
	for _, r := range recs {
		if r.Outcome != model.OutcomeHit {
			sum.Early++
			continue
		}
		hits = append(hits, float64(r.ReactionMs))
		if sum.Hits == 0 || r.ReactionMs < sum.BestMs {
			sum.BestMs = r.ReactionMs
		}
		sum.Hits++
	}
	if len(hits) == 0 {
		return sum
	}
	var total float64
	for _, h := range hits {
		total += h
	}
	sum.AvgMs = total / float64(len(hits))
	sum.MedianMs = median(hits)
	sum.Trend = MovingAverage(hits, window)
	return sum
}

// SummarizeTyping computes typing metrics.
func SummarizeTyping(recs []model.TypingRecord) TypingSummary {
	sum := TypingSummary{Rounds: len(recs)}
	distance := 0
	for _, r := range recs {
		if r.Outcome == model.OutcomeClean {
			sum.Clean++
		} else {
			sum.Misses++
			distance += r.Distance
		}
		if r.Score > sum.LongestStreak {
			sum.LongestStreak = r.Score
		}
	}
	if sum.Rounds > 0 {
		sum.Accuracy = float64(sum.Clean) / float64(sum.Rounds)
	}
	if sum.Misses > 0 {
		sum.AvgMissDistance = float64(distance) / float64(sum.Misses)
	}
	return sum
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
