// Package typing implements the typing challenge: copy a random code, keep a streak.
package typing

import (
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/verte-zerg/termrain/internal/generator"
	"github.com/verte-zerg/termrain/internal/model"
)

const (
	// DefaultLength is the number of symbols in a target.
	DefaultLength = 10
	// DefaultAlphabet is the symbol set targets are drawn from.
	DefaultAlphabet = "01ABCDEF"
	// Placeholder is displayed while no round is active.
	Placeholder = "press start"
)

// Status messages.
const (
	MsgGo    = "Go."
	MsgClean = "Clean."
	MsgMiss  = "Miss."
)

// Result describes one submitted round.
type Result struct {
	Record model.TypingRecord
	Clean  bool
}

// Challenge holds the active target and the running streak.
type Challenge struct {
	gen      *generator.Generator
	length   int
	alphabet string
	now      func() time.Time

	target  string
	score   int
	best    int
	message string
}

// New returns a challenge with no active round.
func New(gen *generator.Generator, length int, alphabet string) *Challenge {
	if length <= 0 {
		length = DefaultLength
	}
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	return &Challenge{
		gen:      gen,
		length:   length,
		alphabet: alphabet,
		now:      time.Now,
	}
}

// Start begins a round. Starting from an inactive challenge zeroes the score;
// starting while a round is active only draws a new target.
func (c *Challenge) Start() {
	if c.target == "" {
		c.score = 0
		c.message = MsgGo
	}
	c.nextRound()
}

// Submit checks input against the active target and opens the next round.
// It reports false when no round is active.
func (c *Challenge) Submit(input string) (Result, bool) {
	if c.target == "" {
		return Result{}, false
	}
	typed := Normalize(input)
	rec := model.TypingRecord{
		ID:      uuid.NewString(),
		EndedAt: c.now(),
		Target:  c.target,
		Typed:   typed,
	}
	clean := typed == c.target
	if clean {
		c.score++
		c.best = max(c.best, c.score)
		c.message = MsgClean
		rec.Outcome = model.OutcomeClean
	} else {
		c.best = max(c.best, c.score)
		c.score = 0
		rec.Distance = levenshtein.ComputeDistance(typed, c.target)
		c.message = fmt.Sprintf("%s %d off.", MsgMiss, rec.Distance)
		rec.Outcome = model.OutcomeMiss
	}
	rec.Score = c.score
	c.nextRound()
	return Result{Record: rec, Clean: clean}, true
}

// Reset clears the score and the active round. Best is kept for the run.
func (c *Challenge) Reset() {
	c.score = 0
	c.target = ""
	c.message = ""
}

func (c *Challenge) nextRound() {
	c.target = c.gen.String(c.length, c.alphabet)
}

// Normalize trims surrounding space and upper-cases input.
func Normalize(input string) string {
	return strings.ToUpper(strings.TrimSpace(input))
}

// Active reports whether a round is waiting for input.
func (c *Challenge) Active() bool { return c.target != "" }

// Target returns the active target, empty when inactive.
func (c *Challenge) Target() string { return c.target }

// Display returns the target or the placeholder.
func (c *Challenge) Display() string {
	if c.target == "" {
		return Placeholder
	}
	return c.target
}

// Length returns the target length.
func (c *Challenge) Length() int { return c.length }

// Score returns the current streak.
func (c *Challenge) Score() int { return c.score }

// Best returns the longest streak of the run.
func (c *Challenge) Best() int { return c.best }

// Status renders the score line.
func (c *Challenge) Status() string {
	s := fmt.Sprintf("Score: %d • Best: %d", c.score, c.best)
	if c.message != "" {
		s += " • " + c.message
	}
	return s
}
