// Package generator provides the random draws used by the rain and both games.
package generator

import (
	"math/rand"
	"strings"
	"time"
)

// Generator produces randomized glyphs, target strings and delays.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// String draws n symbols uniformly, with replacement, from alphabet.
func (g *Generator) String(n int, alphabet string) string {
	symbols := []rune(alphabet)
	if n <= 0 || len(symbols) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteRune(symbols[g.rnd.Intn(len(symbols))])
	}
	return b.String()
}

// Glyph picks one rune from glyphs.
func (g *Generator) Glyph(glyphs []rune) rune {
	if len(glyphs) == 0 {
		return ' '
	}
	return glyphs[g.rnd.Intn(len(glyphs))]
}

// Between returns a duration uniformly sampled from [lo, hi).
func (g *Generator) Between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(g.rnd.Int63n(int64(hi-lo)))
}

// Chance reports true with probability p.
func (g *Generator) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return g.rnd.Float64() < p
}

// Fork returns an independent Generator seeded from g. Draws on the fork do
// not advance g, and a seeded g always yields the same sequence of forks.
func (g *Generator) Fork() *Generator {
	return NewSeeded(g.rnd.Int63())
}
