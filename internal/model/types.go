// Package model defines shared data structures.
package model

import "time"

// RainConfig defines animation settings.
type RainConfig struct {
	Interval    time.Duration
	Glyphs      string
	Fade        float64
	ResetChance float64
	Color       string
}

// ReactionConfig defines reaction test settings.
type ReactionConfig struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Sound    bool
}

// TypingConfig defines typing challenge settings.
type TypingConfig struct {
	Length   int
	Alphabet string
}

// Config defines settings for a full run.
type Config struct {
	Rain     RainConfig
	Reaction ReactionConfig
	Typing   TypingConfig
	History  bool
	Seed     int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since  *time.Time
	Last   int
	Window int
}

// Reaction outcomes.
const (
	OutcomeHit   = "hit"
	OutcomeEarly = "early"
)

// Typing outcomes.
const (
	OutcomeClean = "clean"
	OutcomeMiss  = "miss"
)

// ReactionRecord captures a finished reaction session.
type ReactionRecord struct {
	ID         string
	StartedAt  time.Time
	EndedAt    time.Time
	DelayMs    int64
	Outcome    string
	ReactionMs int64
}

// TypingRecord captures one submitted typing round.
type TypingRecord struct {
	ID       string
	EndedAt  time.Time
	Target   string
	Typed    string
	Outcome  string
	Score    int
	Distance int
}
