// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Rain     RainConfig     `toml:"rain"`
	Reaction ReactionConfig `toml:"reaction"`
	Typing   TypingConfig   `toml:"typing"`
	History  HistoryConfig  `toml:"history"`
}

// RainConfig maps animation settings.
type RainConfig struct {
	IntervalMs  *int     `toml:"interval-ms"`
	Glyphs      *string  `toml:"glyphs"`
	Fade        *float64 `toml:"fade"`
	ResetChance *float64 `toml:"reset-chance"`
	Color       *string  `toml:"color"`
}

// ReactionConfig maps reaction test settings.
type ReactionConfig struct {
	MinDelayMs *int  `toml:"min-delay-ms"`
	MaxDelayMs *int  `toml:"max-delay-ms"`
	Sound      *bool `toml:"sound"`
}

// TypingConfig maps typing challenge settings.
type TypingConfig struct {
	Length   *int    `toml:"length"`
	Alphabet *string `toml:"alphabet"`
}

// HistoryConfig maps history log settings.
type HistoryConfig struct {
	Enabled *bool `toml:"enabled"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
