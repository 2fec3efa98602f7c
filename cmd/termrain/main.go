// Package main provides the CLI entrypoint for termrain.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/termrain/internal/audio"
	"github.com/verte-zerg/termrain/internal/config"
	"github.com/verte-zerg/termrain/internal/generator"
	"github.com/verte-zerg/termrain/internal/model"
	"github.com/verte-zerg/termrain/internal/rain"
	"github.com/verte-zerg/termrain/internal/reaction"
	"github.com/verte-zerg/termrain/internal/stats"
	"github.com/verte-zerg/termrain/internal/statsui"
	"github.com/verte-zerg/termrain/internal/store"
	"github.com/verte-zerg/termrain/internal/tui"
	"github.com/verte-zerg/termrain/internal/typing"
)

const (
	defaultIntervalMs = 33
	defaultWindow     = 5
)

var (
	pageInterval    int
	pageGlyphs      string
	pageFade        float64
	pageResetChance float64
	pageColor       string
	pageMinDelay    int
	pageMaxDelay    int
	pageSound       bool
	pageHistory     bool
	pageSeed        int64
	pageLogFile     string

	statsSince  string
	statsLast   int
	statsWindow int
	statsPlain  bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "termrain",
		Short:         "Digital rain with a reaction test and a typing challenge",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, false)
		},
	}

	addRainFlags(rootCmd)
	rootCmd.Flags().IntVar(&pageMinDelay, "min-delay", int(reaction.DefaultMinDelay/time.Millisecond), "shortest reaction delay in ms")
	rootCmd.Flags().IntVar(&pageMaxDelay, "max-delay", int(reaction.DefaultMaxDelay/time.Millisecond), "longest reaction delay in ms (exclusive)")
	rootCmd.Flags().BoolVar(&pageSound, "sound", false, "play a tone when the reaction panel turns green")
	rootCmd.Flags().BoolVar(&pageHistory, "history", true, "append finished games to the history database")

	rootCmd.AddCommand(newRainCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addRainFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&pageInterval, "interval", defaultIntervalMs, "animation frame interval in ms")
	cmd.Flags().StringVar(&pageGlyphs, "glyphs", rain.DefaultGlyphs, "glyphs drawn by the rain")
	cmd.Flags().Float64Var(&pageFade, "fade", rain.DefaultFade, "brightness lost per frame (0-1)")
	cmd.Flags().Float64Var(&pageResetChance, "reset-chance", rain.DefaultResetChance, "chance per frame that an off-screen drop restarts (0-1)")
	cmd.Flags().StringVar(&pageColor, "color", rain.DefaultColor, "head color of the rain")
	cmd.Flags().Int64Var(&pageSeed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&pageLogFile, "log-file", "", "write debug logs to this file")
}

func newRainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rain",
		Short: "Show the rain only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPage(cmd, true)
		},
	}
	addRainFlags(cmd)
	return cmd
}

func runPage(cmd *cobra.Command, rainOnly bool) error {
	cfg, err := loadPageConfig(cmd)
	if err != nil {
		return err
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	if pageLogFile != "" {
		f, err := tea.LogToFile(pageLogFile, "termrain")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()
	} else {
		log.SetOutput(io.Discard)
	}

	gen := generator.New()
	if cfg.Seed != 0 {
		gen = generator.NewSeeded(cfg.Seed)
	}
	opts := tui.Options{Gen: gen, RainOnly: rainOnly}

	if cfg.History && !rainOnly {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
		opts.Recorder = st
	}

	if cfg.Reaction.Sound && !rainOnly {
		player := audio.NewPlayer()
		if err := player.Init(); err != nil {
			logErrf("sound disabled: %v\n", err)
		} else {
			defer player.Close()
			opts.Cue = player
		}
	}

	m := tui.NewModel(cfg, opts)
	defer m.Close()
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadPageConfig resolves defaults, the config file, TERMRAIN_* env and flags,
// in that order of precedence.
func loadPageConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.ApplyEnv(&fileCfg); err != nil {
		return model.Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	applyIntConfig(cmd, "interval", &pageInterval, fileCfg.Rain.IntervalMs)
	applyStringConfig(cmd, "glyphs", &pageGlyphs, fileCfg.Rain.Glyphs)
	applyFloatConfig(cmd, "fade", &pageFade, fileCfg.Rain.Fade)
	applyFloatConfig(cmd, "reset-chance", &pageResetChance, fileCfg.Rain.ResetChance)
	applyStringConfig(cmd, "color", &pageColor, fileCfg.Rain.Color)
	applyIntConfig(cmd, "min-delay", &pageMinDelay, fileCfg.Reaction.MinDelayMs)
	applyIntConfig(cmd, "max-delay", &pageMaxDelay, fileCfg.Reaction.MaxDelayMs)
	applyBoolConfig(cmd, "sound", &pageSound, fileCfg.Reaction.Sound)
	applyBoolConfig(cmd, "history", &pageHistory, fileCfg.History.Enabled)

	length := typing.DefaultLength
	if fileCfg.Typing.Length != nil {
		length = *fileCfg.Typing.Length
	}
	alphabet := typing.DefaultAlphabet
	if fileCfg.Typing.Alphabet != nil {
		alphabet = *fileCfg.Typing.Alphabet
	}

	return model.Config{
		Rain: model.RainConfig{
			Interval:    time.Duration(pageInterval) * time.Millisecond,
			Glyphs:      pageGlyphs,
			Fade:        pageFade,
			ResetChance: pageResetChance,
			Color:       pageColor,
		},
		Reaction: model.ReactionConfig{
			MinDelay: time.Duration(pageMinDelay) * time.Millisecond,
			MaxDelay: time.Duration(pageMaxDelay) * time.Millisecond,
			Sound:    pageSound,
		},
		Typing: model.TypingConfig{
			Length:   length,
			Alphabet: strings.ToUpper(alphabet),
		},
		History: pageHistory,
		Seed:    pageSeed,
	}, nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show game history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N records of each game")
	cmd.Flags().IntVar(&statsWindow, "window", defaultWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsSince, statsLast, statsWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if err := stats.RenderReport(cmd.OutOrStdout(), report, stats.TerminalWidth()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfig(since string, last, window int) (model.StatsConfig, error) {
	var sinceTime *time.Time
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if window < 1 {
		return model.StatsConfig{}, fmt.Errorf("--window must be >= 1")
	}
	return model.StatsConfig{Since: sinceTime, Last: last, Window: window}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# termrain configuration
# Uncomment a value to enable it. TERMRAIN_<SECTION>_<KEY> environment
# variables override the file, CLI flags override both.

[rain]
# interval-ms = %d        # Animation frame interval
# glyphs = %q           # Glyphs drawn by the rain
# fade = %.3f           # Brightness lost per frame (0-1)
# reset-chance = %.3f   # Chance an off-screen drop restarts (0-1)
# color = %q       # Head color

[reaction]
# min-delay-ms = %d      # Shortest wait before green
# max-delay-ms = %d     # Longest wait before green (exclusive)
# sound = false          # Play a tone on green

[typing]
# length = %d            # Characters per target
# alphabet = %q   # Characters targets are drawn from

[history]
# enabled = true         # Append finished games to the history database
`,
		defaultIntervalMs,
		rain.DefaultGlyphs,
		rain.DefaultFade,
		rain.DefaultResetChance,
		rain.DefaultColor,
		reaction.DefaultMinDelay/time.Millisecond,
		reaction.DefaultMaxDelay/time.Millisecond,
		typing.DefaultLength,
		typing.DefaultAlphabet,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Rain.Interval <= 0 {
		return fmt.Errorf("--interval must be > 0")
	}
	if cfg.Rain.Glyphs == "" {
		return fmt.Errorf("--glyphs must not be empty")
	}
	if cfg.Rain.Fade < 0 || cfg.Rain.Fade > 1 {
		return fmt.Errorf("--fade must be between 0 and 1")
	}
	if cfg.Rain.ResetChance < 0 || cfg.Rain.ResetChance > 1 {
		return fmt.Errorf("--reset-chance must be between 0 and 1")
	}
	if cfg.Reaction.MinDelay < 0 {
		return fmt.Errorf("--min-delay must be >= 0")
	}
	if cfg.Reaction.MinDelay >= cfg.Reaction.MaxDelay {
		return fmt.Errorf("--min-delay must be < --max-delay")
	}
	if cfg.Typing.Length <= 0 {
		return fmt.Errorf("typing length must be > 0")
	}
	if cfg.Typing.Alphabet == "" {
		return fmt.Errorf("typing alphabet must not be empty")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
