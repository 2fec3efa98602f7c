// Package tui provides the Bubble Tea host for the rain and both games.
package tui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/verte-zerg/termrain/internal/generator"
	"github.com/verte-zerg/termrain/internal/model"
	"github.com/verte-zerg/termrain/internal/rain"
	"github.com/verte-zerg/termrain/internal/reaction"
	"github.com/verte-zerg/termrain/internal/typing"
)

const (
	focusReaction = iota
	focusTyping
)

const inputSlack = 8

// Recorder appends finished games to the history log.
type Recorder interface {
	InsertReaction(ctx context.Context, rec model.ReactionRecord) error
	InsertTyping(ctx context.Context, rec model.TypingRecord) error
}

// Cue is played when the reaction panel turns to go.
type Cue interface {
	PlayGo()
}

// Options wires optional collaborators into the model.
type Options struct {
	// Recorder is nil when history is disabled.
	Recorder Recorder
	Cue      Cue
	Clock    reaction.Clock
	Gen      *generator.Generator
	// RainOnly hides both games.
	RainOnly bool
}

type tickMsg time.Time

type armedMsg struct {
	token string
}

// Model implements the Bubble Tea host UI.
type Model struct {
	cfg      model.Config
	rainOnly bool

	field   *rain.Field
	palette rain.Palette

	reaction *reaction.Tester
	typing   *typing.Challenge
	input    textinput.Model

	recorder Recorder
	cue      Cue

	keys  keyMap
	help  help.Model
	zones *zone.Manager
	focus int

	width  int
	height int
	notice string
}

// NewModel constructs the host model.
func NewModel(cfg model.Config, opts Options) *Model {
	gen := opts.Gen
	if gen == nil {
		gen = generator.New()
	}
	glyphs := cfg.Rain.Glyphs
	if glyphs == "" {
		glyphs = rain.DefaultGlyphs
	}

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "type the code"
	// Submissions are trimmed, so surrounding spaces must not cost target characters.
	input.CharLimit = cfg.Typing.Length + inputSlack
	input.Width = cfg.Typing.Length + 1

	// Each widget draws from its own fork so rain ticks never shift game rounds.
	rainGen, reactionGen, typingGen := gen.Fork(), gen.Fork(), gen.Fork()

	return &Model{
		cfg:      cfg,
		rainOnly: opts.RainOnly,
		field: rain.New(0, 0, rain.TerminalMetrics(glyphs), glyphs, rainGen,
			rain.WithFade(cfg.Rain.Fade), rain.WithResetChance(cfg.Rain.ResetChance)),
		palette:  rain.NewPalette(cfg.Rain.Color),
		reaction: reaction.New(opts.Clock, reactionGen, cfg.Reaction.MinDelay, cfg.Reaction.MaxDelay),
		typing:   typing.New(typingGen, cfg.Typing.Length, cfg.Typing.Alphabet),
		input:    input,
		recorder: opts.Recorder,
		cue:      opts.Cue,
		keys:     newKeyMap(),
		help:     help.New(),
		zones:    zone.New(),
		focus:    focusReaction,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Rain.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func armCmd(p reaction.Pending) tea.Cmd {
	return tea.Tick(p.Delay, func(time.Time) tea.Msg {
		return armedMsg{token: p.Token}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.field.Resize(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.field.Tick()
		return m, m.tick()
	case armedMsg:
		if m.reaction.Fire(msg.token) && m.cue != nil {
			m.cue.PlayGo()
		}
		return m, nil
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.rainOnly {
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Focus):
		return m, m.toggleFocus()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.focus == focusReaction {
		switch {
		case key.Matches(msg, m.keys.ReactionStart):
			return m, m.startReaction()
		case key.Matches(msg, m.keys.ReactionClick):
			m.clickReaction()
		case key.Matches(msg, m.keys.ReactionReset):
			m.reaction.Reset()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.TypingStart):
		return m, m.startTyping()
	case key.Matches(msg, m.keys.TypingSubmit):
		m.submitTyping()
		return m, nil
	case key.Matches(msg, m.keys.TypingReset):
		m.resetTyping()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.rainOnly || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	switch {
	case m.zones.Get(zoneReactionPanel).InBounds(msg):
		m.setFocus(focusReaction)
		m.clickReaction()
	case m.zones.Get(zoneReactionStart).InBounds(msg):
		m.setFocus(focusReaction)
		return m, m.startReaction()
	case m.zones.Get(zoneReactionReset).InBounds(msg):
		m.setFocus(focusReaction)
		m.reaction.Reset()
	case m.zones.Get(zoneTypingStart).InBounds(msg):
		return m, m.startTyping()
	case m.zones.Get(zoneTypingReset).InBounds(msg):
		m.resetTyping()
		return m, m.setFocus(focusTyping)
	case m.zones.Get(zoneTypingPanel).InBounds(msg):
		return m, m.setFocus(focusTyping)
	}
	return m, nil
}

func (m *Model) toggleFocus() tea.Cmd {
	if m.focus == focusReaction {
		return m.setFocus(focusTyping)
	}
	return m.setFocus(focusReaction)
}

func (m *Model) setFocus(focus int) tea.Cmd {
	m.focus = focus
	if focus == focusTyping {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *Model) startReaction() tea.Cmd {
	p, ok := m.reaction.Start()
	if !ok {
		return nil
	}
	return armCmd(p)
}

func (m *Model) clickReaction() {
	out, ok := m.reaction.Click()
	if !ok || m.recorder == nil {
		return
	}
	m.record(func(ctx context.Context) error {
		return m.recorder.InsertReaction(ctx, out.Record)
	})
}

func (m *Model) startTyping() tea.Cmd {
	m.typing.Start()
	m.input.Reset()
	return m.setFocus(focusTyping)
}

func (m *Model) submitTyping() {
	res, ok := m.typing.Submit(m.input.Value())
	if !ok {
		return
	}
	m.input.Reset()
	if m.recorder == nil {
		return
	}
	m.record(func(ctx context.Context) error {
		return m.recorder.InsertTyping(ctx, res.Record)
	})
}

func (m *Model) resetTyping() {
	m.typing.Reset()
	m.input.Reset()
}

func (m *Model) record(insert func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := insert(ctx); err != nil {
		m.notice = fmt.Sprintf("history not saved: %v", err)
		log.Printf("failed to save history: %v", err)
		return
	}
	m.notice = ""
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lines := rain.Render(m.field, m.palette)
	if m.rainOnly {
		return strings.Join(lines, "\n")
	}
	block := m.renderGames()
	x := (m.width - lipgloss.Width(block)) / 2
	y := (m.height - lipgloss.Height(block)) / 2
	lines = overlay(lines, block, x, y, m.width)
	return m.zones.Scan(strings.Join(lines, "\n"))
}

// Close releases the zone manager.
func (m *Model) Close() {
	m.zones.Close()
}
