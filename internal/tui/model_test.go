package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/termrain/internal/generator"
	"github.com/verte-zerg/termrain/internal/model"
	"github.com/verte-zerg/termrain/internal/reaction"
	"github.com/verte-zerg/termrain/internal/typing"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

type fakeRecorder struct {
	reactions []model.ReactionRecord
	rounds    []model.TypingRecord
	err       error
}

func (r *fakeRecorder) InsertReaction(_ context.Context, rec model.ReactionRecord) error {
	if r.err != nil {
		return r.err
	}
	r.reactions = append(r.reactions, rec)
	return nil
}

func (r *fakeRecorder) InsertTyping(_ context.Context, rec model.TypingRecord) error {
	if r.err != nil {
		return r.err
	}
	r.rounds = append(r.rounds, rec)
	return nil
}

type countingCue struct {
	plays int
}

func (c *countingCue) PlayGo() { c.plays++ }

func testConfig() model.Config {
	return model.Config{
		Rain: model.RainConfig{
			Interval:    33 * time.Millisecond,
			Glyphs:      "01",
			Fade:        0.05,
			ResetChance: 0.025,
			Color:       "#00ff9c",
		},
		Reaction: model.ReactionConfig{
			MinDelay: reaction.DefaultMinDelay,
			MaxDelay: reaction.DefaultMaxDelay,
		},
		Typing: model.TypingConfig{
			Length:   typing.DefaultLength,
			Alphabet: typing.DefaultAlphabet,
		},
	}
}

type harness struct {
	m     *Model
	clock *manualClock
	rec   *fakeRecorder
	cue   *countingCue
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock: &manualClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
		rec:   &fakeRecorder{},
		cue:   &countingCue{},
	}
	h.m = NewModel(testConfig(), Options{
		Recorder: h.rec,
		Cue:      h.cue,
		Clock:    h.clock,
		Gen:      generator.NewSeeded(42),
	})
	t.Cleanup(h.m.Close)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	_, cmd := h.m.Update(msg)
	return cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	ctrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
	ctrlR    = tea.KeyMsg{Type: tea.KeyCtrlR}
)

func TestReactionRoundThroughKeys(t *testing.T) {
	h := newHarness(t)

	cmd := h.send(runes("s"))
	require.NotNil(t, cmd)
	p, ok := h.m.reaction.Pending()
	require.True(t, ok)

	h.clock.now = h.clock.now.Add(p.Delay)
	h.send(armedMsg{token: p.Token})
	require.Equal(t, reaction.Go, h.m.reaction.State())
	require.Equal(t, 1, h.cue.plays)

	h.clock.now = h.clock.now.Add(250 * time.Millisecond)
	h.send(spaceKey)
	require.Equal(t, "Reaction: 250 ms", h.m.reaction.Result())
	require.Len(t, h.rec.reactions, 1)
	require.Equal(t, int64(250), h.rec.reactions[0].ReactionMs)
}

func TestStaleArmedMessageIgnored(t *testing.T) {
	h := newHarness(t)

	h.send(runes("s"))
	old, _ := h.m.reaction.Pending()
	h.send(spaceKey)
	require.Equal(t, reaction.ResultTooEarly, h.m.reaction.Result())
	require.Len(t, h.rec.reactions, 1)
	require.Equal(t, model.OutcomeEarly, h.rec.reactions[0].Outcome)

	h.send(runes("s"))
	h.send(armedMsg{token: old.Token})
	require.Equal(t, reaction.Waiting, h.m.reaction.State())
	require.Zero(t, h.cue.plays)
}

func TestReactionResetKey(t *testing.T) {
	h := newHarness(t)
	h.send(runes("s"))
	p, _ := h.m.reaction.Pending()
	h.send(runes("r"))
	require.Equal(t, reaction.Idle, h.m.reaction.State())
	require.Equal(t, reaction.ResultPlaceholder, h.m.reaction.Result())
	h.send(armedMsg{token: p.Token})
	require.Equal(t, reaction.Idle, h.m.reaction.State())
	require.Empty(t, h.rec.reactions)
}

func TestTypingRoundThroughKeys(t *testing.T) {
	h := newHarness(t)

	h.send(tabKey)
	require.Equal(t, focusTyping, h.m.focus)

	h.send(enterKey)
	require.Empty(t, h.rec.rounds)

	h.send(ctrlS)
	target := h.m.typing.Target()
	require.Len(t, target, typing.DefaultLength)

	h.send(runes(strings.ToLower(target)))
	require.Equal(t, strings.ToLower(target), h.m.input.Value())
	h.send(enterKey)

	require.Equal(t, 1, h.m.typing.Score())
	require.Empty(t, h.m.input.Value())
	require.Len(t, h.rec.rounds, 1)
	require.Equal(t, model.OutcomeClean, h.rec.rounds[0].Outcome)
	require.Equal(t, target, h.rec.rounds[0].Target)

	h.send(runes("0"))
	h.send(enterKey)
	require.Equal(t, 0, h.m.typing.Score())
	require.Equal(t, 1, h.m.typing.Best())

	h.send(ctrlR)
	require.False(t, h.m.typing.Active())
}

func TestTypingFocusSendsLettersToInput(t *testing.T) {
	h := newHarness(t)
	h.send(tabKey)
	h.send(ctrlS)
	h.send(runes("s"))
	require.Equal(t, reaction.Idle, h.m.reaction.State())
	require.Equal(t, "s", h.m.input.Value())
}

func TestRecorderErrorShowsNotice(t *testing.T) {
	h := newHarness(t)
	h.rec.err = errors.New("disk full")
	h.send(runes("s"))
	h.send(spaceKey)
	require.Contains(t, h.m.notice, "disk full")
	require.Contains(t, h.m.View(), "history not saved")
}

func TestNoRecorderWhenHistoryDisabled(t *testing.T) {
	m := NewModel(testConfig(), Options{Gen: generator.NewSeeded(1)})
	t.Cleanup(m.Close)
	m.Update(runes("s"))
	m.Update(spaceKey)
	require.Equal(t, reaction.ResultTooEarly, m.reaction.Result())
}

func TestResizeRecomputesColumns(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 120, h.m.field.Columns())
	h.send(tickMsg(time.Now()))
	require.Equal(t, 2, h.m.field.Drops()[0])

	h.send(tea.WindowSizeMsg{Width: 70, Height: 20})
	require.Equal(t, 70, h.m.field.Columns())
	for _, d := range h.m.field.Drops() {
		require.Equal(t, 1, d)
	}
}

func TestTickRearms(t *testing.T) {
	h := newHarness(t)
	require.NotNil(t, h.send(tickMsg(time.Now())))
}

func TestViewShowsBothGames(t *testing.T) {
	h := newHarness(t)
	view := h.m.View()
	require.Contains(t, view, "Reaction Test")
	require.Contains(t, view, "Typing Challenge")
	require.Contains(t, view, reaction.PanelReady)
	require.Contains(t, view, typing.Placeholder)
	require.Len(t, strings.Split(view, "\n"), 40)
}

func TestViewEmptyBeforeSize(t *testing.T) {
	m := NewModel(testConfig(), Options{Gen: generator.NewSeeded(1)})
	t.Cleanup(m.Close)
	require.Empty(t, m.View())
}

func TestRainOnlyHidesGames(t *testing.T) {
	m := NewModel(testConfig(), Options{Gen: generator.NewSeeded(1), RainOnly: true})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 30, Height: 10})
	m.Update(tickMsg(time.Now()))
	view := m.View()
	require.NotContains(t, view, "Reaction Test")
	require.Len(t, strings.Split(view, "\n"), 10)

	_, cmd := m.Update(runes("s"))
	require.Nil(t, cmd)
	_, cmd = m.Update(runes("q"))
	require.NotNil(t, cmd)
}

func TestLeadingSpaceStillCountsAsClean(t *testing.T) {
	h := newHarness(t)
	h.send(tabKey)
	h.send(ctrlS)
	target := h.m.typing.Target()

	h.send(runes(" " + target + " "))
	require.Equal(t, " "+target+" ", h.m.input.Value())
	h.send(enterKey)

	require.Equal(t, 1, h.m.typing.Score())
	require.Len(t, h.rec.rounds, 1)
	require.Equal(t, model.OutcomeClean, h.rec.rounds[0].Outcome)
}

func TestRainTicksDoNotShiftGameRounds(t *testing.T) {
	newSeeded := func(ticks int) *Model {
		m := NewModel(testConfig(), Options{Gen: generator.NewSeeded(7)})
		t.Cleanup(m.Close)
		m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
		for i := 0; i < ticks; i++ {
			m.Update(tickMsg(time.Now()))
		}
		return m
	}
	still := newSeeded(0)
	busy := newSeeded(25)

	still.Update(runes("s"))
	busy.Update(runes("s"))
	p1, _ := still.reaction.Pending()
	p2, _ := busy.reaction.Pending()
	require.Equal(t, p1.Delay, p2.Delay)

	still.Update(tabKey)
	busy.Update(tabKey)
	still.Update(ctrlS)
	busy.Update(ctrlS)
	require.Equal(t, still.typing.Target(), busy.typing.Target())
}

func TestLongTargetKeepsOneLine(t *testing.T) {
	cfg := testConfig()
	cfg.Typing.Length = 20
	m := NewModel(cfg, Options{Gen: generator.NewSeeded(3)})
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	m.Update(tabKey)
	m.Update(ctrlS)

	spaced := strings.Join(strings.Split(m.typing.Target(), ""), targetGap)
	require.Len(t, spaced, 39)
	require.Contains(t, ansi.Strip(m.View()), spaced)
}

// click renders the view and presses the left button on the top-left cell of id.
func click(t *testing.T, m *Model, id string) {
	t.Helper()
	m.View()
	var info *zone.ZoneInfo
	require.Eventually(t, func() bool {
		info = m.zones.Get(id)
		return !info.IsZero()
	}, time.Second, 5*time.Millisecond, "zone %s never registered", id)
	m.Update(tea.MouseMsg{
		X:      info.StartX,
		Y:      info.StartY,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
}

func TestMouseZonesDriveBothGames(t *testing.T) {
	h := newHarness(t)

	click(t, h.m, zoneReactionStart)
	require.Equal(t, reaction.Waiting, h.m.reaction.State())
	click(t, h.m, zoneReactionPanel)
	require.Equal(t, reaction.Idle, h.m.reaction.State())
	require.Equal(t, reaction.ResultTooEarly, h.m.reaction.Result())
	require.Len(t, h.rec.reactions, 1)

	click(t, h.m, zoneReactionStart)
	click(t, h.m, zoneReactionReset)
	require.Equal(t, reaction.Idle, h.m.reaction.State())
	require.Equal(t, reaction.ResultPlaceholder, h.m.reaction.Result())

	click(t, h.m, zoneTypingStart)
	require.True(t, h.m.typing.Active())
	require.Equal(t, focusTyping, h.m.focus)
	click(t, h.m, zoneTypingReset)
	require.False(t, h.m.typing.Active())

	click(t, h.m, zoneReactionPanel)
	require.Equal(t, focusReaction, h.m.focus)
	require.Equal(t, reaction.Idle, h.m.reaction.State())
}

func TestMouseIgnoresOtherButtons(t *testing.T) {
	h := newHarness(t)
	h.m.View()
	var info *zone.ZoneInfo
	require.Eventually(t, func() bool {
		info = h.m.zones.Get(zoneReactionStart)
		return !info.IsZero()
	}, time.Second, 5*time.Millisecond)

	h.send(tea.MouseMsg{X: info.StartX, Y: info.StartY, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	h.send(tea.MouseMsg{X: info.StartX, Y: info.StartY, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	require.Equal(t, reaction.Idle, h.m.reaction.State())
}
