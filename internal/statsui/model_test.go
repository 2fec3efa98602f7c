package statsui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/termrain/internal/model"
	"github.com/verte-zerg/termrain/internal/stats"
	"github.com/verte-zerg/termrain/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "termrain.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func seed(t *testing.T, st *store.Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		outcome, ms := model.OutcomeHit, int64(320-i*30)
		if i == 2 {
			outcome, ms = model.OutcomeEarly, 0
		}
		require.NoError(t, st.InsertReaction(ctx, model.ReactionRecord{
			ID:         fmt.Sprintf("r%d", i),
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			EndedAt:    base.Add(time.Duration(i)*time.Minute + 2*time.Second),
			DelayMs:    1500,
			Outcome:    outcome,
			ReactionMs: ms,
		}))
	}
	require.NoError(t, st.InsertTyping(ctx, model.TypingRecord{
		ID:      "t0",
		EndedAt: base,
		Target:  "01ABCDEF01",
		Typed:   "01ABCDEF01",
		Outcome: model.OutcomeClean,
		Score:   1,
	}))
}

func TestViewShowsReactionTab(t *testing.T) {
	st := openStore(t)
	seed(t, st)

	m := NewModel(st, model.StatsConfig{Window: 2})
	require.Empty(t, m.View())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	require.Contains(t, view, "Sessions")
	require.Contains(t, view, "Reaction trend (window 2)")
	require.Contains(t, view, "Reaction (ms)")
	require.Len(t, strings.Split(view, "\n"), 40)
	require.Len(t, m.tables[tabReaction].Rows(), 4)
}

func TestTabSwitching(t *testing.T) {
	st := openStore(t)
	seed(t, st)

	m := NewModel(st, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	require.Equal(t, tabTyping, m.activeTab)
	view := m.View()
	require.Contains(t, view, "Accuracy")
	require.Contains(t, view, "01ABCDEF01")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabReaction, m.activeTab)
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, tabTyping, m.activeTab)
}

func TestEmptyHistory(t *testing.T) {
	m := NewModel(openStore(t), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	require.Contains(t, m.View(), "No reaction sessions found.")
	require.Empty(t, renderTrend(nil, nil, 80))
}

func TestReloadPicksUpNewRecords(t *testing.T) {
	st := openStore(t)
	m := NewModel(st, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	require.Empty(t, m.tables[tabReaction].Rows())

	seed(t, st)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.Len(t, m.tables[tabReaction].Rows(), 4)
	require.Len(t, m.tables[tabTyping].Rows(), 1)
}

func TestQuit(t *testing.T) {
	m := NewModel(openStore(t), model.StatsConfig{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestFitLines(t *testing.T) {
	out := fitLines("abcdef\nxy", 3, 3)
	require.Equal(t, "abc\nxy\n", out)
}

func TestTrendUsesSummaryAverages(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	recs := []model.ReactionRecord{
		{EndedAt: base, Outcome: model.OutcomeHit, ReactionMs: 300},
		{EndedAt: base.Add(time.Minute), Outcome: model.OutcomeEarly},
		{EndedAt: base.Add(2 * time.Minute), Outcome: model.OutcomeHit, ReactionMs: 200},
		{EndedAt: base.Add(3 * time.Minute), Outcome: model.OutcomeHit, ReactionMs: 250},
	}
	times := hitTimes(recs)
	require.Equal(t, []time.Time{base, base.Add(2 * time.Minute), base.Add(3 * time.Minute)}, times)

	s := stats.SummarizeReactions(recs, 2)
	require.Len(t, s.Trend, len(times))
	require.NotEmpty(t, renderTrend(times, s.Trend, 60))
	require.Empty(t, renderTrend(times, s.Trend[:2], 60))

	overview := renderReactionOverview(recs, s, 2, 60)
	require.Contains(t, overview, "Reaction trend (window 2)")
	require.Empty(t, renderTrend(times[:1], s.Trend[:1], 60))
}
