// Package statsui provides the Bubble Tea history viewer.
package statsui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/termrain/internal/model"
	"github.com/verte-zerg/termrain/internal/stats"
	"github.com/verte-zerg/termrain/internal/store"
)

const (
	tabReaction = iota
	tabTyping
)

const (
	chartHeight = 8
	recentLimit = 100
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	trendStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF9C"))
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store *store.Store
	cfg   model.StatsConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	tables    []table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cfg model.StatsConfig) *Model {
	m := &Model{
		store:  st,
		cfg:    cfg,
		tabs:   []string{"Reaction", "Typing"},
		tables: []table.Model{newTable(), newTable()},
	}
	m.tables[m.activeTab].Focus()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "g", "home":
			m.tables[m.activeTab].GotoTop()
			return m, nil
		case "G", "end":
			m.tables[m.activeTab].GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.tables[m.activeTab], cmd = m.tables[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func newTable() table.Model {
	t := table.New(table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#2A2A2A")).
		Bold(false)
	t.SetStyles(styles)
	return t
}

// setTableData replaces rows and columns; columns are sized to their content.
func setTableData(t *table.Model, data stats.Table) {
	widths := make([]int, len(data.Headers))
	for i, h := range data.Headers {
		widths[i] = lipgloss.Width(h)
	}
	rows := make([]table.Row, 0, len(data.Rows))
	for _, row := range data.Rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, table.Row(row))
	}
	cols := make([]table.Column, len(data.Headers))
	for i, h := range data.Headers {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	// Rows must be cleared before columns shrink.
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(rows)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.report = report
	setTableData(&m.tables[tabReaction], stats.ReactionTable(report.Reactions, recentLimit))
	setTableData(&m.tables[tabTyping], stats.TypingTable(report.Typing, recentLimit))
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	for i := range m.tables {
		m.tables[i].SetWidth(m.width)
		m.tables[i].SetHeight(m.tableHeight(i))
	}
}

func (m *Model) tableHeight(tab int) int {
	used := lipgloss.Height(m.renderHeader()) + lipgloss.Height(m.renderFooter())
	used += lipgloss.Height(m.renderOverview(tab)) + 1
	h := m.height - used
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.tables[m.activeTab].Blur()
	m.activeTab = next
	m.tables[m.activeTab].Focus()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  window=%d", since, last, m.cfg.Window)
	summary = ansi.Truncate(summary, m.width, "")
	return m.renderTabs() + "\n" + headerStyle.Render(summary)
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody() string {
	overview := m.renderOverview(m.activeTab)
	if m.errMsg != "" {
		return overview
	}
	if len(m.tables[m.activeTab].Rows()) == 0 {
		return overview
	}
	return overview + "\n\n" + tableMutedStyle.Render(m.tables[m.activeTab].View())
}

func (m *Model) renderOverview(tab int) string {
	if m.errMsg != "" {
		return "Failed to load stats."
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	if tab == tabTyping {
		return renderTypingOverview(m.report.Rounds)
	}
	return renderReactionOverview(m.report.Reactions, m.report.Reaction, m.cfg.Window, width)
}

func renderReactionOverview(recs []model.ReactionRecord, s stats.ReactionSummary, window, width int) string {
	if s.Sessions == 0 {
		return "No reaction sessions found."
	}
	cards := []string{
		metricCard("Sessions", strconv.Itoa(s.Sessions)),
		metricCard("Early", strconv.Itoa(s.Early)),
	}
	if s.Hits > 0 {
		cards = append(cards,
			metricCard("Best", fmt.Sprintf("%d ms", s.BestMs)),
			metricCard("Avg", fmt.Sprintf("%.1f ms", s.AvgMs)),
			metricCard("Median", fmt.Sprintf("%.1f ms", s.MedianMs)),
		)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	trend := renderTrend(hitTimes(recs), s.Trend, width)
	if trend == "" {
		return row
	}
	return row + "\n" + cardTitleStyle.Render(fmt.Sprintf("Reaction trend (window %d)", window)) + "\n" + trend
}

func renderTypingOverview(s stats.TypingSummary) string {
	if s.Rounds == 0 {
		return "No typing rounds found."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Rounds", strconv.Itoa(s.Rounds)),
		metricCard("Clean", strconv.Itoa(s.Clean)),
		metricCard("Accuracy", fmt.Sprintf("%.1f%%", s.Accuracy*100)),
		metricCard("Longest streak", strconv.Itoa(s.LongestStreak)),
		metricCard("Avg miss", fmt.Sprintf("%.1f", s.AvgMissDistance)),
	)
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

// hitTimes returns when each hit ended, in the order SummarizeReactions
// averaged them.
func hitTimes(recs []model.ReactionRecord) []time.Time {
	var times []time.Time
	for _, r := range recs {
		if r.Outcome == model.OutcomeHit {
			times = append(times, r.EndedAt)
		}
	}
	return times
}

// renderTrend charts a moving average against the hit times it was built
// from. It needs at least two points.
func renderTrend(times []time.Time, trend []float64, width int) string {
	if len(trend) < 2 || len(times) != len(trend) {
		return ""
	}

	minVal, maxVal := trend[0], trend[0]
	for _, v := range trend[1:] {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal-minVal < 1 {
		minVal--
		maxVal++
	}
	start, end := times[0], times[len(times)-1]
	if !end.After(start) {
		end = start.Add(time.Second)
	}

	chart := tslc.New(width, chartHeight)
	chart.SetStyle(trendStyle)
	chart.AxisStyle = headerStyle
	chart.LabelStyle = cardTitleStyle
	chart.SetTimeRange(start, end)
	chart.SetViewTimeRange(start, end)
	chart.SetYRange(minVal, maxVal)
	chart.SetViewYRange(minVal, maxVal)
	for i, t := range times {
		chart.Push(tslc.TimePoint{Time: t, Value: trend[i]})
	}
	chart.DrawBraille()
	return chart.View()
}

func fitLines(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
