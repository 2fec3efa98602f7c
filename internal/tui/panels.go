package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/termrain/internal/reaction"
)

const (
	zoneReactionPanel = "reaction-panel"
	zoneReactionStart = "reaction-start"
	zoneReactionReset = "reaction-reset"
	zoneTypingPanel   = "typing-panel"
	zoneTypingStart   = "typing-start"
	zoneTypingReset   = "typing-reset"

	padWidth    = 24
	padHeight   = 5
	targetGap   = " "
	panelMargin = 2
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = pendingStyle.Underline(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Background(lipgloss.Color("#000000"))
	focusedCardStyle = cardStyle.BorderForeground(lipgloss.Color("#C89A3A"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF9C")).Bold(true)
	resultStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	buttonStyle      = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F0F0F0")).
				Background(lipgloss.Color("#2A2A2A")).
				Padding(0, 1)

	waitingPadStyle = lipgloss.NewStyle().
			Width(padWidth).
			Height(padHeight).
			Align(lipgloss.Center, lipgloss.Center).
			Bold(true).
			Foreground(lipgloss.Color("#F0F0F0")).
			Background(lipgloss.Color("#5C1A1A"))
	goPadStyle = waitingPadStyle.Background(lipgloss.Color("#0F7A4A"))
)

func (m *Model) renderGames() string {
	games := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderReaction(),
		lipgloss.NewStyle().Width(panelMargin).Render(""),
		m.renderTyping(),
	)
	rows := []string{games}
	rows = append(rows, m.help.View(helpKeys{keyMap: m.keys, focus: m.focus}))
	if m.notice != "" {
		rows = append(rows, noticeStyle.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func (m *Model) card(focus int) lipgloss.Style {
	if m.focus == focus {
		return focusedCardStyle
	}
	return cardStyle
}

func (m *Model) renderReaction() string {
	padStyle := waitingPadStyle
	if m.reaction.State() == reaction.Go {
		padStyle = goPadStyle
	}
	pad := m.zones.Mark(zoneReactionPanel, padStyle.Render(m.reaction.Panel()))
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		m.zones.Mark(zoneReactionStart, buttonStyle.Render("Start")),
		" ",
		m.zones.Mark(zoneReactionReset, buttonStyle.Render("Reset")),
	)
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Reaction Test"),
		"",
		pad,
		"",
		buttons,
		resultStyle.Render(m.reaction.Result()),
	)
	return m.card(focusReaction).Render(body)
}

func (m *Model) renderTyping() string {
	var target string
	width := padWidth
	if m.typing.Active() {
		input := []rune(strings.TrimLeft(m.input.Value(), " "))
		runes := buildStyledRunes([]rune(m.typing.Target()), input, len(input))
		target = renderStyledRunes(runes, targetGap)
		width = max(width, styledWidth(runes, targetGap))
	} else {
		target = pendingStyle.Render(m.typing.Display())
		width = max(width, lipgloss.Width(target))
	}
	targetBox := lipgloss.NewStyle().
		Width(width).
		Height(padHeight-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(target)

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		m.zones.Mark(zoneTypingStart, buttonStyle.Render("Start")),
		" ",
		m.zones.Mark(zoneTypingReset, buttonStyle.Render("Reset")),
	)
	body := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Typing Challenge"),
		"",
		targetBox,
		m.input.View(),
		"",
		buttons,
		resultStyle.Render(m.typing.Status()),
	)
	return m.zones.Mark(zoneTypingPanel, m.card(focusTyping).Render(body))
}
