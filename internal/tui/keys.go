package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit  key.Binding
	Focus key.Binding
	Help  key.Binding

	ReactionStart key.Binding
	ReactionClick key.Binding
	ReactionReset key.Binding

	TypingStart  key.Binding
	TypingSubmit key.Binding
	TypingReset  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
		Focus: key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch game")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),

		ReactionStart: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		ReactionClick: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "click panel")),
		ReactionReset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),

		TypingStart:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "start")),
		TypingSubmit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		TypingReset:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reset")),
	}
}

// helpKeys narrows the help footer to the focused game.
type helpKeys struct {
	keyMap
	focus int
}

func (k helpKeys) ShortHelp() []key.Binding {
	if k.focus == focusTyping {
		return []key.Binding{k.TypingStart, k.TypingSubmit, k.TypingReset, k.Focus, k.Quit}
	}
	return []key.Binding{k.ReactionStart, k.ReactionClick, k.ReactionReset, k.Focus, k.Quit}
}

func (k helpKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ReactionStart, k.ReactionClick, k.ReactionReset},
		{k.TypingStart, k.TypingSubmit, k.TypingReset},
		{k.Focus, k.Help, k.Quit},
	}
}
