package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/lonely-pixel/internal/core"
)

// KeyMap defines the key bindings for play and the run menu.
type KeyMap struct {
	Left     key.Binding
	Right    key.Binding
	Jump     key.Binding
	Confirm  key.Binding
	Back     key.Binding
	PrevSkin key.Binding
	NextSkin key.Binding
	Boost    key.Binding
	Scores   key.Binding
	Pause    key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Jump, k.Pause, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Jump},
		{k.Confirm, k.Back, k.Pause},
		{k.PrevSkin, k.NextSkin, k.Boost, k.Scores},
		{k.Quit},
	}
}

// menuHelp adapts the map to the menu screen's help bar.
type menuHelp struct{ KeyMap }

func (k menuHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.PrevSkin, k.NextSkin, k.Boost, k.Scores, k.Quit}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Jump: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space/↑", "jump"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "start"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		PrevSkin: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev skin"),
		),
		NextSkin: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next skin"),
		),
		Boost: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "buy shield (50◆)"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "hall of fame"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to a semantic action.
func (k KeyMap) Action(msg tea.KeyMsg) core.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit
	case key.Matches(msg, k.Left):
		return core.ActionLeft
	case key.Matches(msg, k.Right):
		return core.ActionRight
	case key.Matches(msg, k.Jump):
		return core.ActionJump
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm
	case key.Matches(msg, k.Back):
		return core.ActionBack
	case key.Matches(msg, k.PrevSkin):
		return core.ActionPrevSkin
	case key.Matches(msg, k.NextSkin):
		return core.ActionNextSkin
	case key.Matches(msg, k.Boost):
		return core.ActionBoost
	case key.Matches(msg, k.Pause):
		return core.ActionPause
	}
	return core.ActionNone
}
