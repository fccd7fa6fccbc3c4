package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"zenbox/internal/i18n"
)

// keyMap lists the bindings of the session screen.
type keyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	NewSession key.Binding
	Quit       key.Binding
}

func newKeyMap(t *i18n.Translator) keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", t.T("help_toggle")),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", t.T("reset")),
		),
		NewSession: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", t.T("new_session")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", t.T("quit")),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Reset, k.NewSession, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
