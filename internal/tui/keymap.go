package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines every keybinding of the live view.
type keyMap struct {
	Quit     key.Binding
	Down     key.Binding
	Up       key.Binding
	PageDown key.Binding
	PageUp   key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
}

// ShortHelp returns the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.PageUp, k.Left, k.Quit}
}

// FullHelp returns all bindings, grouped by column.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.PageUp, k.PageDown},
		{k.Left, k.Right, k.Home, k.End},
		{k.Quit},
	}
}

var defaultKeyMap = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/k", "scroll"),
	),
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("j/k", "scroll"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("d", "pgdown"),
		key.WithHelp("d/u", "page"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("u", "pgup"),
		key.WithHelp("d/u", "page"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/l", "pan"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("h/l", "pan"),
	),
	Home: key.NewBinding(
		key.WithKeys("0", "home"),
		key.WithHelp("0/$", "edges"),
	),
	End: key.NewBinding(
		key.WithKeys("$", "end"),
		key.WithHelp("0/$", "edges"),
	),
}
