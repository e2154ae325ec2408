// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the wizard screen.
type KeyMap struct {
	// Navigation
	Up         key.Binding
	Down       key.Binding
	Models     key.Binding
	Triggers   key.Binding
	NextTarget key.Binding
	PrevTarget key.Binding

	// Actions
	Enter   key.Binding
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	SQLHelp key.Binding

	// General
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Models: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "models panel"),
		),
		Triggers: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "triggers panel"),
		),
		NextTarget: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next target"),
		),
		PrevTarget: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous target"),
		),

		// Actions
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open/close row"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit trigger"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "remove trigger"),
		),
		SQLHelp: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "toggle sql help"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close row"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Delete, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Models, k.Triggers, k.NextTarget, k.PrevTarget}, // Navigation
		{k.Enter, k.Add, k.Edit, k.Delete, k.SQLHelp},                    // Actions
		{k.Help, k.Escape, k.Quit},                                       // General
	}
}
