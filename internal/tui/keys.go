package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	// Navigation
	Up   key.Binding
	Down key.Binding

	// Actions
	Start    key.Binding // Start working on task
	Complete key.Binding // Mark task completed
	Cancel   key.Binding // Cancel task
	Escalate key.Binding // Raise priority
	Delete   key.Binding // Delete task

	// History
	Undo key.Binding
	Redo key.Binding

	// View
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel"),
		),
		Escalate: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "escalate"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "redo"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings to show in the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Start, k.Complete, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},                                // Navigation
		{k.Start, k.Complete, k.Cancel, k.Escalate},   // Status
		{k.Delete, k.Undo, k.Redo},                    // History
		{k.Refresh, k.Help, k.Quit},                   // View
	}
}
