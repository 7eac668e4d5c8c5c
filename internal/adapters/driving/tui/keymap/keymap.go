// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the search window.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help toggles the help panel.
	Help key.Binding

	// NextFocus moves focus to the next area.
	NextFocus key.Binding

	// PrevFocus moves focus to the previous area.
	PrevFocus key.Binding

	// Up moves the list cursor up.
	Up key.Binding

	// Down moves the list cursor down.
	Down key.Binding

	// PageUp moves the list cursor up one screen.
	PageUp key.Binding

	// PageDown moves the list cursor down one screen.
	PageDown key.Binding

	// Left moves the option cursor left.
	Left key.Binding

	// Right moves the option cursor right.
	Right key.Binding

	// Toggle flips the option or row under the cursor.
	Toggle key.Binding

	// SelectOnly selects just the row under the cursor.
	SelectOnly key.Binding

	// ResetFilters clears every option toggle.
	ResetFilters key.Binding

	// Refresh relists the scene.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous option"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next option"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		SelectOnly: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		ResetFilters: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset options"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+l", "f5"),
			key.WithHelp("ctrl+l", "refresh"),
		),
	}
}

// InputHelp returns hints shown while typing a query.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.NextFocus, k.Refresh, k.Quit}
}

// OptionsHelp returns hints shown while the option row has focus.
func (k *KeyMap) OptionsHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Toggle, k.ResetFilters, k.Quit}
}

// ListHelp returns hints shown while the result list has focus.
func (k *KeyMap) ListHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.SelectOnly, k.Help}
}

// FullHelp returns the full list of keybindings for the help panel.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Left, k.Right, k.Toggle, k.SelectOnly},
		{k.NextFocus, k.PrevFocus, k.ResetFilters, k.Refresh},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
