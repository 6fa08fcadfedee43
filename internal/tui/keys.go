package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all key bindings for the TUI.
type keyMap struct {
	Quit    key.Binding
	Longer  key.Binding
	Shorter key.Binding
	Record  key.Binding
	Clear   key.Binding
	Help    key.Binding
}

// keys is the global key map.
var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Longer: key.NewBinding(
		key.WithKeys("+", "=", "up"),
		key.WithHelp("+", "longer window"),
	),
	Shorter: key.NewBinding(
		key.WithKeys("-", "_", "down"),
		key.WithHelp("-", "shorter window"),
	),
	Record: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "start/stop recording"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear buffer"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
}

// helpText is the full help string displayed in the footer when help is toggled on.
const helpText = "q/ctrl+c: quit  +/-: window length  r: record  c: clear  ?: toggle help"
