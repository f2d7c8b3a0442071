package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the player key bindings.
type KeyMap struct {
	PlayPause  key.Binding
	Back       key.Binding
	Forward    key.Binding
	BigBack    key.Binding
	BigForward key.Binding
	Restart    key.Binding
	Loop       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PlayPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		Back: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "back 1s"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "forward 1s"),
		),
		BigBack: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "back 5s"),
		),
		BigForward: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "forward 5s"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Loop: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "toggle loop"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "space play/pause  ←/→ ±1s  h/l ±5s  r restart  L loop  q quit"
}
