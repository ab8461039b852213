package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings of the carousel
type KeyMap struct {
	// Navigation
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding

	// Edits
	Rate       key.Binding
	PickLabel  key.Binding
	ColorLabel key.Binding
	Tags       key.Binding

	// Panels
	Metadata key.Binding
	Filter   key.Binding
	Open     key.Binding
	Reload   key.Binding

	Quit   key.Binding
	Help   key.Binding
	Escape key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Prev: key.NewBinding(
			key.WithKeys("h", "left", "k", "up"),
			key.WithHelp("h/←", "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys("l", "right", "j", "down", " "),
			key.WithHelp("l/→", "next"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first item"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last item"),
		),

		// Edits
		Rate: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5"),
			key.WithHelp("0-5", "rate"),
		),
		PickLabel: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pick label"),
		),
		ColorLabel: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "color label"),
		),
		Tags: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tags"),
		),

		// Panels
		Metadata: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle metadata"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter metadata"),
		),
		Open: key.NewBinding(
			key.WithKeys("o", "enter"),
			key.WithHelp("o", "open full size"),
		),
		Reload: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload tags"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/close"),
		),
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
