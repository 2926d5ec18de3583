package reader

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	next     key.Binding
	prev     key.Binding
	first    key.Binding
	last     key.Binding
	back     key.Binding
	bookmark key.Binding
	theme    key.Binding
	quit     key.Binding
}

var defaultKeymap = keymap{
	next: key.NewBinding(
		key.WithKeys("right", "l", " "),
		key.WithHelp("→", "next page"),
	),
	prev: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←", "previous page"),
	),
	first: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "first page"),
	),
	last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last page"),
	),
	back: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "last visited page"),
	),
	bookmark: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "toggle bookmark"),
	),
	theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "cycle theme"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "end session"),
	),
}
