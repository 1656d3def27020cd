package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Technology key.Binding
	Industry   key.Binding
	Society    key.Binding
	Axis       key.Binding
	YAxis      key.Binding
	Mode       key.Binding
	Focus      key.Binding
	Clear      key.Binding
	Reset      key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	PanUp      key.Binding
	PanDown    key.Binding
	PanLeft    key.Binding
	PanRight   key.Binding
	Next       key.Binding
	Prev       key.Binding
	View       key.Binding
	Bookmark   key.Binding
	Copy       key.Binding
	Export     key.Binding
	Detail     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Focus, k.Axis, k.Mode, k.View, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Technology, k.Industry, k.Society, k.Focus, k.Clear, k.Reset},
		{k.Axis, k.YAxis, k.Mode, k.View, k.Detail},
		{k.ZoomIn, k.ZoomOut, k.PanUp, k.PanDown, k.PanLeft, k.PanRight},
		{k.Next, k.Prev, k.Bookmark, k.Copy, k.Export, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Technology: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "technology")),
	Industry:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "industry")),
	Society:    key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "society")),
	Axis:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "axis")),
	YAxis:      key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "matrix y axis")),
	Mode:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "clustering")),
	Focus:      key.NewBinding(key.WithKeys("enter", "f"), key.WithHelp("enter/f", "focus cluster")),
	Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear focus")),
	Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
	PanUp:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan up")),
	PanDown:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan down")),
	PanLeft:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
	PanRight:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
	Next:       key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab/n", "next")),
	Prev:       key.NewBinding(key.WithKeys("shift+tab", "N"), key.WithHelp("shift+tab/N", "previous")),
	View:       key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "radar/matrix")),
	Bookmark:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
	Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	Export:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
	Detail:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "details")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
