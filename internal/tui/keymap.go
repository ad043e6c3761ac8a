package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Execute   key.Binding
	Clear     key.Binding
	NextPane  key.Binding
	ToggleLog key.Binding
	Plot      key.Binding
	PlotX     key.Binding
	PlotY     key.Binding
	Select    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Execute: key.NewBinding(
		key.WithKeys("ctrl+r", "ctrl+enter"),
		key.WithHelp("ctrl+r", "run statement"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "clear editor"),
	),
	NextPane: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next pane"),
	),
	ToggleLog: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "toggle log"),
	),
	Plot: key.NewBinding(
		key.WithKeys("ctrl+p"),
		key.WithHelp("ctrl+p", "plot: off/line/scatter"),
	),
	PlotX: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "next x column"),
	),
	PlotY: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "next y column"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "query table"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "ctrl+q"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Execute, k.NextPane, k.Plot, k.ToggleLog, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Execute, k.Clear, k.NextPane, k.Select},
		{k.Plot, k.PlotX, k.PlotY},
		{k.ToggleLog, k.Help, k.Quit},
	}
}
