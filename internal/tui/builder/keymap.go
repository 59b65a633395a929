package builder

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keybindings for the builder TUI
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Expand       key.Binding
	Collapse     key.Binding
	SwitchPane   key.Binding
	Open         key.Binding
	GoToTop      key.Binding
	GoToBottom   key.Binding
	ToggleSelect key.Binding
	SelectAll    key.Binding
	SelectNone   key.Binding
	MoveUp       key.Binding
	MoveDown     key.Binding
	Indent       key.Binding
	Outdent      key.Binding
	Grab         key.Binding
	AddAfter     key.Binding
	AddInside    key.Binding
	AddFolder    key.Binding
	Rename       key.Binding
	Delete       key.Binding
	Duplicate    key.Binding
	Convert      key.Binding
	Status       key.Binding
	Undo         key.Binding
	Redo         key.Binding
	Copy         key.Binding
	Save         key.Binding
	Export       key.Binding
	Cancel       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleSelect, k.Grab, k.AddAfter, k.Undo, k.Save, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Expand, k.Collapse, k.SwitchPane, k.Open, k.GoToTop, k.GoToBottom},
		{k.ToggleSelect, k.SelectAll, k.SelectNone, k.MoveUp, k.MoveDown, k.Indent, k.Outdent, k.Grab},
		{k.AddAfter, k.AddInside, k.AddFolder, k.Rename, k.Delete, k.Duplicate, k.Convert, k.Status},
		{k.Undo, k.Redo, k.Copy, k.Save, k.Export, k.Cancel, k.Help, k.Quit},
	}
}

var keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Expand: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "expand"),
	),
	Collapse: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "collapse"),
	),
	SwitchPane: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch pane"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open outline / toggle"),
	),
	GoToTop: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "go to top"),
	),
	GoToBottom: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "go to bottom"),
	),
	ToggleSelect: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "toggle select"),
	),
	SelectAll: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "select all"),
	),
	SelectNone: key.NewBinding(
		key.WithKeys("A"),
		key.WithHelp("A", "deselect all"),
	),
	MoveUp: key.NewBinding(
		key.WithKeys("K", "shift+up"),
		key.WithHelp("K", "move up"),
	),
	MoveDown: key.NewBinding(
		key.WithKeys("J", "shift+down"),
		key.WithHelp("J", "move down"),
	),
	Indent: key.NewBinding(
		key.WithKeys(">"),
		key.WithHelp(">", "indent"),
	),
	Outdent: key.NewBinding(
		key.WithKeys("<"),
		key.WithHelp("<", "outdent"),
	),
	Grab: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "grab / drop"),
	),
	AddAfter: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "add after"),
	),
	AddInside: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "add inside"),
	),
	AddFolder: key.NewBinding(
		key.WithKeys("F"),
		key.WithHelp("F", "add folder"),
	),
	Rename: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "delete"),
	),
	Duplicate: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "duplicate"),
	),
	Convert: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "convert kind"),
	),
	Status: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "next status"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u", "ctrl+z"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r", "U"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy title"),
	),
	Save: key.NewBinding(
		key.WithKeys("s", "ctrl+s"),
		key.WithHelp("s", "save"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel drag"),
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
