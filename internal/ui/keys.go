package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
)

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Edit      key.Binding
	Rename    key.Binding
	Color     key.Binding
	Escape    key.Binding
	Save      key.Binding
	New       key.Binding
	Menu      key.Binding
	Select    key.Binding
	SelectAll key.Binding
	Search    key.Binding
	Sort      key.Binding
	Undo      key.Binding
	Delete    key.Binding
	Restore   key.Binding
	Empty     key.Binding
	Move      key.Binding
	Home      key.Binding
	Favorites key.Binding
	Trash     key.Binding
	Notebooks key.Binding
	Shortcut  key.Binding
	Quit      key.Binding
	Help      key.Binding
}

func NewKeyMap() KeyMap {
	t := i18n.T()
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", t.KeyUp),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", t.KeyDown),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", t.KeyEnter),
		),
		Edit: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", t.KeyEdit),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", t.KeyEdit),
		),
		Color: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", t.Color),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", t.KeyEscape),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", t.KeySave),
		),
		New: key.NewBinding(
			key.WithKeys("ctrl+n", "n"),
			key.WithHelp("n", t.KeyNew),
		),
		Menu: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", t.KeyMenu),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", t.KeySelect),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", t.KeySelect),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f", "/"),
			key.WithHelp("/", t.KeySearch),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", t.KeySort),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", t.KeyUndo),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", t.KeyDelete),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", t.KeyRestore),
		),
		Empty: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", t.KeyEmpty),
		),
		Move: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", t.KeyMove),
		),
		Home: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", t.Home),
		),
		Favorites: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", t.Favorites),
		),
		Trash: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", t.Trash),
		),
		Notebooks: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", t.Notebooks),
		),
		Shortcut: key.NewBinding(
			key.WithKeys("5", "6", "7"),
			key.WithHelp("5-7", t.KeyNotebook),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("Ctrl+Q", t.KeyQuit),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", t.KeyHelp),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Menu, k.Search, k.Sort, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Escape},
		{k.New, k.Edit, k.Rename, k.Color, k.Save},
		{k.Menu, k.Select, k.SelectAll, k.Move, k.Delete, k.Undo, k.Restore, k.Empty},
		{k.Search, k.Sort},
		{k.Home, k.Favorites, k.Trash, k.Notebooks, k.Shortcut},
		{k.Help, k.Quit},
	}
}
