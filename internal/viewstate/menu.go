package viewstate

import (
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
)

type Action int

const (
	ActionCopy Action = iota
	ActionFavorite
	ActionUnfavorite
	ActionPin
	ActionUnpin
	ActionMoveToTrash
	ActionRestore
	ActionDeleteForever
)

type MenuItem struct {
	Action Action
	Label  string
}

// ContextMenu lists the actions that apply to n, labelled for its current
// flags. Trashed notes can only be restored or deleted for good.
func ContextMenu(n db.Note) []MenuItem {
	t := i18n.T()

	if n.IsDeleted {
		return []MenuItem{
			{ActionRestore, t.MenuRestore},
			{ActionDeleteForever, t.MenuDeleteForever},
		}
	}

	favorite := MenuItem{ActionFavorite, t.MenuAddFavorite}
	if n.IsFavorite {
		favorite = MenuItem{ActionUnfavorite, t.MenuRemoveFavorite}
	}
	pin := MenuItem{ActionPin, t.MenuPin}
	if n.IsPinned {
		pin = MenuItem{ActionUnpin, t.MenuUnpin}
	}

	return []MenuItem{
		{ActionCopy, t.MenuCopy},
		favorite,
		pin,
		{ActionMoveToTrash, t.MenuMoveToTrash},
	}
}
