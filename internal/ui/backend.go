package ui

import (
	"context"

	"github.com/nzaccagnino/jotaku-notes/internal/api"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
	"github.com/nzaccagnino/jotaku-notes/internal/viewstate"
)

// shortcutCount is how many notebooks get a number key in the header.
const shortcutCount = 3

// Backend is what the model reads from and writes to.
type Backend struct {
	Notes        func(scope db.Scope) viewstate.NoteSource
	NoteCommands viewstate.NoteCommands

	// Notebooks and NotebookCommands are nil when the notebooks screen is
	// unavailable.
	Notebooks        viewstate.NotebookSource
	NotebookCommands viewstate.NotebookCommands

	// ListNotebooks feeds the notebook picker.
	ListNotebooks func(ctx context.Context) ([]db.Notebook, error)
	Shortcuts     func(ctx context.Context) ([]db.Notebook, error)
}

func LocalBackend(store *db.DB) Backend {
	nbRepo := repository.NewNotebooks(store)
	return Backend{
		Notes: func(scope db.Scope) viewstate.NoteSource {
			return repository.NewNotes(store, scope)
		},
		NoteCommands:     usecase.NewNotes(repository.NewNotes(store, db.AllScope()), nbRepo),
		Notebooks:        nbRepo,
		NotebookCommands: usecase.NewNotebooks(nbRepo),
		ListNotebooks:    nbRepo.List,
		Shortcuts: func(ctx context.Context) ([]db.Notebook, error) {
			return nbRepo.Defaults(ctx, shortcutCount)
		},
	}
}

// RemoteBackend drives a server's collection. Notebooks can be browsed
// through the shortcuts only.
func RemoteBackend(client *api.Client) Backend {
	return Backend{
		Notes: func(scope db.Scope) viewstate.NoteSource {
			return client.Notes(scope)
		},
		NoteCommands:  client,
		ListNotebooks: client.ListNotebooks,
		Shortcuts: func(ctx context.Context) ([]db.Notebook, error) {
			nbs, err := client.ListNotebooks(ctx)
			if len(nbs) > shortcutCount {
				nbs = nbs[:shortcutCount]
			}
			return nbs, err
		},
	}
}
