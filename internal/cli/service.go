package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/api"
	"github.com/nzaccagnino/jotaku-notes/internal/config"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/nzaccagnino/jotaku-notes/internal/ui"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
	"github.com/nzaccagnino/jotaku-notes/internal/viewstate"
)

// Service is the collection the commands act on, either the local store or
// a server.
type Service interface {
	viewstate.NoteCommands
	Get(ctx context.Context, id int64) (db.Note, error)
	List(ctx context.Context, scope db.Scope, key db.SortKey, prefix string) ([]db.Note, error)

	Notebooks(ctx context.Context) ([]db.Notebook, error)
	SaveNotebook(ctx context.Context, nb db.Notebook) (db.Notebook, error)
	DeleteNotebook(ctx context.Context, id int64) (int, error)

	// Backend feeds the interactive UI.
	Backend() ui.Backend
	Close() error
}

type Local struct {
	*usecase.Notes
	store     *db.DB
	notebooks *usecase.Notebooks
	nbRepo    *repository.Notebooks
	owned     bool
}

// NewLocal serves store. Closing the service leaves the store open.
func NewLocal(store *db.DB) *Local {
	nbRepo := repository.NewNotebooks(store)
	return &Local{
		Notes:     usecase.NewNotes(repository.NewNotes(store, db.AllScope()), nbRepo),
		store:     store,
		notebooks: usecase.NewNotebooks(nbRepo),
		nbRepo:    nbRepo,
	}
}

// OpenLocal opens the database at path and owns it.
func OpenLocal(path string) (*Local, error) {
	store, err := db.New(path)
	if err != nil {
		return nil, err
	}
	l := NewLocal(store)
	l.owned = true
	return l, nil
}

func (l *Local) List(ctx context.Context, scope db.Scope, key db.SortKey, prefix string) ([]db.Note, error) {
	return repository.NewNotes(l.store, scope).List(ctx, key, prefix)
}

func (l *Local) Notebooks(ctx context.Context) ([]db.Notebook, error) {
	return l.nbRepo.List(ctx)
}

func (l *Local) SaveNotebook(ctx context.Context, nb db.Notebook) (db.Notebook, error) {
	return l.notebooks.Save(ctx, nb)
}

func (l *Local) DeleteNotebook(ctx context.Context, id int64) (int, error) {
	return l.notebooks.Delete(ctx, id)
}

func (l *Local) Backend() ui.Backend {
	return ui.LocalBackend(l.store)
}

func (l *Local) Close() error {
	if !l.owned {
		return nil
	}
	return l.store.Close()
}

// Remote drives a server's collection.
type Remote struct {
	*api.Client
}

func (r Remote) Get(ctx context.Context, id int64) (db.Note, error) {
	return r.GetNote(ctx, id)
}

func (r Remote) List(ctx context.Context, scope db.Scope, key db.SortKey, prefix string) ([]db.Note, error) {
	return r.ListNotes(ctx, api.Query{Scope: scope, Sort: key, Text: prefix})
}

func (r Remote) Notebooks(ctx context.Context) ([]db.Notebook, error) {
	return r.ListNotebooks(ctx)
}

func (r Remote) Backend() ui.Backend {
	return ui.RemoteBackend(r.Client)
}

func (r Remote) Close() error { return nil }

// Open connects to the server when one is configured and to the local
// database otherwise.
func Open(cfg *config.Config) (Service, error) {
	if cfg.Server.URL == "" {
		return OpenLocal(cfg.DBPath)
	}

	client := api.NewClient(cfg.Server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", cfg.Server.URL, err)
	}
	return Remote{client}, nil
}
