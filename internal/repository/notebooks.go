package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
)

type NotebookStore interface {
	ListNotebooks(ctx context.Context) ([]db.Notebook, error)
	FirstNotebooks(ctx context.Context, limit int) ([]db.Notebook, error)
	GetNotebook(ctx context.Context, id int64) (*db.Notebook, error)
	InsertNotebook(ctx context.Context, nb db.Notebook) (int64, error)
	UpdateNotebook(ctx context.Context, nb db.Notebook) error
	DeleteNotebook(ctx context.Context, id int64) (int, error)
	Changes(tables ...db.Table) (<-chan struct{}, func())
}

type Notebooks struct {
	store NotebookStore
}

func NewNotebooks(store NotebookStore) *Notebooks {
	return &Notebooks{store: store}
}

// Stream emits every notebook in creation order, then again after each
// change to the notebooks table.
func (r *Notebooks) Stream(ctx context.Context) <-chan Emission[[]db.Notebook] {
	return watch(ctx, r.store, []db.Table{db.TableNotebooks}, r.store.ListNotebooks)
}

func (r *Notebooks) List(ctx context.Context) ([]db.Notebook, error) {
	return r.store.ListNotebooks(ctx)
}

// Defaults returns the first n notebooks, used as shortcuts.
func (r *Notebooks) Defaults(ctx context.Context, n int) ([]db.Notebook, error) {
	return r.store.FirstNotebooks(ctx, n)
}

func (r *Notebooks) GetByID(ctx context.Context, id int64) (db.Notebook, error) {
	nb, err := r.store.GetNotebook(ctx, id)
	if err != nil {
		return db.Notebook{}, err
	}
	return *nb, nil
}

// GetOrDefault resolves id, falling back to the default notebook when it is
// missing. When the default notebook has not been created either, a
// placeholder carrying its id is returned so references stay consistent.
func (r *Notebooks) GetOrDefault(ctx context.Context, id int64) (db.Notebook, error) {
	if id > 0 {
		nb, err := r.GetByID(ctx, id)
		if err == nil {
			return nb, nil
		}
		if !errors.Is(err, db.ErrNotFound) {
			return db.Notebook{}, err
		}
	}

	nb, err := r.GetByID(ctx, db.DefaultNotebookID)
	if errors.Is(err, db.ErrNotFound) {
		return db.Notebook{ID: db.DefaultNotebookID, Description: db.DefaultNotebookName}, nil
	}
	return nb, err
}

func (r *Notebooks) Insert(ctx context.Context, nb db.Notebook) (int64, error) {
	if nb.ID != 0 {
		return 0, fmt.Errorf("insert notebook %d: %w", nb.ID, ErrIDAssigned)
	}
	return r.store.InsertNotebook(ctx, nb)
}

func (r *Notebooks) Update(ctx context.Context, nb db.Notebook) error {
	return r.store.UpdateNotebook(ctx, nb)
}

// Delete removes the notebook and reports how many notes were moved to the
// default notebook.
func (r *Notebooks) Delete(ctx context.Context, id int64) (int, error) {
	return r.store.DeleteNotebook(ctx, id)
}
