package usecase

import (
	"context"
	"strings"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
)

type NotebookRepository interface {
	GetOrDefault(ctx context.Context, id int64) (db.Notebook, error)
	Insert(ctx context.Context, nb db.Notebook) (int64, error)
	Update(ctx context.Context, nb db.Notebook) error
	Delete(ctx context.Context, id int64) (int, error)
}

const maxNotebookName = 128

type Notebooks struct {
	repo NotebookRepository
}

func NewNotebooks(repo NotebookRepository) *Notebooks {
	return &Notebooks{repo: repo}
}

// Get resolves id, substituting the default notebook when it is missing.
func (s *Notebooks) Get(ctx context.Context, id int64) (db.Notebook, error) {
	return s.repo.GetOrDefault(ctx, id)
}

// Save inserts nb when its id is zero and renames it otherwise.
func (s *Notebooks) Save(ctx context.Context, nb db.Notebook) (db.Notebook, error) {
	nb, err := s.save(ctx, nb)
	return nb, observe("save_notebook", err)
}

func (s *Notebooks) save(ctx context.Context, nb db.Notebook) (db.Notebook, error) {
	nb.Description = strings.TrimSpace(nb.Description)
	if nb.Description == "" {
		return db.Notebook{}, invalid("notebook", "a name is required")
	}
	if len(nb.Description) > maxNotebookName {
		return db.Notebook{}, invalid("notebook", "name is too long")
	}

	if nb.ID != 0 {
		return nb, s.repo.Update(ctx, nb)
	}
	id, err := s.repo.Insert(ctx, nb)
	if err != nil {
		return db.Notebook{}, err
	}
	nb.ID = id
	return nb, nil
}

// Delete removes the notebook; its notes move to the default notebook.
func (s *Notebooks) Delete(ctx context.Context, id int64) (int, error) {
	n, err := s.repo.Delete(ctx, id)
	return n, observe("delete_notebook", err)
}
