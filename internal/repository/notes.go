package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
)

var ErrIDAssigned = errors.New("new rows must not carry an id")

// NoteStore is the slice of the store the notes repository needs. *db.DB
// implements it.
type NoteStore interface {
	ListNotes(ctx context.Context, q db.NoteQuery) ([]db.Note, error)
	GetNote(ctx context.Context, id int64) (*db.Note, error)
	InsertNote(ctx context.Context, n db.Note) (int64, error)
	UpdateNote(ctx context.Context, n db.Note) error
	UpdateNoteFields(ctx context.Context, f db.NoteFields) error
	SetNoteDeleted(ctx context.Context, id int64, deleted bool) error
	RestoreNotes(ctx context.Context, ids []int64) (int, error)
	PurgeNotes(ctx context.Context, ids []int64) (int, error)
	PurgeDeletedNotes(ctx context.Context) (int, error)
	Changes(tables ...db.Table) (<-chan struct{}, func())
}

// Notes reads the notes of one scope and applies point mutations. It holds
// no state besides its bindings, so one value per screen is cheap.
type Notes struct {
	store NoteStore
	scope db.Scope
}

func NewNotes(store NoteStore, scope db.Scope) *Notes {
	return &Notes{store: store, scope: scope}
}

func (r *Notes) Scope() db.Scope {
	return r.scope
}

// StreamActive emits the notes of the scope in the default order, then again
// after every change to the notes table.
func (r *Notes) StreamActive(ctx context.Context) <-chan Emission[[]db.Note] {
	return r.Stream(ctx, db.NoteQuery{Sort: db.DefaultSort})
}

// StreamSorted is StreamActive ordered by the store on key.
func (r *Notes) StreamSorted(ctx context.Context, key db.SortKey) <-chan Emission[[]db.Note] {
	return r.Stream(ctx, db.NoteQuery{Sort: key})
}

// Search streams the notes of the scope whose title starts with query,
// ignoring case. A blank query matches every note in the scope.
func (r *Notes) Search(ctx context.Context, query string) <-chan Emission[[]db.Note] {
	return r.Stream(ctx, db.NoteQuery{Sort: db.SortAlphabetical, TitlePrefix: query})
}

// Stream runs q against the repository scope; q.Scope is overwritten.
func (r *Notes) Stream(ctx context.Context, q db.NoteQuery) <-chan Emission[[]db.Note] {
	q.Scope = r.scope
	return watch(ctx, r.store, []db.Table{db.TableNotes}, func(ctx context.Context) ([]db.Note, error) {
		return r.store.ListNotes(ctx, q)
	})
}

func (r *Notes) List(ctx context.Context, key db.SortKey, prefix string) ([]db.Note, error) {
	return r.store.ListNotes(ctx, db.NoteQuery{Scope: r.scope, Sort: key, TitlePrefix: prefix})
}

// GetByID looks the note up regardless of scope.
func (r *Notes) GetByID(ctx context.Context, id int64) (db.Note, error) {
	n, err := r.store.GetNote(ctx, id)
	if err != nil {
		return db.Note{}, err
	}
	return *n, nil
}

func (r *Notes) Insert(ctx context.Context, n db.Note) (int64, error) {
	if n.ID != 0 {
		return 0, fmt.Errorf("insert note %d: %w", n.ID, ErrIDAssigned)
	}
	return r.store.InsertNote(ctx, n)
}

// Update overwrites every column. Stamping the modification date is up to
// the caller.
func (r *Notes) Update(ctx context.Context, n db.Note) error {
	return r.store.UpdateNote(ctx, n)
}

func (r *Notes) UpdateFields(ctx context.Context, f db.NoteFields) error {
	return r.store.UpdateNoteFields(ctx, f)
}

// SoftDelete flags the note as deleted. Deleting a note already in the
// trash is not an error.
func (r *Notes) SoftDelete(ctx context.Context, id int64) error {
	return r.store.SetNoteDeleted(ctx, id, true)
}

// Restore brings the given notes back from the trash. Unknown ids are
// skipped; the count of restored notes is returned.
func (r *Notes) Restore(ctx context.Context, ids []int64) (int, error) {
	return r.store.RestoreNotes(ctx, ids)
}

func (r *Notes) Purge(ctx context.Context, ids []int64) (int, error) {
	return r.store.PurgeNotes(ctx, ids)
}

func (r *Notes) PurgeAllDeleted(ctx context.Context) (int, error) {
	return r.store.PurgeDeletedNotes(ctx)
}
