package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
)

type NoteRepository interface {
	GetByID(ctx context.Context, id int64) (db.Note, error)
	Insert(ctx context.Context, n db.Note) (int64, error)
	Update(ctx context.Context, n db.Note) error
	UpdateFields(ctx context.Context, f db.NoteFields) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, ids []int64) (int, error)
	Purge(ctx context.Context, ids []int64) (int, error)
	PurgeAllDeleted(ctx context.Context) (int, error)
}

type NotebookResolver interface {
	GetOrDefault(ctx context.Context, id int64) (db.Notebook, error)
}

// NoteInput carries the user-editable fields of a note.
type NoteInput struct {
	Title      string
	Content    string
	IsPinned   bool
	IsFavorite bool
	Color      int
	NotebookID int64
}

func InputOf(n db.Note) NoteInput {
	return NoteInput{
		Title:      n.Title,
		Content:    n.Content,
		IsPinned:   n.IsPinned,
		IsFavorite: n.IsFavorite,
		Color:      n.Color,
		NotebookID: n.NotebookID,
	}
}

func (in NoteInput) validate() error {
	if strings.TrimSpace(in.Title) == "" && strings.TrimSpace(in.Content) == "" {
		return invalid("note", "title and content are both blank")
	}
	if !db.ValidColor(in.Color) {
		return invalid("color", fmt.Sprintf("%d is outside the palette", in.Color))
	}
	return nil
}

// Notes is the note command surface. Each method is a single repository
// call or a short read-then-write; nothing is retried.
type Notes struct {
	repo      NoteRepository
	notebooks NotebookResolver
	now       func() time.Time
}

func NewNotes(repo NoteRepository, notebooks NotebookResolver) *Notes {
	return &Notes{repo: repo, notebooks: notebooks, now: time.Now}
}

// SetClock replaces the time source used to stamp dates.
func (s *Notes) SetClock(now func() time.Time) {
	s.now = now
}

// stamp drops the monotonic clock reading.
func (s *Notes) stamp() time.Time {
	return s.now().Round(0)
}

func (s *Notes) resolveNotebook(ctx context.Context, id int64) (int64, error) {
	nb, err := s.notebooks.GetOrDefault(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve notebook %d: %w", id, err)
	}
	return nb.ID, nil
}

func (s *Notes) Get(ctx context.Context, id int64) (db.Note, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Notes) Create(ctx context.Context, in NoteInput) (db.Note, error) {
	n, err := s.create(ctx, in)
	return n, observe("create", err)
}

func (s *Notes) create(ctx context.Context, in NoteInput) (db.Note, error) {
	if err := in.validate(); err != nil {
		return db.Note{}, err
	}
	notebookID, err := s.resolveNotebook(ctx, in.NotebookID)
	if err != nil {
		return db.Note{}, err
	}

	now := s.stamp()
	n := db.Note{
		Title:            in.Title,
		Content:          in.Content,
		IsPinned:         in.IsPinned,
		IsFavorite:       in.IsFavorite,
		CreationDate:     now,
		ModificationDate: now,
		Color:            in.Color,
		NotebookID:       notebookID,
	}
	id, err := s.repo.Insert(ctx, n)
	if err != nil {
		return db.Note{}, err
	}
	n.ID = id
	return n, nil
}

// Update overwrites the stored note with n. The creation date is kept from
// the stored row and the modification date is stamped now.
func (s *Notes) Update(ctx context.Context, n db.Note) (db.Note, error) {
	n, err := s.update(ctx, n)
	return n, observe("update", err)
}

func (s *Notes) update(ctx context.Context, n db.Note) (db.Note, error) {
	if err := InputOf(n).validate(); err != nil {
		return db.Note{}, err
	}
	existing, err := s.repo.GetByID(ctx, n.ID)
	if err != nil {
		return db.Note{}, err
	}
	notebookID, err := s.resolveNotebook(ctx, n.NotebookID)
	if err != nil {
		return db.Note{}, err
	}

	n.NotebookID = notebookID
	n.CreationDate = existing.CreationDate
	n.ModificationDate = s.modified(existing.CreationDate)
	if err := s.repo.Update(ctx, n); err != nil {
		return db.Note{}, err
	}
	return n, nil
}

// Edit writes the editable fields of note id and stamps its modification
// date. The trash flag and creation date are untouched.
func (s *Notes) Edit(ctx context.Context, id int64, in NoteInput) error {
	return observe("edit", s.edit(ctx, id, in))
}

func (s *Notes) edit(ctx context.Context, id int64, in NoteInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	notebookID, err := s.resolveNotebook(ctx, in.NotebookID)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, db.NoteFields{
		ID:               id,
		Title:            in.Title,
		Content:          in.Content,
		IsFavorite:       in.IsFavorite,
		IsPinned:         in.IsPinned,
		Color:            in.Color,
		NotebookID:       notebookID,
		ModificationDate: s.modified(existing.CreationDate),
	})
}

func (s *Notes) modified(created time.Time) time.Time {
	now := s.stamp()
	if now.Before(created) {
		return created
	}
	return now
}

// Copy inserts a duplicate of note id with fresh dates. The original is not
// written.
func (s *Notes) Copy(ctx context.Context, id int64) (db.Note, error) {
	n, err := s.copy(ctx, id)
	return n, observe("copy", err)
}

func (s *Notes) copy(ctx context.Context, id int64) (db.Note, error) {
	original, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return db.Note{}, err
	}
	notebookID, err := s.resolveNotebook(ctx, original.NotebookID)
	if err != nil {
		return db.Note{}, err
	}

	now := s.stamp()
	dup := original
	dup.ID = 0
	dup.IsDeleted = false
	dup.CreationDate = now
	dup.ModificationDate = now
	dup.NotebookID = notebookID

	newID, err := s.repo.Insert(ctx, dup)
	if err != nil {
		return db.Note{}, err
	}
	dup.ID = newID
	return dup, nil
}

// SetPinned flips the pin flag. Like favoriting, pinning is not an edit and
// leaves the modification date alone.
func (s *Notes) SetPinned(ctx context.Context, id int64, pinned bool) error {
	op := "unpin"
	if pinned {
		op = "pin"
	}
	return observe(op, s.setFlag(ctx, id, func(n *db.Note) bool {
		if n.IsPinned == pinned {
			return false
		}
		n.IsPinned = pinned
		return true
	}))
}

func (s *Notes) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	op := "unfavorite"
	if favorite {
		op = "favorite"
	}
	return observe(op, s.setFlag(ctx, id, func(n *db.Note) bool {
		if n.IsFavorite == favorite {
			return false
		}
		n.IsFavorite = favorite
		return true
	}))
}

func (s *Notes) Pin(ctx context.Context, id int64) error      { return s.SetPinned(ctx, id, true) }
func (s *Notes) Unpin(ctx context.Context, id int64) error    { return s.SetPinned(ctx, id, false) }
func (s *Notes) Favorite(ctx context.Context, id int64) error { return s.SetFavorite(ctx, id, true) }
func (s *Notes) Unfavorite(ctx context.Context, id int64) error {
	return s.SetFavorite(ctx, id, false)
}

func (s *Notes) setFlag(ctx context.Context, id int64, apply func(*db.Note) bool) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !apply(&n) {
		return nil
	}
	return s.repo.Update(ctx, n)
}

func (s *Notes) MoveToTrash(ctx context.Context, id int64) error {
	return observe("trash", s.repo.SoftDelete(ctx, id))
}

// Restore returns the count of notes that were actually in the trash.
func (s *Notes) Restore(ctx context.Context, ids []int64) (int, error) {
	n, err := s.repo.Restore(ctx, ids)
	return n, observe("restore", err)
}

func (s *Notes) PurgeSelected(ctx context.Context, ids []int64) (int, error) {
	n, err := s.repo.Purge(ctx, ids)
	return n, observe("purge", err)
}

func (s *Notes) PurgeAll(ctx context.Context) (int, error) {
	n, err := s.repo.PurgeAllDeleted(ctx)
	return n, observe("purge_all", err)
}
