package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

type fixture struct {
	store     *db.DB
	notes     *Notes
	notebooks *Notebooks
	clock     *time.Time
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	nbRepo := repository.NewNotebooks(store)
	notes := NewNotes(repository.NewNotes(store, db.AllScope()), nbRepo)

	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	f := &fixture{store: store, notes: notes, notebooks: NewNotebooks(nbRepo), clock: &clock}
	notes.SetClock(func() time.Time { return *f.clock })
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func TestCreateValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input NoteInput
	}{
		{"blank title and content", NoteInput{Title: "  ", Content: "\n\t"}},
		{"negative color", NoteInput{Title: "x", Color: -1}},
		{"color past palette", NoteInput{Title: "x", Color: len(db.Palette)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.notes.Create(ctx, tt.input)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) || ve.Field == "" {
				t.Errorf("expected a *ValidationError with a field, got %#v", err)
			}
		})
	}

	count, _ := f.store.CountNotes(ctx, db.AllScope())
	if count != 0 {
		t.Errorf("rejected notes were stored: %d", count)
	}
}

func TestCreateStampsDatesAndResolvesNotebook(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n, err := f.notes.Create(ctx, NoteInput{Content: "only content", NotebookID: 42})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID <= 0 {
		t.Errorf("id not assigned: %d", n.ID)
	}
	if n.NotebookID != db.DefaultNotebookID {
		t.Errorf("missing notebook must fall back to default, got %d", n.NotebookID)
	}
	if !n.CreationDate.Equal(*f.clock) || !n.ModificationDate.Equal(*f.clock) {
		t.Errorf("dates not stamped: %v %v", n.CreationDate, n.ModificationDate)
	}

	stored, err := f.notes.Get(ctx, n.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Content != "only content" || stored.IsDeleted {
		t.Errorf("unexpected stored note %+v", stored)
	}
}

func TestEditKeepsCreationDate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n, _ := f.notes.Create(ctx, NoteInput{Title: "Draft"})
	f.advance(time.Hour)

	in := InputOf(n)
	in.Title = "Final"
	in.IsFavorite = true
	if err := f.notes.Edit(ctx, n.ID, in); err != nil {
		t.Fatalf("Edit: %v", err)
	}

	got, _ := f.notes.Get(ctx, n.ID)
	if got.Title != "Final" || !got.IsFavorite {
		t.Errorf("edit not applied: %+v", got)
	}
	if !got.CreationDate.Equal(n.CreationDate) {
		t.Errorf("creation date changed: %v -> %v", n.CreationDate, got.CreationDate)
	}
	if !got.ModificationDate.Equal(*f.clock) {
		t.Errorf("modification date = %v, want %v", got.ModificationDate, *f.clock)
	}

	if err := f.notes.Edit(ctx, 999, in); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound editing a missing note, got %v", err)
	}
}

func TestUpdateNeverMovesCreationDate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n, _ := f.notes.Create(ctx, NoteInput{Title: "A"})
	f.advance(-time.Hour)

	n.Title = "B"
	n.CreationDate = n.CreationDate.Add(24 * time.Hour)
	updated, err := f.notes.Update(ctx, n)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := f.notes.Get(ctx, n.ID)
	if !got.CreationDate.Equal(updated.CreationDate) || got.Title != "B" {
		t.Errorf("unexpected stored note %+v", got)
	}
	if got.ModificationDate.Before(got.CreationDate) {
		t.Errorf("modification %v precedes creation %v", got.ModificationDate, got.CreationDate)
	}
}

func TestCopyInsertsOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	original, _ := f.notes.Create(ctx, NoteInput{Title: "Recipe", Content: "flour", IsPinned: true, Color: 2})
	f.notes.MoveToTrash(ctx, original.ID)
	f.advance(time.Minute)

	dup, err := f.notes.Copy(ctx, original.ID)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if dup.ID == original.ID || dup.ID == 0 {
		t.Fatalf("copy id = %d, original %d", dup.ID, original.ID)
	}
	if dup.Title != "Recipe" || dup.Content != "flour" || !dup.IsPinned || dup.Color != 2 || dup.IsDeleted {
		t.Errorf("unexpected copy %+v", dup)
	}
	if !dup.CreationDate.Equal(*f.clock) {
		t.Errorf("copy creation date = %v, want %v", dup.CreationDate, *f.clock)
	}

	stored, _ := f.notes.Get(ctx, original.ID)
	if !stored.IsDeleted || !stored.ModificationDate.Equal(original.ModificationDate) {
		t.Errorf("original was rewritten: %+v", stored)
	}
}

func TestPinAndFavoriteLeaveModificationDate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	n, _ := f.notes.Create(ctx, NoteInput{Title: "A"})
	f.advance(time.Hour)

	if err := f.notes.Pin(ctx, n.ID); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	if err := f.notes.Favorite(ctx, n.ID); err != nil {
		t.Fatalf("Favorite: %v", err)
	}
	got, _ := f.notes.Get(ctx, n.ID)
	if !got.IsPinned || !got.IsFavorite {
		t.Errorf("flags not set: %+v", got)
	}
	if !got.ModificationDate.Equal(n.ModificationDate) {
		t.Errorf("modification date moved to %v", got.ModificationDate)
	}

	f.notes.Unpin(ctx, n.ID)
	f.notes.Unfavorite(ctx, n.ID)
	got, _ = f.notes.Get(ctx, n.ID)
	if got.IsPinned || got.IsFavorite {
		t.Errorf("flags not cleared: %+v", got)
	}

	if err := f.notes.Pin(ctx, 404); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTrashRestorePurge(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	a, _ := f.notes.Create(ctx, NoteInput{Title: "A"})
	b, _ := f.notes.Create(ctx, NoteInput{Title: "B"})
	c, _ := f.notes.Create(ctx, NoteInput{Title: "C"})
	for _, id := range []int64{a.ID, b.ID, c.ID} {
		if err := f.notes.MoveToTrash(ctx, id); err != nil {
			t.Fatalf("MoveToTrash: %v", err)
		}
	}
	if err := f.notes.MoveToTrash(ctx, a.ID); err != nil {
		t.Errorf("second MoveToTrash must succeed, got %v", err)
	}

	n, err := f.notes.Restore(ctx, []int64{a.ID, 12345})
	if err != nil || n != 1 {
		t.Fatalf("Restore = %d, %v", n, err)
	}
	n, err = f.notes.PurgeSelected(ctx, []int64{b.ID})
	if err != nil || n != 1 {
		t.Fatalf("PurgeSelected = %d, %v", n, err)
	}
	n, err = f.notes.PurgeAll(ctx)
	if err != nil || n != 1 {
		t.Fatalf("PurgeAll = %d, %v", n, err)
	}

	active, _ := f.store.CountNotes(ctx, db.AllScope())
	trashed, _ := f.store.CountNotes(ctx, db.TrashScope())
	if active != 1 || trashed != 0 {
		t.Errorf("active=%d trashed=%d", active, trashed)
	}
}

func TestNotebooksSaveAndDelete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if _, err := f.notebooks.Save(ctx, db.Notebook{Description: "   "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for blank name, got %v", err)
	}

	def, err := f.notebooks.Save(ctx, db.Notebook{Description: " Personal "})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if def.ID != db.DefaultNotebookID || def.Description != "Personal" {
		t.Errorf("unexpected notebook %+v", def)
	}
	work, _ := f.notebooks.Save(ctx, db.Notebook{Description: "Work"})

	work.Description = "Office"
	if _, err := f.notebooks.Save(ctx, work); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, _ := f.notebooks.Get(ctx, work.ID)
	if got.Description != "Office" {
		t.Errorf("rename not stored: %+v", got)
	}

	n, _ := f.notes.Create(ctx, NoteInput{Title: "Report", NotebookID: work.ID})
	moved, err := f.notebooks.Delete(ctx, work.ID)
	if err != nil || moved != 1 {
		t.Fatalf("Delete = %d, %v", moved, err)
	}
	stored, _ := f.notes.Get(ctx, n.ID)
	if stored.NotebookID != db.DefaultNotebookID {
		t.Errorf("note not reassigned: %+v", stored)
	}
	if _, err := f.notebooks.Delete(ctx, db.DefaultNotebookID); !errors.Is(err, db.ErrDefaultNotebook) {
		t.Errorf("expected ErrDefaultNotebook, got %v", err)
	}
}

func TestOperationsAreCounted(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created := counterValue(t, OperationsTotal.WithLabelValues("create"))
	invalid := counterValue(t, ErrorsTotal.WithLabelValues("create", "validation"))
	missing := counterValue(t, ErrorsTotal.WithLabelValues("copy", "not_found"))

	if _, err := f.notes.Create(ctx, NoteInput{Title: "counted"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.notes.Create(ctx, NoteInput{})
	f.notes.Copy(ctx, 999)

	if got := counterValue(t, OperationsTotal.WithLabelValues("create")); got != created+1 {
		t.Errorf("create counter = %v, want %v", got, created+1)
	}
	if got := counterValue(t, ErrorsTotal.WithLabelValues("create", "validation")); got != invalid+1 {
		t.Errorf("validation counter = %v, want %v", got, invalid+1)
	}
	if got := counterValue(t, ErrorsTotal.WithLabelValues("copy", "not_found")); got != missing+1 {
		t.Errorf("not found counter = %v, want %v", got, missing+1)
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}
