package viewstate

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
)

type fakeStream struct {
	key db.SortKey
	ch  chan repository.Emission[[]db.Note]
}

// fakeSource hands out one unbuffered channel per subscription so tests
// decide exactly when each emission happens.
type fakeSource struct {
	mu      sync.Mutex
	scope   db.Scope
	streams []fakeStream
}

func (f *fakeSource) Scope() db.Scope { return f.scope }

func (f *fakeSource) StreamSorted(ctx context.Context, key db.SortKey) <-chan repository.Emission[[]db.Note] {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := fakeStream{key: key, ch: make(chan repository.Emission[[]db.Note])}
	f.streams = append(f.streams, s)
	return s.ch
}

func (f *fakeSource) stream(t *testing.T, i int) fakeStream {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.streams) {
		t.Fatalf("subscription %d not opened, have %d", i, len(f.streams))
	}
	return f.streams[i]
}

func (f *fakeSource) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.streams)
}

// push delivers em and returns once the engine has finished applying it.
// The second send can only be taken after the first receive returned.
func push(t *testing.T, s fakeStream, em repository.Emission[[]db.Note]) {
	t.Helper()
	for i := 0; i < 2; i++ {
		select {
		case s.ch <- em:
		case <-time.After(2 * time.Second):
			t.Fatal("engine is not reading the stream")
		}
	}
}

func value(notes ...db.Note) repository.Emission[[]db.Note] {
	return repository.Emission[[]db.Note]{Value: notes}
}

type fakeCommands struct {
	mu       sync.Mutex
	err      error
	trashed  []int64
	restored []int64
	pinned   map[int64]bool
}

func (f *fakeCommands) Create(ctx context.Context, in usecase.NoteInput) (db.Note, error) {
	if f.err != nil {
		return db.Note{}, f.err
	}
	return db.Note{ID: 99, Title: in.Title}, nil
}

func (f *fakeCommands) Edit(ctx context.Context, id int64, in usecase.NoteInput) error {
	return f.err
}

func (f *fakeCommands) Copy(ctx context.Context, id int64) (db.Note, error) {
	return db.Note{ID: id + 100}, f.err
}

func (f *fakeCommands) SetPinned(ctx context.Context, id int64, pinned bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pinned == nil {
		f.pinned = map[int64]bool{}
	}
	f.pinned[id] = pinned
	return f.err
}

func (f *fakeCommands) SetFavorite(ctx context.Context, id int64, favorite bool) error {
	return f.err
}

func (f *fakeCommands) MoveToTrash(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trashed = append(f.trashed, id)
	return f.err
}

func (f *fakeCommands) Restore(ctx context.Context, ids []int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restored = append(f.restored, ids...)
	return len(ids), f.err
}

func (f *fakeCommands) PurgeSelected(ctx context.Context, ids []int64) (int, error) {
	return len(ids), f.err
}

func (f *fakeCommands) PurgeAll(ctx context.Context) (int, error) {
	return 3, f.err
}

func quietOptions() Options {
	opts := DefaultOptions()
	opts.Logger = log.New(io.Discard, "", 0)
	return opts
}

func newEngine(t *testing.T, opts Options) (*NotesEngine, *fakeSource, *fakeCommands) {
	t.Helper()
	src := &fakeSource{scope: db.AllScope()}
	cmds := &fakeCommands{}
	e := NewNotesEngine(src, cmds, opts)
	t.Cleanup(e.Detach)
	return e, src, cmds
}

func note(id int64, title string, pinned bool) db.Note {
	return db.Note{ID: id, Title: title, Content: "x", IsPinned: pinned, CreationDate: base.Add(time.Duration(id) * time.Hour)}
}

func TestEngineLifecycle(t *testing.T) {
	e, src, _ := newEngine(t, quietOptions())

	if got := e.Snapshot().State; got != Idle {
		t.Fatalf("new engine state = %s, want idle", got)
	}
	e.Attach(context.Background())
	if got := e.Snapshot().State; got != Loading {
		t.Fatalf("attached state = %s, want loading", got)
	}

	// Attaching twice keeps the single subscription.
	e.Attach(context.Background())
	if n := src.count(); n != 1 {
		t.Fatalf("got %d subscriptions, want 1", n)
	}

	push(t, src.stream(t, 0), value(note(1, "a", false)))
	snap := e.Snapshot()
	if snap.State != Ready || len(snap.Notes) != 1 {
		t.Fatalf("got state %s with %d notes, want ready with 1", snap.State, len(snap.Notes))
	}

	e.Detach()
	if got := e.Snapshot(); got.State != Idle || len(got.Notes) != 0 {
		t.Fatalf("detached snapshot kept state %s with %d notes", got.State, len(got.Notes))
	}
}

func TestPinnedPartition(t *testing.T) {
	e, src, _ := newEngine(t, quietOptions())
	e.Attach(context.Background())

	push(t, src.stream(t, 0), value(note(1, "A", false), note(2, "B", true)))

	snap := e.Snapshot()
	assertIDs(t, snap.Pinned, []int64{2})
	assertIDs(t, snap.Unpinned, []int64{1})
	assertIDs(t, snap.Ordered(), []int64{2, 1})
}

func TestStaleEmissionDroppedAfterSortChange(t *testing.T) {
	e, src, _ := newEngine(t, quietOptions())
	e.Attach(context.Background())
	push(t, src.stream(t, 0), value(note(1, "b", false), note(2, "a", false)))

	e.SetSort(db.SortAlphabetical)

	// The local resort is immediate.
	assertIDs(t, e.Snapshot().Notes, []int64{2, 1})
	if n := src.count(); n != 2 {
		t.Fatalf("got %d subscriptions, want 2", n)
	}
	if got := src.stream(t, 1).key; got != db.SortAlphabetical {
		t.Fatalf("new subscription sorted by %s", got)
	}

	// The retired subscription still delivers something; it must not land.
	push(t, src.stream(t, 0), value(note(7, "stale", false)))
	assertIDs(t, e.Snapshot().Notes, []int64{2, 1})

	push(t, src.stream(t, 1), value(note(2, "a", false), note(1, "b", false), note(3, "c", false)))
	assertIDs(t, e.Snapshot().Notes, []int64{2, 1, 3})
}

func TestNoEmissionAppliedAfterDetach(t *testing.T) {
	e, src, _ := newEngine(t, quietOptions())
	e.Attach(context.Background())
	s := src.stream(t, 0)
	push(t, s, value(note(1, "a", false)))

	e.Detach()
	push(t, s, value(note(1, "a", false), note(2, "b", false)))

	snap := e.Snapshot()
	if snap.State != Idle || len(snap.Notes) != 0 {
		t.Fatalf("emission applied after detach: state %s, %d notes", snap.State, len(snap.Notes))
	}
}

func TestStreamErrorKeepsLastSnapshot(t *testing.T) {
	e, src, _ := newEngine(t, quietOptions())
	e.Attach(context.Background())
	s := src.stream(t, 0)
	push(t, s, value(note(1, "a", false)))

	boom := errors.New("disk on fire")
	push(t, s, repository.Emission[[]db.Note]{Err: boom})

	snap := e.Snapshot()
	if !errors.Is(snap.Err, boom) {
		t.Fatalf("Err = %v, want %v", snap.Err, boom)
	}
	assertIDs(t, snap.Notes, []int64{1})

	push(t, s, value(note(1, "a", false), note(2, "b", false)))
	if snap := e.Snapshot(); snap.Err != nil || len(snap.Notes) != 2 {
		t.Fatalf("recovery: err %v, %d notes", snap.Err, len(snap.Notes))
	}
}

func TestSelectionIndependentOfSearch(t *testing.T) {
	e, src, _ := newEngine(t, quietOptions())
	e.Attach(context.Background())
	push(t, src.stream(t, 0), value(note(1, "apple", false), note(2, "banana", false)))

	e.Select(2)
	e.SetSearchQuery("app")

	snap := e.Snapshot()
	assertIDs(t, snap.Notes, []int64{1})
	if !snap.IsSelected(2) {
		t.Fatal("selection lost when the note was filtered out")
	}
	if !snap.Contextual() {
		t.Fatal("snapshot should be contextual with a selection")
	}

	e.SetSearchQuery("")
	e.SelectAll()
	if got := e.Snapshot().Selection; len(got) != 2 {
		t.Fatalf("SelectAll selected %v", got)
	}
	e.ToggleSelection(1)
	e.UnselectAll()
	if e.Snapshot().Contextual() {
		t.Fatal("UnselectAll left a selection")
	}
}

func TestContextMenuLabels(t *testing.T) {
	i18n.SetLanguage(i18n.English)
	tr := i18n.T()

	labels := func(items []MenuItem) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.Label
		}
		return out
	}
	equal := func(a, b []string) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
		return true
	}

	plain := labels(ContextMenu(db.Note{}))
	if want := []string{tr.MenuCopy, tr.MenuAddFavorite, tr.MenuPin, tr.MenuMoveToTrash}; !equal(plain, want) {
		t.Errorf("plain note menu = %v, want %v", plain, want)
	}
	flagged := labels(ContextMenu(db.Note{IsPinned: true, IsFavorite: true}))
	if want := []string{tr.MenuCopy, tr.MenuRemoveFavorite, tr.MenuUnpin, tr.MenuMoveToTrash}; !equal(flagged, want) {
		t.Errorf("pinned favorite menu = %v, want %v", flagged, want)
	}
	trashed := labels(ContextMenu(db.Note{IsDeleted: true}))
	if want := []string{tr.MenuRestore, tr.MenuDeleteForever}; !equal(trashed, want) {
		t.Errorf("trashed note menu = %v, want %v", trashed, want)
	}
}

func TestValidationBecomesMessage(t *testing.T) {
	i18n.SetLanguage(i18n.English)
	e, src, cmds := newEngine(t, quietOptions())
	e.Attach(context.Background())
	push(t, src.stream(t, 0), value())

	cmds.err = &usecase.ValidationError{Field: "note", Reason: "title and content are blank"}
	if _, err := e.Save(context.Background(), 0, usecase.NoteInput{}); !errors.Is(err, usecase.ErrValidation) {
		t.Fatalf("Save error = %v, want validation", err)
	}
	snap := e.Snapshot()
	if snap.Message != i18n.T().BlankNote {
		t.Fatalf("Message = %q, want %q", snap.Message, i18n.T().BlankNote)
	}
	if snap.Err != nil {
		t.Fatalf("validation raised the error flag: %v", snap.Err)
	}

	cmds.err = errors.New("locked")
	e.Save(context.Background(), 0, usecase.NoteInput{Title: "x"})
	if e.Snapshot().Err == nil {
		t.Fatal("store failure did not raise the error flag")
	}
}

func TestMessageClearsAfterTimeout(t *testing.T) {
	opts := quietOptions()
	opts.MessageTimeout = 20 * time.Millisecond
	e, src, _ := newEngine(t, opts)
	e.Attach(context.Background())
	push(t, src.stream(t, 0), value(note(1, "a", false)))

	if _, err := e.Copy(context.Background(), 1); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if e.Snapshot().Message == "" {
		t.Fatal("copy did not flash a message")
	}
	deadline := time.Now().Add(2 * time.Second)
	for e.Snapshot().Message != "" {
		if time.Now().After(deadline) {
			t.Fatal("message never cleared")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestUndoMoveToTrash(t *testing.T) {
	e, src, cmds := newEngine(t, quietOptions())
	ctx := context.Background()
	e.Attach(ctx)
	push(t, src.stream(t, 0), value(note(1, "a", false)))

	if err := e.MoveToTrash(ctx, 1); err != nil {
		t.Fatalf("MoveToTrash: %v", err)
	}
	if !e.Snapshot().CanUndo {
		t.Fatal("no undo offered after trashing")
	}
	undone, err := e.Undo(ctx)
	if err != nil || !undone {
		t.Fatalf("Undo = %v, %v", undone, err)
	}
	if len(cmds.restored) != 1 || cmds.restored[0] != 1 {
		t.Fatalf("restored %v, want [1]", cmds.restored)
	}
	if undone, _ := e.Undo(ctx); undone {
		t.Fatal("second undo restored again")
	}
}

func TestUndoWindowExpires(t *testing.T) {
	opts := quietOptions()
	opts.UndoWindow = 10 * time.Millisecond
	e, src, cmds := newEngine(t, opts)
	ctx := context.Background()
	e.Attach(ctx)
	push(t, src.stream(t, 0), value(note(1, "a", false)))

	e.MoveToTrash(ctx, 1)
	deadline := time.Now().Add(2 * time.Second)
	for e.Snapshot().CanUndo {
		if time.Now().After(deadline) {
			t.Fatal("undo never expired")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if undone, _ := e.Undo(ctx); undone {
		t.Fatal("undo ran after the window closed")
	}
	if len(cmds.restored) != 0 {
		t.Fatalf("restored %v after expiry", cmds.restored)
	}
}

func TestTogglePinUsesCurrentFlag(t *testing.T) {
	e, src, cmds := newEngine(t, quietOptions())
	ctx := context.Background()
	e.Attach(ctx)
	push(t, src.stream(t, 0), value(note(1, "a", true), note(2, "b", false)))

	e.TogglePin(ctx, 1)
	e.TogglePin(ctx, 2)
	if cmds.pinned[1] || !cmds.pinned[2] {
		t.Fatalf("pin writes = %v, want 1:false 2:true", cmds.pinned)
	}
	if err := e.TogglePin(ctx, 42); !errors.Is(err, db.ErrNotFound) {
		t.Fatalf("toggling an unknown note = %v, want ErrNotFound", err)
	}
}

func TestRestoreSelectedClearsSelection(t *testing.T) {
	i18n.SetLanguage(i18n.English)
	e, src, cmds := newEngine(t, quietOptions())
	ctx := context.Background()
	e.Attach(ctx)
	push(t, src.stream(t, 0), value(note(1, "a", false), note(2, "b", false)))

	e.Select(1)
	e.Select(2)
	n, err := e.RestoreSelected(ctx)
	if err != nil || n != 2 {
		t.Fatalf("RestoreSelected = %d, %v", n, err)
	}
	if len(cmds.restored) != 2 {
		t.Fatalf("restored %v", cmds.restored)
	}
	snap := e.Snapshot()
	if snap.Contextual() {
		t.Fatal("selection survived restore")
	}
	if snap.Message != "2 notes restored" {
		t.Fatalf("Message = %q", snap.Message)
	}
}

type fakeNotebooks struct {
	ch      chan repository.Emission[[]db.Notebook]
	deleted []int64
}

func (f *fakeNotebooks) Stream(ctx context.Context) <-chan repository.Emission[[]db.Notebook] {
	return f.ch
}

func (f *fakeNotebooks) Save(ctx context.Context, nb db.Notebook) (db.Notebook, error) {
	if nb.Description == "" {
		return db.Notebook{}, &usecase.ValidationError{Field: "name", Reason: "blank"}
	}
	return nb, nil
}

func (f *fakeNotebooks) Delete(ctx context.Context, id int64) (int, error) {
	if id == db.DefaultNotebookID {
		return 0, db.ErrDefaultNotebook
	}
	f.deleted = append(f.deleted, id)
	return 2, nil
}

func TestNotebooksEngine(t *testing.T) {
	i18n.SetLanguage(i18n.English)
	fake := &fakeNotebooks{ch: make(chan repository.Emission[[]db.Notebook])}
	e := NewNotebooksEngine(fake, fake, log.New(io.Discard, "", 0), time.Second)
	defer e.Detach()
	ctx := context.Background()
	e.Attach(ctx)

	em := repository.Emission[[]db.Notebook]{Value: []db.Notebook{
		{ID: 1, Description: "Notes"}, {ID: 2, Description: "work"}, {ID: 3, Description: "Art"},
	}}
	for i := 0; i < 2; i++ {
		fake.ch <- em
	}

	ids := func() []int64 {
		var out []int64
		for _, nb := range e.Snapshot().Notebooks {
			out = append(out, nb.ID)
		}
		return out
	}
	want := func(exp ...int64) {
		t.Helper()
		got := ids()
		if len(got) != len(exp) {
			t.Fatalf("notebooks %v, want %v", got, exp)
		}
		for i := range got {
			if got[i] != exp[i] {
				t.Fatalf("notebooks %v, want %v", got, exp)
			}
		}
	}

	want(3, 2, 1)
	e.SetOrder(NotebookOrder{Property: ByName, Order: db.Ascending})
	want(3, 1, 2)
	e.SetSearchQuery("wo")
	want(2)
	e.SetSearchQuery("")

	if _, err := e.Save(ctx, db.Notebook{}); err == nil {
		t.Fatal("blank notebook saved")
	}
	if got := e.Snapshot().Message; got != i18n.T().NotebookNeeded {
		t.Fatalf("Message = %q", got)
	}

	e.Select(db.DefaultNotebookID)
	e.Select(2)
	e.Select(3)
	if err := e.DeleteSelected(ctx); err != nil {
		t.Fatalf("DeleteSelected: %v", err)
	}
	snap := e.Snapshot()
	if len(fake.deleted) != 2 || fake.deleted[0] != 2 || fake.deleted[1] != 3 || len(snap.Selection) != 0 {
		t.Fatalf("deleted %v, selection %v", fake.deleted, snap.Selection)
	}
	if snap.Message != i18n.T().DefaultKept || snap.Err != nil {
		t.Fatalf("Message = %q, Err = %v", snap.Message, snap.Err)
	}

	if err := e.Delete(ctx, db.DefaultNotebookID); !errors.Is(err, db.ErrDefaultNotebook) {
		t.Fatalf("deleting the default notebook = %v", err)
	}
	if snap := e.Snapshot(); snap.Err != nil || snap.Message != i18n.T().DefaultKept {
		t.Fatalf("default notebook rejection: Err = %v, Message = %q", snap.Err, snap.Message)
	}
}
