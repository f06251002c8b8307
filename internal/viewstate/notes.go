package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
)

type NoteSource interface {
	Scope() db.Scope
	StreamSorted(ctx context.Context, key db.SortKey) <-chan repository.Emission[[]db.Note]
}

// NoteCommands is the mutation surface the engine drives. *usecase.Notes
// implements it.
type NoteCommands interface {
	Create(ctx context.Context, in usecase.NoteInput) (db.Note, error)
	Edit(ctx context.Context, id int64, in usecase.NoteInput) error
	Copy(ctx context.Context, id int64) (db.Note, error)
	SetPinned(ctx context.Context, id int64, pinned bool) error
	SetFavorite(ctx context.Context, id int64, favorite bool) error
	MoveToTrash(ctx context.Context, id int64) error
	Restore(ctx context.Context, ids []int64) (int, error)
	PurgeSelected(ctx context.Context, ids []int64) (int, error)
	PurgeAll(ctx context.Context) (int, error)
}

type Options struct {
	Sort           db.SortKey
	UndoWindow     time.Duration
	MessageTimeout time.Duration
	Logger         *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Sort:           db.DefaultSort,
		UndoWindow:     5 * time.Second,
		MessageTimeout: 2 * time.Second,
	}
}

// Snapshot is an immutable view of a notes screen. Notes is the filtered,
// sorted list; Pinned and Unpinned partition it for display.
type Snapshot struct {
	State     State
	Scope     db.Scope
	Sort      db.SortKey
	Query     string
	Notes     []db.Note
	Pinned    []db.Note
	Unpinned  []db.Note
	Selection []int64
	Err       error
	Message   string
	CanUndo   bool
}

func (s Snapshot) IsSelected(id int64) bool {
	return containsID(s.Selection, id)
}

// Contextual reports whether a multi-selection is in progress.
func (s Snapshot) Contextual() bool {
	return len(s.Selection) > 0
}

// Ordered is the display order: pinned notes first.
func (s Snapshot) Ordered() []db.Note {
	out := make([]db.Note, 0, len(s.Pinned)+len(s.Unpinned))
	out = append(out, s.Pinned...)
	return append(out, s.Unpinned...)
}

func (s Snapshot) Note(id int64) (db.Note, bool) {
	for _, n := range s.Notes {
		if n.ID == id {
			return n, true
		}
	}
	return db.Note{}, false
}

// NotesEngine derives the display state of one notes screen from the
// repository stream and the screen's sort, search and selection.
type NotesEngine struct {
	core

	source NoteSource
	cmds   NoteCommands
	opts   Options

	sort  db.SortKey
	query string
	raw   []db.Note

	undo    []int64
	undoGen uint64

	snap    Snapshot
	updates chan Snapshot
}

func NewNotesEngine(source NoteSource, cmds NoteCommands, opts Options) *NotesEngine {
	defaults := DefaultOptions()
	if opts.UndoWindow <= 0 {
		opts.UndoWindow = defaults.UndoWindow
	}
	if opts.MessageTimeout <= 0 {
		opts.MessageTimeout = defaults.MessageTimeout
	}

	e := &NotesEngine{
		source:  source,
		cmds:    cmds,
		opts:    opts,
		sort:    opts.Sort,
		updates: make(chan Snapshot, 1),
	}
	e.init(opts.Logger, opts.MessageTimeout, e.publishLocked)
	e.snap = e.buildLocked()
	return e
}

// Updates delivers the latest snapshot. Unread snapshots are replaced, not
// queued.
func (e *NotesEngine) Updates() <-chan Snapshot {
	return e.updates
}

func (e *NotesEngine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// Attach subscribes to the repository. It is a no-op when already attached.
func (e *NotesEngine) Attach(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle {
		return
	}
	e.parent = ctx
	e.state = Loading
	e.subscribeLocked()
	e.publishLocked()
}

// Detach cancels the subscription and drops the view state. Emissions still
// in flight are discarded.
func (e *NotesEngine) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Idle {
		return
	}
	e.stop()
	e.sort = e.opts.Sort
	e.query = ""
	e.raw = nil
	e.undo = nil
	e.undoGen++
	e.publishLocked()
}

func (e *NotesEngine) subscribeLocked() {
	ctx, gen := e.restart()
	ch := e.source.StreamSorted(ctx, e.sort)
	go func() {
		for em := range ch {
			e.receive(gen, em)
		}
	}()
}

func (e *NotesEngine) receive(gen uint64, em repository.Emission[[]db.Note]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current(gen) {
		return
	}
	if em.Err != nil {
		e.err = em.Err
		e.log.Printf("notes %s: stream failed: %v", e.source.Scope(), em.Err)
	} else {
		e.raw = em.Value
		e.err = nil
		e.state = Ready
	}
	e.publishLocked()
}

// SetSort re-sorts the cached list at once and replaces the subscription
// with one ordered by key.
func (e *NotesEngine) SetSort(key db.SortKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if key == e.sort {
		return
	}
	e.sort = key
	e.raw = SortNotes(e.raw, key)
	if e.state != Idle {
		e.subscribeLocked()
	}
	e.publishLocked()
}

func (e *NotesEngine) SetSearchQuery(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = query
	e.publishLocked()
}

// SelectAll selects every note currently displayed.
func (e *NotesEngine) SelectAll() {
	e.update(func() {
		for _, n := range FilterNotes(e.raw, e.query) {
			e.selection[n.ID] = struct{}{}
		}
	})
}

func (e *NotesEngine) publishLocked() {
	e.snap = e.buildLocked()
	select {
	case <-e.updates:
	default:
	}
	e.updates <- e.snap
}

func (e *NotesEngine) buildLocked() Snapshot {
	notes := FilterNotes(e.raw, e.query)
	pinned, unpinned := Partition(notes)
	return Snapshot{
		State:     e.state,
		Scope:     e.source.Scope(),
		Sort:      e.sort,
		Query:     e.query,
		Notes:     notes,
		Pinned:    pinned,
		Unpinned:  unpinned,
		Selection: e.selection.ids(),
		Err:       e.err,
		Message:   e.message,
		CanUndo:   len(e.undo) > 0,
	}
}

// ContextMenu returns the actions for a displayed note.
func (e *NotesEngine) ContextMenu(id int64) ([]MenuItem, bool) {
	n, ok := e.Snapshot().Note(id)
	if !ok {
		return nil, false
	}
	return ContextMenu(n), true
}

// fail records err for the presentation layer. Validation failures become a
// transient message; anything else raises the error flag.
func (e *NotesEngine) fail(op string, err error) error {
	e.update(func() {
		var ve *usecase.ValidationError
		switch {
		case errors.As(err, &ve) && ve.Field == "note":
			e.flash(i18n.T().BlankNote)
		case errors.Is(err, usecase.ErrValidation):
			e.flash(err.Error())
		default:
			e.err = err
			e.log.Printf("notes %s: %s failed: %v", e.source.Scope(), op, err)
		}
	})
	return err
}

func (e *NotesEngine) lookup(id int64) (db.Note, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, n := range e.raw {
		if n.ID == id {
			return n, nil
		}
	}
	return db.Note{}, fmt.Errorf("note %d: %w", id, db.ErrNotFound)
}

// Save creates a note when id is zero and edits note id otherwise. It
// returns the id of the saved note.
func (e *NotesEngine) Save(ctx context.Context, id int64, in usecase.NoteInput) (int64, error) {
	if id == 0 {
		n, err := e.cmds.Create(ctx, in)
		if err != nil {
			return 0, e.fail("create", err)
		}
		return n.ID, nil
	}
	if err := e.cmds.Edit(ctx, id, in); err != nil {
		return 0, e.fail("edit", err)
	}
	return id, nil
}

func (e *NotesEngine) Copy(ctx context.Context, id int64) (db.Note, error) {
	n, err := e.cmds.Copy(ctx, id)
	if err != nil {
		return db.Note{}, e.fail("copy", err)
	}
	e.update(func() { e.flash(i18n.T().NoteCopied) })
	return n, nil
}

// MoveToNotebook files note id under nb, keeping everything else.
func (e *NotesEngine) MoveToNotebook(ctx context.Context, id int64, nb db.Notebook) error {
	n, err := e.lookup(id)
	if err != nil {
		return err
	}
	in := usecase.InputOf(n)
	in.NotebookID = nb.ID
	if err := e.cmds.Edit(ctx, id, in); err != nil {
		return e.fail("move", err)
	}
	e.update(func() { e.flash(fmt.Sprintf(i18n.T().NoteMoved, nb.Description)) })
	return nil
}

func (e *NotesEngine) TogglePin(ctx context.Context, id int64) error {
	n, err := e.lookup(id)
	if err != nil {
		return err
	}
	if err := e.cmds.SetPinned(ctx, id, !n.IsPinned); err != nil {
		return e.fail("pin", err)
	}
	return nil
}

func (e *NotesEngine) ToggleFavorite(ctx context.Context, id int64) error {
	n, err := e.lookup(id)
	if err != nil {
		return err
	}
	if err := e.cmds.SetFavorite(ctx, id, !n.IsFavorite); err != nil {
		return e.fail("favorite", err)
	}
	return nil
}

// MoveToTrash soft-deletes the note and keeps an undo token for the undo
// window.
func (e *NotesEngine) MoveToTrash(ctx context.Context, id int64) error {
	if err := e.cmds.MoveToTrash(ctx, id); err != nil {
		return e.fail("move to trash", err)
	}
	e.update(func() {
		delete(e.selection, id)
		e.undo = []int64{id}
		e.undoGen++
		gen := e.undoGen
		time.AfterFunc(e.opts.UndoWindow, func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			if e.undoGen != gen {
				return
			}
			e.undo = nil
			e.publishLocked()
		})
		e.flash(i18n.T().NoteTrashed)
	})
	return nil
}

// Undo restores the note most recently moved to the trash, if the undo
// window is still open. It reports whether anything was undone.
func (e *NotesEngine) Undo(ctx context.Context) (bool, error) {
	var ids []int64
	e.update(func() {
		ids = e.undo
		e.undo = nil
		e.undoGen++
	})
	if len(ids) == 0 {
		return false, nil
	}
	if _, err := e.cmds.Restore(ctx, ids); err != nil {
		return false, e.fail("undo", err)
	}
	return true, nil
}

// RestoreSelected restores the selected notes and clears the selection.
func (e *NotesEngine) RestoreSelected(ctx context.Context) (int, error) {
	ids := e.selected()
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := e.cmds.Restore(ctx, ids)
	if err != nil {
		return 0, e.fail("restore", err)
	}
	e.update(func() {
		e.selection = selection{}
		e.flash(fmt.Sprintf(i18n.T().NotesRestored, n))
	})
	return n, nil
}

// PurgeSelected deletes the selected notes for good.
func (e *NotesEngine) PurgeSelected(ctx context.Context) (int, error) {
	ids := e.selected()
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := e.cmds.PurgeSelected(ctx, ids)
	if err != nil {
		return 0, e.fail("purge", err)
	}
	e.update(func() {
		e.selection = selection{}
		e.flash(fmt.Sprintf(i18n.T().NotesPurged, n))
	})
	return n, nil
}

// PurgeAll empties the trash.
func (e *NotesEngine) PurgeAll(ctx context.Context) (int, error) {
	n, err := e.cmds.PurgeAll(ctx)
	if err != nil {
		return 0, e.fail("purge all", err)
	}
	e.update(func() {
		e.selection = selection{}
		e.flash(fmt.Sprintf(i18n.T().NotesPurged, n))
	})
	return n, nil
}

// Perform runs a context menu action on note id.
func (e *NotesEngine) Perform(ctx context.Context, id int64, action Action) error {
	switch action {
	case ActionCopy:
		_, err := e.Copy(ctx, id)
		return err
	case ActionFavorite, ActionUnfavorite:
		if err := e.cmds.SetFavorite(ctx, id, action == ActionFavorite); err != nil {
			return e.fail("favorite", err)
		}
	case ActionPin, ActionUnpin:
		if err := e.cmds.SetPinned(ctx, id, action == ActionPin); err != nil {
			return e.fail("pin", err)
		}
	case ActionMoveToTrash:
		return e.MoveToTrash(ctx, id)
	case ActionRestore:
		n, err := e.cmds.Restore(ctx, []int64{id})
		if err != nil {
			return e.fail("restore", err)
		}
		e.update(func() {
			delete(e.selection, id)
			e.flash(fmt.Sprintf(i18n.T().NotesRestored, n))
		})
	case ActionDeleteForever:
		n, err := e.cmds.PurgeSelected(ctx, []int64{id})
		if err != nil {
			return e.fail("purge", err)
		}
		e.update(func() {
			delete(e.selection, id)
			e.flash(fmt.Sprintf(i18n.T().NotesPurged, n))
		})
	default:
		return fmt.Errorf("unknown action %d", action)
	}
	return nil
}
