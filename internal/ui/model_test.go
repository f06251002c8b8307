package ui

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/nzaccagnino/jotaku-notes/internal/viewstate"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "notes.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		store.Close()
	})

	opts := viewstate.DefaultOptions()
	opts.Logger = log.New(io.Discard, "", 0)
	opts.UndoWindow = time.Minute

	m := NewModel(ctx, LocalBackend(store), opts)
	m.Init()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return settle(t, next.(Model), func(s viewstate.Snapshot) bool { return s.State == viewstate.Ready })
}

// settle reads the engine's snapshots until ok accepts one and feeds it to
// the model.
func settle(t *testing.T, m Model, ok func(viewstate.Snapshot) bool) Model {
	t.Helper()
	deadline := time.After(2 * time.Second)
	snap := m.notes.Snapshot()
	for !ok(snap) {
		select {
		case snap = <-m.notes.Updates():
		case <-deadline:
			t.Fatalf("snapshot never settled, last: %+v", snap)
		}
	}
	next, _ := m.Update(notesSnapshotMsg{engine: m.notes, snap: snap})
	return next.(Model)
}

// settleNotebooks is settle for the notebooks screen.
func settleNotebooks(t *testing.T, m Model, ok func(viewstate.NotebookSnapshot) bool) Model {
	t.Helper()
	deadline := time.After(2 * time.Second)
	snap := m.notebooks.Snapshot()
	for !ok(snap) {
		select {
		case snap = <-m.notebooks.Updates():
		case <-deadline:
			t.Fatalf("notebooks never settled, last: %+v", snap)
		}
	}
	next, _ := m.Update(notebooksSnapshotMsg{engine: m.notebooks, snap: snap})
	return next.(Model)
}

func addNotebook(t *testing.T, m Model, name string) db.Notebook {
	t.Helper()
	nb, err := m.backend.NotebookCommands.Save(context.Background(), db.Notebook{Description: name})
	if err != nil {
		t.Fatalf("Save notebook %q: %v", name, err)
	}
	return nb
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, k string) (Model, tea.Cmd) {
	next, cmd := m.Update(keyMsg(k))
	return next.(Model), cmd
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = press(m, string(r))
	}
	return m
}

// mustRun executes an action command in place of the runtime.
func mustRun(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(actionDoneMsg); !ok {
		t.Fatal("expected an action command")
	}
}

func addNote(t *testing.T, m Model, title string) Model {
	t.Helper()
	want := len(m.snap.Notes) + 1
	m, _ = press(m, "n")
	if m.mode != ModeNewNote {
		t.Fatalf("mode = %v, want new note", m.mode)
	}
	m = typeText(m, title)
	m, cmd := press(m, "enter")
	mustRun(t, cmd)
	return settle(t, m, func(s viewstate.Snapshot) bool { return len(s.Notes) == want })
}

func TestCreateAndEditNote(t *testing.T) {
	m := newTestModel(t)
	m = addNote(t, m, "Groceries")

	note, ok := m.currentNote()
	if !ok || note.Title != "Groceries" {
		t.Fatalf("current note = %+v, %v", note, ok)
	}

	m, _ = press(m, "i")
	if m.mode != ModeEditing {
		t.Fatalf("mode = %v, want editing", m.mode)
	}
	m = typeText(m, "milk")
	m, cmd := press(m, "esc")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v after esc", m.mode)
	}
	mustRun(t, cmd)

	m = settle(t, m, func(s viewstate.Snapshot) bool {
		return len(s.Notes) == 1 && s.Notes[0].Content == "milk"
	})
	if !strings.Contains(m.View(), "Groceries") {
		t.Error("view does not show the note title")
	}
}

func TestBlankTitleIsDiscarded(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "n")
	m, cmd := press(m, "enter")
	mustRun(t, cmd)

	m = settle(t, m, func(s viewstate.Snapshot) bool { return s.Message != "" })
	if len(m.snap.Notes) != 0 {
		t.Fatalf("notes = %d, want none", len(m.snap.Notes))
	}
}

func TestTrashAndUndo(t *testing.T) {
	m := newTestModel(t)
	m = addNote(t, m, "Draft")

	m, cmd := press(m, "d")
	mustRun(t, cmd)
	m = settle(t, m, func(s viewstate.Snapshot) bool { return len(s.Notes) == 0 && s.CanUndo })

	m, cmd = press(m, "u")
	mustRun(t, cmd)
	settle(t, m, func(s viewstate.Snapshot) bool { return len(s.Notes) == 1 && !s.CanUndo })
}

func TestEmptyTrashAsksFirst(t *testing.T) {
	m := newTestModel(t)
	m = addNote(t, m, "Old")
	m, cmd := press(m, "d")
	mustRun(t, cmd)
	m = settle(t, m, func(s viewstate.Snapshot) bool { return len(s.Notes) == 0 })

	m, _ = press(m, "3")
	if !m.scope.IsTrash() {
		t.Fatalf("scope = %v, want trash", m.scope)
	}
	m = settle(t, m, func(s viewstate.Snapshot) bool { return s.State == viewstate.Ready && len(s.Notes) == 1 })

	m, _ = press(m, "E")
	if m.mode != ModeConfirm || m.confirm != confirmEmptyTrash {
		t.Fatalf("mode = %v, confirm = %v", m.mode, m.confirm)
	}
	m, _ = press(m, "n")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v after cancel", m.mode)
	}

	m, _ = press(m, "d")
	if m.mode != ModeConfirm || len(m.snap.Selection) != 1 {
		t.Fatalf("mode = %v, selection = %v", m.mode, m.snap.Selection)
	}
	m, _ = press(m, "esc")
	if m.mode != ModeNormal || len(m.snap.Selection) != 0 || m.snap.Contextual() {
		t.Fatalf("cancel left mode = %v, selection = %v", m.mode, m.snap.Selection)
	}

	m, _ = press(m, "d")
	if m.mode != ModeConfirm || len(m.snap.Selection) != 1 {
		t.Fatalf("mode = %v, selection = %v", m.mode, m.snap.Selection)
	}
	m, cmd = press(m, "y")
	mustRun(t, cmd)
	settle(t, m, func(s viewstate.Snapshot) bool { return len(s.Notes) == 0 })
}

func TestContextMenuPins(t *testing.T) {
	m := newTestModel(t)
	m = addNote(t, m, "Important")

	m, _ = press(m, "m")
	if m.mode != ModeMenu {
		t.Fatalf("mode = %v, want menu", m.mode)
	}
	idx := -1
	for i, item := range m.menu {
		if item.Action == viewstate.ActionPin {
			idx = i
		}
	}
	if idx < 0 {
		t.Fatalf("menu %+v has no pin action", m.menu)
	}
	for i := 0; i < idx; i++ {
		m, _ = press(m, "j")
	}
	m, cmd := press(m, "enter")
	mustRun(t, cmd)

	m = settle(t, m, func(s viewstate.Snapshot) bool { return len(s.Pinned) == 1 })
	if !strings.Contains(m.View(), "PINNED") {
		t.Error("view has no pinned section")
	}
}

func TestSortAndSearchKeys(t *testing.T) {
	m := newTestModel(t)
	m = addNote(t, m, "apple")
	m = addNote(t, m, "banana")

	m, _ = press(m, "s")
	if want := db.DefaultSort.Next(); m.snap.Sort != want {
		t.Fatalf("sort = %v, want %v", m.snap.Sort, want)
	}

	m, _ = press(m, "/")
	if m.mode != ModeSearch {
		t.Fatalf("mode = %v, want search", m.mode)
	}
	m = typeText(m, "BA")
	if m.snap.Query != "BA" || len(m.snap.Notes) != 1 || m.snap.Notes[0].Title != "banana" {
		t.Fatalf("query %q matched %+v", m.snap.Query, m.snap.Notes)
	}

	m, _ = press(m, "esc")
	if m.snap.Query != "" || len(m.snap.Notes) != 2 {
		t.Fatalf("query %q left %d notes", m.snap.Query, len(m.snap.Notes))
	}
}

func TestSelectionKeys(t *testing.T) {
	m := newTestModel(t)
	m = addNote(t, m, "one")
	m = addNote(t, m, "two")

	m, _ = press(m, " ")
	if len(m.snap.Selection) != 1 {
		t.Fatalf("selection = %v", m.snap.Selection)
	}
	m, _ = press(m, "a")
	if len(m.snap.Selection) != 2 {
		t.Fatalf("selection = %v", m.snap.Selection)
	}
	m, _ = press(m, "esc")
	if m.snap.Contextual() {
		t.Fatalf("selection = %v after esc", m.snap.Selection)
	}
}

func TestSwitchingScopeIgnoresOldEngine(t *testing.T) {
	m := newTestModel(t)
	old := m.notes

	m, _ = press(m, "2")
	if m.notes == old || m.scope.Kind != db.ScopeFavorites {
		t.Fatal("favorites did not get a fresh engine")
	}

	next, cmd := m.Update(notesSnapshotMsg{engine: old, snap: viewstate.Snapshot{Notes: []db.Note{{ID: 9}}}})
	if cmd != nil {
		t.Error("stale snapshot re-armed a wait")
	}
	if got := next.(Model); len(got.snap.Notes) != 0 {
		t.Errorf("stale snapshot applied: %+v", got.snap.Notes)
	}
}

func TestNotebooksScreenKeys(t *testing.T) {
	m := newTestModel(t)

	m, _ = press(m, "4")
	if m.screen != ScreenNotebooks || m.notebooks == nil || m.notes != nil {
		t.Fatalf("screen = %v", m.screen)
	}

	m, _ = press(m, "n")
	if m.mode != ModeNotebookName || m.target != 0 {
		t.Fatalf("mode = %v, target = %d", m.mode, m.target)
	}
	m, _ = press(m, "esc")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v", m.mode)
	}

	m, _ = press(m, "esc")
	if m.screen != ScreenNotes || m.scope.Kind != db.ScopeAll {
		t.Fatalf("esc on notebooks went to %v %v", m.screen, m.scope)
	}
}

func TestCancelledNotebookDeleteKeepsSelectionEmpty(t *testing.T) {
	m := newTestModel(t)
	addNotebook(t, m, "Inbox")
	addNotebook(t, m, "Work")

	m, _ = press(m, "4")
	m = settleNotebooks(t, m, func(s viewstate.NotebookSnapshot) bool {
		return s.State == viewstate.Ready && len(s.Notebooks) == 2
	})

	m, _ = press(m, "d")
	if m.mode != ModeConfirm || len(m.nbSnap.Selection) != 1 {
		t.Fatalf("mode = %v, selection = %v", m.mode, m.nbSnap.Selection)
	}
	m, _ = press(m, "n")
	if m.mode != ModeNormal || len(m.nbSnap.Selection) != 0 {
		t.Fatalf("cancel left mode = %v, selection = %v", m.mode, m.nbSnap.Selection)
	}

	// An explicit selection survives a cancelled dialog.
	m, _ = press(m, " ")
	m, _ = press(m, "d")
	m, _ = press(m, "n")
	if len(m.nbSnap.Selection) != 1 {
		t.Fatalf("explicit selection lost: %v", m.nbSnap.Selection)
	}
}

func TestMoveNoteToNotebook(t *testing.T) {
	m := newTestModel(t)
	addNotebook(t, m, "Inbox")
	work := addNotebook(t, m, "Work")
	m = addNote(t, m, "Report")

	m, cmd := press(m, "b")
	if cmd == nil {
		t.Fatal("expected the notebook list to load")
	}
	next, _ := m.Update(cmd())
	m = next.(Model)
	if m.mode != ModeMoveNote || len(m.destinations) != 2 || m.menuCursor != 0 {
		t.Fatalf("mode = %v, destinations = %v, cursor = %d", m.mode, m.destinations, m.menuCursor)
	}
	if view := m.View(); !strings.Contains(view, "Work") {
		t.Fatalf("picker does not list the notebooks:\n%s", view)
	}

	m, _ = press(m, "j")
	m, cmd = press(m, "enter")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v after enter", m.mode)
	}
	mustRun(t, cmd)
	m = settle(t, m, func(s viewstate.Snapshot) bool {
		return len(s.Notes) == 1 && s.Notes[0].NotebookID == work.ID
	})
	if note, _ := m.currentNote(); note.Title != "Report" {
		t.Fatalf("move changed the note: %+v", note)
	}

	m, cmd = press(m, "b")
	next, _ = m.Update(cmd())
	m, _ = press(next.(Model), "esc")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v after esc", m.mode)
	}
}

func TestViewLabels(t *testing.T) {
	m := newTestModel(t)
	m = addNote(t, m, "Alpha")
	tr := i18n.T()

	view := m.View()
	if !strings.Contains(view, NoteIcon+" Alpha") || !strings.Contains(view, tr.KeyViews) {
		t.Fatalf("view is missing the note title or the view hint:\n%s", view)
	}

	m.notes.SetSearchQuery("al")
	m = settle(t, m, func(s viewstate.Snapshot) bool { return s.Query == "al" })
	if view := m.View(); !strings.Contains(view, tr.ModeSearch) {
		t.Fatalf("status does not show search mode:\n%s", view)
	}

	m, _ = press(m, "?")
	if help := m.View(); !strings.Contains(help, tr.MenuMove) {
		t.Fatalf("help does not list the move key:\n%s", help)
	}
}

func TestHelpToggles(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "?")
	if m.mode != ModeHelp {
		t.Fatalf("mode = %v", m.mode)
	}
	m, _ = press(m, "?")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %v", m.mode)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"a longer title", 8, "a lon..."},
		{"città di mare", 6, "cit..."},
		{"abc", 2, "ab"},
		{"abc", -1, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
