package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
	"github.com/nzaccagnino/jotaku-notes/internal/viewstate"
)

type Screen int

const (
	ScreenNotes Screen = iota
	ScreenNotebooks
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
	ModeSearch
	ModeNewNote
	ModeRename
	ModeMenu
	ModeConfirm
	ModeHelp
	ModeNotebookName
	ModeMoveNote
)

type confirmKind int

const (
	confirmPurgeSelected confirmKind = iota
	confirmEmptyTrash
	confirmDeleteNotebooks
)

// Model is a thin binding over the view-state engines: it forwards keys to
// them and renders their snapshots. One notes engine is attached at a time,
// for the scope on screen.
type Model struct {
	ctx     context.Context
	backend Backend
	opts    viewstate.Options

	screen Screen
	scope  db.Scope
	notes  *viewstate.NotesEngine
	snap   viewstate.Snapshot

	notebooks *viewstate.NotebooksEngine
	nbSnap    viewstate.NotebookSnapshot
	shortcuts []db.Notebook

	cursor int
	mode   Mode

	menu       []viewstate.MenuItem
	menuCursor int
	menuTarget int64
	// destinations are the notebooks offered by the move picker, which
	// shares the menu cursor and target.
	destinations []db.Notebook

	confirm confirmKind
	// picked is the row selected on the user's behalf when a confirm dialog
	// opened without a selection. Cancelling unselects it.
	picked int64
	// target is the note being edited or renamed, or the notebook being
	// renamed. Zero means a new notebook.
	target int64

	textarea  textarea.Model
	textinput textinput.Model

	width  int
	height int

	keys KeyMap

	err error
}

type notesSnapshotMsg struct {
	engine *viewstate.NotesEngine
	snap   viewstate.Snapshot
}

type notebooksSnapshotMsg struct {
	engine *viewstate.NotebooksEngine
	snap   viewstate.NotebookSnapshot
}

type shortcutsLoadedMsg []db.Notebook

type destinationsMsg struct {
	note      int64
	notebooks []db.Notebook
}
type errMsg error

// actionDoneMsg ends a command. Failures surface through the next snapshot.
type actionDoneMsg struct{}

func NewModel(ctx context.Context, backend Backend, opts viewstate.Options) Model {
	t := i18n.T()

	ti := textinput.New()
	ti.Placeholder = t.TitlePlaceholder
	ti.CharLimit = 256

	ta := textarea.New()
	ta.Placeholder = t.NotePlaceholder
	ta.ShowLineNumbers = false

	scope := db.AllScope()
	return Model{
		ctx:       ctx,
		backend:   backend,
		opts:      opts,
		scope:     scope,
		notes:     viewstate.NewNotesEngine(backend.Notes(scope), backend.NoteCommands, opts),
		keys:      NewKeyMap(),
		textinput: ti,
		textarea:  ta,
	}
}

func (m Model) Init() tea.Cmd {
	m.notes.Attach(m.ctx)
	return tea.Batch(waitNotes(m.notes), m.loadShortcuts())
}

// Close detaches whichever engine is on screen.
func (m Model) Close() {
	if m.notes != nil {
		m.notes.Detach()
	}
	if m.notebooks != nil {
		m.notebooks.Detach()
	}
}

func waitNotes(e *viewstate.NotesEngine) tea.Cmd {
	return func() tea.Msg {
		return notesSnapshotMsg{engine: e, snap: <-e.Updates()}
	}
}

func waitNotebooks(e *viewstate.NotebooksEngine) tea.Cmd {
	return func() tea.Msg {
		return notebooksSnapshotMsg{engine: e, snap: <-e.Updates()}
	}
}

func (m Model) loadShortcuts() tea.Cmd {
	if m.backend.Shortcuts == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		nbs, err := m.backend.Shortcuts(ctx)
		if err != nil {
			return errMsg(err)
		}
		return shortcutsLoadedMsg(nbs)
	}
}

// run performs fn off the update loop.
func (m Model) run(fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		fn(ctx)
		return actionDoneMsg{}
	}
}

func (m Model) openScope(scope db.Scope) (Model, tea.Cmd) {
	m.Close()
	m.notebooks = nil
	m.screen = ScreenNotes
	m.scope = scope
	m.notes = viewstate.NewNotesEngine(m.backend.Notes(scope), m.backend.NoteCommands, m.opts)
	m.notes.Attach(m.ctx)
	m.snap = m.notes.Snapshot()
	m.cursor = 0
	m.mode = ModeNormal
	return m, tea.Batch(waitNotes(m.notes), m.loadShortcuts())
}

func (m Model) openNotebooks() (Model, tea.Cmd) {
	if m.backend.Notebooks == nil {
		return m, nil
	}
	m.Close()
	m.notes = nil
	m.screen = ScreenNotebooks
	m.notebooks = viewstate.NewNotebooksEngine(m.backend.Notebooks, m.backend.NotebookCommands, m.opts.Logger, m.opts.MessageTimeout)
	m.notebooks.Attach(m.ctx)
	m.nbSnap = m.notebooks.Snapshot()
	m.cursor = 0
	m.mode = ModeNormal
	return m, waitNotebooks(m.notebooks)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textarea.SetWidth(m.contentWidth() - 4)
		m.textarea.SetHeight(m.contentHeight() - 2)

	case notesSnapshotMsg:
		if msg.engine != m.notes {
			return m, nil
		}
		m.snap = msg.snap
		m.clampCursor(len(m.snap.Notes))
		return m, waitNotes(m.notes)

	case notebooksSnapshotMsg:
		if msg.engine != m.notebooks {
			return m, nil
		}
		m.nbSnap = msg.snap
		m.clampCursor(len(m.nbSnap.Notebooks))
		return m, waitNotebooks(m.notebooks)

	case shortcutsLoadedMsg:
		m.shortcuts = msg

	case destinationsMsg:
		if m.mode != ModeNormal || m.screen != ScreenNotes {
			return m, nil
		}
		m.mode = ModeMoveNote
		m.destinations = msg.notebooks
		m.menuTarget = msg.note
		m.menuCursor = 0
		if note, ok := m.snap.Note(msg.note); ok {
			for i, nb := range msg.notebooks {
				if nb.ID == note.NotebookID {
					m.menuCursor = i
				}
			}
		}

	case errMsg:
		m.err = msg

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.Close()
			return m, tea.Quit
		}
		switch m.mode {
		case ModeEditing:
			return m.handleEditingKeys(msg)
		case ModeSearch:
			return m.handleSearchKeys(msg)
		case ModeNewNote, ModeRename, ModeNotebookName:
			return m.handleInputKeys(msg)
		case ModeMenu:
			return m.handleMenuKeys(msg)
		case ModeMoveNote:
			return m.handleMoveKeys(msg)
		case ModeConfirm:
			return m.handleConfirmKeys(msg)
		case ModeHelp:
			if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Help) {
				m.mode = ModeNormal
			}
			return m, nil
		}
		if m.screen == ScreenNotebooks {
			return m.handleNotebooksKeys(msg)
		}
		return m.handleNotesKeys(msg)
	}

	return m, nil
}

func (m *Model) clampCursor(n int) {
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *Model) moveCursor(delta, n int) {
	m.cursor = min(max(m.cursor+delta, 0), max(n-1, 0))
}

func (m Model) currentNote() (db.Note, bool) {
	notes := m.snap.Ordered()
	if m.cursor >= 0 && m.cursor < len(notes) {
		return notes[m.cursor], true
	}
	return db.Note{}, false
}

func (m Model) currentNotebook() (db.Notebook, bool) {
	if m.cursor >= 0 && m.cursor < len(m.nbSnap.Notebooks) {
		return m.nbSnap.Notebooks[m.cursor], true
	}
	return db.Notebook{}, false
}

// handleViewKeys switches screens. It reports whether msg was one of the
// view keys.
func (m Model) handleViewKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Home):
		m, cmd := m.openScope(db.AllScope())
		return m, cmd, true
	case key.Matches(msg, m.keys.Favorites):
		m, cmd := m.openScope(db.FavoritesScope())
		return m, cmd, true
	case key.Matches(msg, m.keys.Trash):
		m, cmd := m.openScope(db.TrashScope())
		return m, cmd, true
	case key.Matches(msg, m.keys.Notebooks):
		m, cmd := m.openNotebooks()
		return m, cmd, true
	case key.Matches(msg, m.keys.Shortcut):
		i := int(msg.String()[0] - '5')
		if i < len(m.shortcuts) {
			m, cmd := m.openScope(db.NotebookScope(m.shortcuts[i].ID))
			return m, cmd, true
		}
		return m, nil, true
	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) handleNotesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m, cmd, ok := m.handleViewKeys(msg); ok {
		return m, cmd
	}

	e := m.notes
	trash := m.scope.IsTrash()
	note, hasNote := m.currentNote()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(m.snap.Notes))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(m.snap.Notes))

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Edit):
		if hasNote && !trash {
			m.mode = ModeEditing
			m.target = note.ID
			m.textarea.SetValue(note.Content)
			m.textarea.Focus()
		}
	case key.Matches(msg, m.keys.Rename):
		if hasNote && !trash {
			m.mode = ModeRename
			m.target = note.ID
			m.textinput.SetValue(note.Title)
			m.textinput.Placeholder = i18n.T().TitlePlaceholder
			m.textinput.Focus()
		}
	case key.Matches(msg, m.keys.Color):
		if hasNote && !trash {
			in := usecase.InputOf(note)
			in.Color = (note.Color + 1) % len(db.Palette)
			return m, m.run(func(ctx context.Context) error {
				_, err := e.Save(ctx, note.ID, in)
				return err
			})
		}
	case key.Matches(msg, m.keys.New):
		if !trash {
			m.mode = ModeNewNote
			m.textinput.SetValue("")
			m.textinput.Placeholder = i18n.T().TitlePlaceholder
			m.textinput.Focus()
		}
	case key.Matches(msg, m.keys.Move):
		if hasNote && !trash {
			return m, m.loadDestinations(note.ID)
		}
	case key.Matches(msg, m.keys.Menu):
		if hasNote {
			if items, ok := e.ContextMenu(note.ID); ok {
				m.mode = ModeMenu
				m.menu = items
				m.menuCursor = 0
				m.menuTarget = note.ID
			}
		}

	case key.Matches(msg, m.keys.Select):
		if hasNote {
			e.ToggleSelection(note.ID)
		}
	case key.Matches(msg, m.keys.SelectAll):
		e.SelectAll()
	case key.Matches(msg, m.keys.Escape):
		if m.snap.Contextual() {
			e.UnselectAll()
		} else if m.snap.Query != "" {
			e.SetSearchQuery("")
		}
	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.textinput.SetValue(m.snap.Query)
		m.textinput.Placeholder = i18n.T().Search + "..."
		m.textinput.Focus()
	case key.Matches(msg, m.keys.Sort):
		e.SetSort(m.snap.Sort.Next())

	case key.Matches(msg, m.keys.Undo):
		if !trash {
			return m, m.run(func(ctx context.Context) error {
				_, err := e.Undo(ctx)
				return err
			})
		}
	case key.Matches(msg, m.keys.Delete):
		if !hasNote {
			break
		}
		if !trash {
			return m, m.run(func(ctx context.Context) error { return e.MoveToTrash(ctx, note.ID) })
		}
		m.picked = 0
		if !m.snap.Contextual() {
			e.Select(note.ID)
			m.picked = note.ID
		}
		m.mode = ModeConfirm
		m.confirm = confirmPurgeSelected
	case key.Matches(msg, m.keys.Restore):
		if !trash || !hasNote {
			break
		}
		if m.snap.Contextual() {
			return m, m.run(func(ctx context.Context) error {
				_, err := e.RestoreSelected(ctx)
				return err
			})
		}
		return m, m.run(func(ctx context.Context) error { return e.Perform(ctx, note.ID, viewstate.ActionRestore) })
	case key.Matches(msg, m.keys.Empty):
		if trash && len(m.snap.Notes) > 0 {
			m.mode = ModeConfirm
			m.confirm = confirmEmptyTrash
		}
	}

	m.snap = e.Snapshot()
	return m, nil
}

func (m Model) handleNotebooksKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m, cmd, ok := m.handleViewKeys(msg); ok {
		return m, cmd
	}

	e := m.notebooks
	nb, hasNotebook := m.currentNotebook()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, len(m.nbSnap.Notebooks))
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, len(m.nbSnap.Notebooks))
	case key.Matches(msg, m.keys.Enter):
		if hasNotebook {
			return m.openScope(db.NotebookScope(nb.ID))
		}
	case key.Matches(msg, m.keys.New):
		m.mode = ModeNotebookName
		m.target = 0
		m.textinput.SetValue("")
		m.textinput.Placeholder = i18n.T().NotebookPlaceholder
		m.textinput.Focus()
	case key.Matches(msg, m.keys.Rename):
		if hasNotebook {
			m.mode = ModeNotebookName
			m.target = nb.ID
			m.textinput.SetValue(nb.Description)
			m.textinput.Placeholder = i18n.T().NotebookPlaceholder
			m.textinput.Focus()
		}
	case key.Matches(msg, m.keys.Select):
		if hasNotebook {
			e.ToggleSelection(nb.ID)
		}
	case key.Matches(msg, m.keys.Delete):
		if !hasNotebook {
			break
		}
		m.picked = 0
		if len(m.nbSnap.Selection) == 0 {
			e.Select(nb.ID)
			m.picked = nb.ID
		}
		m.mode = ModeConfirm
		m.confirm = confirmDeleteNotebooks
	case key.Matches(msg, m.keys.Sort):
		e.SetOrder(m.nbSnap.Order.Next())
	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.textinput.SetValue(m.nbSnap.Query)
		m.textinput.Placeholder = i18n.T().Search + "..."
		m.textinput.Focus()
	case key.Matches(msg, m.keys.Escape):
		switch {
		case len(m.nbSnap.Selection) > 0:
			e.UnselectAll()
		case m.nbSnap.Query != "":
			e.SetSearchQuery("")
		default:
			return m.openScope(db.AllScope())
		}
	}

	m.nbSnap = e.Snapshot()
	return m, nil
}

func (m Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.textarea.Blur()
		return m, m.saveContent()
	case key.Matches(msg, m.keys.Save):
		return m, m.saveContent()
	default:
		m.textarea, cmd = m.textarea.Update(msg)
	}

	return m, cmd
}

// saveContent writes the editor back to the note being edited, if it
// changed.
func (m Model) saveContent() tea.Cmd {
	note, ok := m.snap.Note(m.target)
	content := m.textarea.Value()
	if !ok || note.Content == content {
		return nil
	}
	in := usecase.InputOf(note)
	in.Content = content
	e, id := m.notes, note.ID
	return m.run(func(ctx context.Context) error {
		_, err := e.Save(ctx, id, in)
		return err
	})
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.textinput.Blur()
		m.setQuery("")
	case key.Matches(msg, m.keys.Enter):
		m.mode = ModeNormal
		m.textinput.Blur()
	default:
		m.textinput, cmd = m.textinput.Update(msg)
		m.setQuery(m.textinput.Value())
	}

	return m, cmd
}

func (m *Model) setQuery(q string) {
	m.cursor = 0
	if m.screen == ScreenNotebooks {
		m.notebooks.SetSearchQuery(q)
		m.nbSnap = m.notebooks.Snapshot()
		return
	}
	m.notes.SetSearchQuery(q)
	m.snap = m.notes.Snapshot()
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, m.keys.Escape):
		m.mode = ModeNormal
		m.textinput.Blur()
	case key.Matches(msg, m.keys.Enter):
		value := m.textinput.Value()
		mode := m.mode
		m.mode = ModeNormal
		m.textinput.Blur()
		switch mode {
		case ModeNewNote:
			return m, m.createNote(value)
		case ModeRename:
			return m, m.renameNote(value)
		case ModeNotebookName:
			return m, m.saveNotebook(value)
		}
	default:
		m.textinput, cmd = m.textinput.Update(msg)
	}

	return m, cmd
}

// createNote files the new note under the scope on screen. A blank title
// is left to the engine, which discards it with a message.
func (m Model) createNote(title string) tea.Cmd {
	in := usecase.NoteInput{Title: title}
	switch m.scope.Kind {
	case db.ScopeNotebook:
		in.NotebookID = m.scope.NotebookID
	case db.ScopeFavorites:
		in.IsFavorite = true
	}
	e := m.notes
	return m.run(func(ctx context.Context) error {
		_, err := e.Save(ctx, 0, in)
		return err
	})
}

func (m Model) renameNote(title string) tea.Cmd {
	note, ok := m.snap.Note(m.target)
	if !ok || note.Title == title {
		return nil
	}
	in := usecase.InputOf(note)
	in.Title = title
	e := m.notes
	return m.run(func(ctx context.Context) error {
		_, err := e.Save(ctx, note.ID, in)
		return err
	})
}

func (m Model) saveNotebook(name string) tea.Cmd {
	e, id := m.notebooks, m.target
	return tea.Sequence(
		m.run(func(ctx context.Context) error {
			_, err := e.Save(ctx, db.Notebook{ID: id, Description: strings.TrimSpace(name)})
			return err
		}),
		m.loadShortcuts(),
	)
}

func (m Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(m.menu)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		m.mode = ModeNormal
		if m.menuCursor < len(m.menu) {
			e, id, action := m.notes, m.menuTarget, m.menu[m.menuCursor].Action
			return m, m.run(func(ctx context.Context) error { return e.Perform(ctx, id, action) })
		}
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Menu):
		m.mode = ModeNormal
	}
	return m, nil
}

// loadDestinations fetches the notebooks note can be moved to.
func (m Model) loadDestinations(note int64) tea.Cmd {
	if m.backend.ListNotebooks == nil {
		return nil
	}
	ctx, list := m.ctx, m.backend.ListNotebooks
	return func() tea.Msg {
		nbs, err := list(ctx)
		if err != nil {
			return errMsg(err)
		}
		return destinationsMsg{note: note, notebooks: nbs}
	}
}

func (m Model) handleMoveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.menuCursor > 0 {
			m.menuCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.menuCursor < len(m.destinations)-1 {
			m.menuCursor++
		}
	case key.Matches(msg, m.keys.Enter):
		m.mode = ModeNormal
		if m.menuCursor < len(m.destinations) {
			e, id, nb := m.notes, m.menuTarget, m.destinations[m.menuCursor]
			return m, m.run(func(ctx context.Context) error { return e.MoveToNotebook(ctx, id, nb) })
		}
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Move):
		m.mode = ModeNormal
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeNormal
		m.picked = 0
		switch m.confirm {
		case confirmPurgeSelected:
			e := m.notes
			return m, m.run(func(ctx context.Context) error {
				_, err := e.PurgeSelected(ctx)
				return err
			})
		case confirmEmptyTrash:
			e := m.notes
			return m, m.run(func(ctx context.Context) error {
				_, err := e.PurgeAll(ctx)
				return err
			})
		case confirmDeleteNotebooks:
			e := m.notebooks
			return m, tea.Sequence(m.run(e.DeleteSelected), m.loadShortcuts())
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
		if m.picked != 0 {
			switch m.confirm {
			case confirmPurgeSelected:
				m.notes.Unselect(m.picked)
				m.snap = m.notes.Snapshot()
			case confirmDeleteNotebooks:
				m.notebooks.Unselect(m.picked)
				m.nbSnap = m.notebooks.Snapshot()
			}
			m.picked = 0
		}
	}
	return m, nil
}
