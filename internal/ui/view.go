package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/nzaccagnino/jotaku-notes/internal/viewstate"
)

const dateLayout = "2006-01-02 15:04"

func (m Model) listWidth() int {
	return int(float64(m.width) * 0.30)
}

func (m Model) contentWidth() int {
	return int(float64(m.width) * 0.45)
}

func (m Model) metadataWidth() int {
	return m.width - m.listWidth() - m.contentWidth()
}

func (m Model) contentHeight() int {
	return m.height - 7
}

func (m Model) View() string {
	t := i18n.T()

	if m.width == 0 {
		return t.Loading
	}

	switch m.mode {
	case ModeHelp:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderHelp())
	case ModeNewNote, ModeRename, ModeNotebookName, ModeSearch:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderInputDialog())
	case ModeMenu:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderMenu())
	case ModeMoveNote:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderDestinations())
	case ModeConfirm:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderConfirmDialog())
	}

	header := m.renderHeader()
	body := m.renderBody()
	status := m.renderStatus()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) renderHeader() string {
	t := i18n.T()

	type tab struct {
		label  string
		active bool
	}
	tabs := []tab{
		{"1 " + t.Home, m.screen == ScreenNotes && m.scope.Kind == db.ScopeAll},
		{"2 " + t.Favorites, m.screen == ScreenNotes && m.scope.Kind == db.ScopeFavorites},
		{"3 " + t.Trash, m.screen == ScreenNotes && m.scope.IsTrash()},
	}
	if m.backend.Notebooks != nil {
		tabs = append(tabs, tab{"4 " + t.Notebooks, m.screen == ScreenNotebooks})
	}
	for i, nb := range m.shortcuts {
		active := m.screen == ScreenNotes && m.scope.Kind == db.ScopeNotebook && m.scope.NotebookID == nb.ID
		tabs = append(tabs, tab{fmt.Sprintf("%d %s %s", i+5, NotebookIcon, truncate(nb.Description, 16)), active})
	}

	var rendered []string
	for _, tb := range tabs {
		if tb.active {
			rendered = append(rendered, ActiveTabStyle.Render(tb.label))
		} else {
			rendered = append(rendered, TabStyle.Render(tb.label))
		}
	}

	return HeaderStyle.Width(m.width - 2).Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (m Model) renderBody() string {
	if m.screen == ScreenNotebooks {
		return m.renderNotebooks()
	}

	listPanel := m.renderList()
	contentPanel := m.renderContent()
	metadataPanel := m.renderMetadata()

	return lipgloss.JoinHorizontal(lipgloss.Top, listPanel, contentPanel, metadataPanel)
}

// window returns the slice of lines that keeps line focus visible.
func window(lines []string, focus, height int) []string {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := max(focus-height+1, 0)
	return lines[start:min(start+height, len(lines))]
}

func (m Model) renderList() string {
	t := i18n.T()

	style := PanelStyle
	if m.mode != ModeEditing {
		style = ActivePanelStyle
	}

	listHeight := m.contentHeight() - 2
	maxLen := m.listWidth() - 14

	var lines []string
	focus := 0
	row := 0
	addRows := func(notes []db.Note) {
		for _, note := range notes {
			if row == m.cursor {
				focus = len(lines)
			}
			lines = append(lines, m.renderNoteRow(note, row == m.cursor, maxLen))
			row++
		}
	}

	switch {
	case m.snap.State == viewstate.Loading && len(m.snap.Notes) == 0:
		lines = append(lines, MutedStyle.Render(t.Loading))
	case len(m.snap.Notes) == 0:
		lines = append(lines, MutedStyle.Render(t.EmptyList))
	case len(m.snap.Pinned) > 0:
		lines = append(lines, SectionStyle.Render(t.PinnedSection))
		addRows(m.snap.Pinned)
		if len(m.snap.Unpinned) > 0 {
			lines = append(lines, "", SectionStyle.Render(t.OthersSection))
			addRows(m.snap.Unpinned)
		}
	default:
		addRows(m.snap.Unpinned)
	}

	content := strings.Join(window(lines, focus, listHeight), "\n")
	return style.Width(m.listWidth() - 2).Height(m.contentHeight()).Render(content)
}

func (m Model) renderNoteRow(note db.Note, current bool, maxLen int) string {
	title := note.Title
	if strings.TrimSpace(title) == "" {
		title = i18n.T().Untitled
	}
	title = truncate(title, maxLen)

	mark := " "
	if m.snap.IsSelected(note.ID) {
		mark = CheckIcon
	}
	flag := " "
	if note.IsFavorite {
		flag = StarIcon
	}

	if current {
		line := fmt.Sprintf("%s ▶ %-*s %s", mark, maxLen, title, flag)
		return CursorLineStyle.Render(line)
	}
	return fmt.Sprintf("%s %s %-*s %s", mark, Swatch(note.Color), maxLen, title, flag)
}

func (m Model) renderContent() string {
	t := i18n.T()

	style := PanelStyle
	if m.mode == ModeEditing {
		style = ActivePanelStyle
	}

	var content string
	if m.mode == ModeEditing {
		content = m.textarea.View()
	} else if note, ok := m.currentNote(); ok {
		content = TitleStyle.Render(NoteIcon+" "+note.Title) + "\n" + note.Content
	} else {
		content = MutedStyle.Render(t.NoNoteSelected)
	}

	return style.Width(m.contentWidth() - 2).Height(m.contentHeight()).Render(content)
}

func (m Model) notebookName(id int64) string {
	for _, nb := range m.shortcuts {
		if nb.ID == id {
			return nb.Description
		}
	}
	if id == db.DefaultNotebookID {
		return db.DefaultNotebookName
	}
	return fmt.Sprintf("#%d", id)
}

func (m Model) renderMetadata() string {
	t := i18n.T()

	var lines []string
	if note, ok := m.currentNote(); ok {
		if note.IsPinned {
			lines = append(lines, LabelStyle.Render(PinIcon+" "+t.PinnedSection), "")
		}

		lines = append(lines, LabelStyle.Render(t.Notebook))
		lines = append(lines, MutedStyle.Render("  "+NotebookIcon+" "+m.notebookName(note.NotebookID)))

		lines = append(lines, "")
		lines = append(lines, LabelStyle.Render(t.Color))
		lines = append(lines, "  "+Swatch(note.Color)+" "+MutedStyle.Render(db.Palette[colorIndex(note.Color)].Name))

		lines = append(lines, "")
		lines = append(lines, LabelStyle.Render(t.CreatedAt))
		lines = append(lines, MutedStyle.Render("  "+note.CreationDate.Local().Format(dateLayout)))

		lines = append(lines, "")
		lines = append(lines, LabelStyle.Render(t.ModifiedAt))
		lines = append(lines, MutedStyle.Render("  "+note.ModificationDate.Local().Format(dateLayout)))
	}

	content := strings.Join(lines, "\n")
	return PanelStyle.Width(m.metadataWidth() - 2).Height(m.contentHeight()).Render(content)
}

func colorIndex(c int) int {
	if !db.ValidColor(c) {
		return 0
	}
	return c
}

func (m Model) renderNotebooks() string {
	t := i18n.T()

	listHeight := m.contentHeight() - 2
	var lines []string
	switch {
	case m.nbSnap.State == viewstate.Loading && len(m.nbSnap.Notebooks) == 0:
		lines = append(lines, MutedStyle.Render(t.Loading))
	case len(m.nbSnap.Notebooks) == 0:
		lines = append(lines, MutedStyle.Render(t.EmptyList))
	}
	for i, nb := range m.nbSnap.Notebooks {
		mark := " "
		if m.nbSnap.IsSelected(nb.ID) {
			mark = CheckIcon
		}
		line := fmt.Sprintf("%s %s %s", mark, NotebookIcon, truncate(nb.Description, m.width-16))
		if i == m.cursor {
			line = CursorLineStyle.Render(line)
		}
		lines = append(lines, line)
	}

	content := strings.Join(window(lines, m.cursor, listHeight), "\n")
	return ActivePanelStyle.Width(m.width - 2).Height(m.contentHeight()).Render(content)
}

func sortLabel(k db.SortKey) string {
	t := i18n.T()
	switch k {
	case db.SortAlphabetical:
		return t.SortAlphabetical
	case db.SortCreatedAsc:
		return t.SortCreatedAsc
	case db.SortCreatedDesc:
		return t.SortCreatedDesc
	case db.SortModifiedAsc:
		return t.SortModifiedAsc
	case db.SortModifiedDesc:
		return t.SortModifiedDesc
	}
	return t.SortAlphaDesc
}

func (m Model) renderStatus() string {
	t := i18n.T()

	var (
		count     int
		selected  int
		sort      string
		message   string
		err       error
		canUndo   bool
		searching string
	)
	if m.screen == ScreenNotebooks {
		count, selected = len(m.nbSnap.Notebooks), len(m.nbSnap.Selection)
		sort = m.nbSnap.Order.String()
		message, err = m.nbSnap.Message, m.nbSnap.Err
		searching = m.nbSnap.Query
	} else {
		count, selected = len(m.snap.Notes), len(m.snap.Selection)
		sort = sortLabel(m.snap.Sort)
		message, err = m.snap.Message, m.snap.Err
		canUndo = m.snap.CanUndo
		searching = m.snap.Query
	}

	modeStr := t.ModeNormal
	switch {
	case m.mode == ModeEditing:
		modeStr = t.ModeEdit
	case selected > 0:
		modeStr = fmt.Sprintf("%s %d %s", t.ModeSelection, selected, t.Selected)
	case searching != "":
		modeStr = t.ModeSearch
	}

	left := fmt.Sprintf(" %s | %d | %s", modeStr, count, sort)
	if searching != "" {
		left += " | " + t.Search + ": " + searching
	}
	switch {
	case message != "":
		left += " | " + MessageStyle.Render(message)
	case err != nil:
		left += " | " + ErrorStyle.Render(t.Error+": "+err.Error())
	case m.err != nil:
		left += " | " + ErrorStyle.Render(t.Error+": "+m.err.Error())
	}
	if canUndo {
		left += " " + KeyHintStyle.Render(t.UndoHint)
	}

	views := "1-4"
	if m.backend.Notebooks == nil {
		views = "1-3"
	}
	right := fmt.Sprintf("%s %s | ? %s | Ctrl+Q %s", views, t.KeyViews, t.Help, t.Exit)

	padding := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 0)
	return StatusBarStyle.Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) renderInputDialog() string {
	t := i18n.T()

	var title string
	switch m.mode {
	case ModeSearch:
		title = t.Search
	case ModeRename:
		title = t.HelpEdit
	case ModeNotebookName:
		title = t.NewNotebook
		if m.target != 0 {
			title = t.Notebook
		}
	default:
		title = t.NewNote
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		TitleStyle.Render(title),
		"",
		m.textinput.View(),
		"",
		MutedStyle.Render(t.EnterConfirm+"  "+t.EscCancel),
	)

	return DialogStyle.Width(50).Render(content)
}

func (m Model) renderMenu() string {
	t := i18n.T()

	var items []string
	for i, item := range m.menu {
		if i == m.menuCursor {
			items = append(items, SelectedStyle.Render("▶ "+item.Label))
		} else {
			items = append(items, "  "+item.Label)
		}
	}

	title := t.Untitled
	if note, ok := m.snap.Note(m.menuTarget); ok && note.Title != "" {
		title = note.Title
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render(truncate(title, 30)),
		strings.Join(items, "\n"),
		"",
		MutedStyle.Render(t.EnterConfirm+"  "+t.EscCancel),
	)

	return DialogStyle.Width(40).Align(lipgloss.Left).Render(content)
}

func (m Model) renderDestinations() string {
	t := i18n.T()

	var items []string
	for i, nb := range m.destinations {
		label := NotebookIcon + " " + truncate(nb.Description, 30)
		if i == m.menuCursor {
			items = append(items, SelectedStyle.Render("▶ "+label))
		} else {
			items = append(items, "  "+label)
		}
	}
	if len(items) == 0 {
		items = append(items, MutedStyle.Render(t.EmptyList))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render(t.MenuMove),
		strings.Join(items, "\n"),
		"",
		MutedStyle.Render(t.EnterConfirm+"  "+t.EscCancel),
	)

	return DialogStyle.Width(44).Align(lipgloss.Left).Render(content)
}

func (m Model) renderConfirmDialog() string {
	t := i18n.T()

	var title, message string
	switch m.confirm {
	case confirmEmptyTrash:
		title = t.EmptyTrash
		message = t.EmptyTrashConfirm
	case confirmDeleteNotebooks:
		title = t.DeleteNotebook
		names := make([]string, 0, len(m.nbSnap.Selection))
		for _, nb := range m.nbSnap.Notebooks {
			if m.nbSnap.IsSelected(nb.ID) {
				names = append(names, nb.Description)
			}
		}
		message = fmt.Sprintf(t.DeleteNotebookPrompt, strings.Join(names, ", "))
	default:
		title = t.DeleteSelected
		message = fmt.Sprintf(t.DeleteConfirm, len(m.snap.Selection))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		TitleStyle.Render(title),
		"",
		message,
		"",
		MutedStyle.Render("[Y] "+t.Yes+"  [N] "+t.No),
	)

	return DialogStyle.Width(50).Render(content)
}

func (m Model) renderHelp() string {
	t := i18n.T()

	var b strings.Builder
	row := func(keys, desc string) {
		b.WriteString("  " + KeyStyle.Render(fmt.Sprintf("%-12s", keys)) + " " + desc + "\n")
	}

	b.WriteString(LabelStyle.Render(t.HelpNavigation) + "\n")
	row("↑/k", t.HelpUp)
	row("↓/j", t.HelpDown)
	row("Enter", t.HelpOpen)
	row("/", t.HelpSearch)
	row("s", t.HelpSort)
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render(t.HelpNotes) + "\n")
	row("n", t.HelpNew)
	row("i / e", t.HelpEdit)
	row("Ctrl+S", t.HelpSave)
	row("c", t.Color)
	row("m", t.HelpMenu)
	row("b", t.MenuMove)
	row("Space / a", t.HelpSelect)
	row("d", t.KeyDelete)
	row("u", t.HelpUndo)
	row("r", t.KeyRestore)
	row("E", t.EmptyTrash)
	b.WriteString("\n")

	b.WriteString(LabelStyle.Render(t.HelpViews) + "\n")
	row("1", t.HelpHome)
	row("2", t.HelpFavorites)
	row("3", t.HelpTrash)
	if m.backend.Notebooks != nil {
		row("4", t.HelpNotebooks)
	}
	row("5-7", t.KeyNotebook)
	row("?", t.HelpHelp)
	row("Ctrl+Q", t.HelpExit)

	helpStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlight).
		Padding(1, 2).
		Align(lipgloss.Left)

	return helpStyle.Render(b.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:max(n, 0)])
	}
	return string(r[:n-3]) + "..."
}
