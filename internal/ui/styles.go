package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/nzaccagnino/jotaku-notes/internal/db"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	text      = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#fafafa"}
	muted     = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			MarginBottom(1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(1, 2)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(highlight).
				Padding(1, 2)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(text).
			MarginBottom(1)

	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(special)

	MutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1).
			MarginTop(1)

	LabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	SectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(muted)

	TabStyle = lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight).
			Underline(true).
			Padding(0, 1)

	MessageStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlight).
			Padding(2, 3).
			Align(lipgloss.Center)

	CursorLineStyle = lipgloss.NewStyle().
			Background(highlight).
			Foreground(lipgloss.Color("#000000"))

	KeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(highlight)

	KeyHintStyle = lipgloss.NewStyle().
			Foreground(muted)
)

const (
	NotebookIcon = "📁"
	NoteIcon     = "📝"
	PinIcon      = "📌"
	StarIcon     = "★"
	CheckIcon    = "✔"
)

// Swatch renders a small block in the note's palette color.
func Swatch(color int) string {
	if !db.ValidColor(color) {
		color = 0
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(db.Palette[color].Hex)).Render("●")
}
