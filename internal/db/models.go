package db

import (
	"fmt"
	"time"
)

// DefaultNotebookID is the notebook notes fall back to when their own
// notebook is missing.
const DefaultNotebookID int64 = 1

// DefaultNotebookName labels the default notebook until one is created.
const DefaultNotebookName = "Notes"

type Note struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Content          string    `json:"content"`
	IsPinned         bool      `json:"is_pinned"`
	IsFavorite       bool      `json:"is_favorite"`
	IsDeleted        bool      `json:"is_deleted"`
	CreationDate     time.Time `json:"creation_date"`
	ModificationDate time.Time `json:"modification_date"`
	Color            int       `json:"color"`
	NotebookID       int64     `json:"notebook_id"`
}

// NoteFields is the subset of a note written by a partial update.
type NoteFields struct {
	ID               int64
	Title            string
	Content          string
	IsFavorite       bool
	IsPinned         bool
	Color            int
	NotebookID       int64
	ModificationDate time.Time
}

func (n Note) Fields() NoteFields {
	return NoteFields{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		IsFavorite:       n.IsFavorite,
		IsPinned:         n.IsPinned,
		Color:            n.Color,
		NotebookID:       n.NotebookID,
		ModificationDate: n.ModificationDate,
	}
}

type Notebook struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type noteRow struct {
	ID               int64  `db:"id"`
	Title            string `db:"title"`
	Content          string `db:"content"`
	IsPinned         bool   `db:"is_pinned"`
	IsFavorite       bool   `db:"is_favorite"`
	IsDeleted        bool   `db:"is_deleted"`
	CreationDate     string `db:"creation_date"`
	ModificationDate string `db:"modification_date"`
	Color            int    `db:"color"`
	NotebookID       int64  `db:"notebook_id"`
}

func newNoteRow(n Note) noteRow {
	return noteRow{
		ID:               n.ID,
		Title:            n.Title,
		Content:          n.Content,
		IsPinned:         n.IsPinned,
		IsFavorite:       n.IsFavorite,
		IsDeleted:        n.IsDeleted,
		CreationDate:     FormatDate(n.CreationDate),
		ModificationDate: FormatDate(n.ModificationDate),
		Color:            n.Color,
		NotebookID:       n.NotebookID,
	}
}

func (r noteRow) note() (Note, error) {
	created, err := ParseDate(r.CreationDate)
	if err != nil {
		return Note{}, fmt.Errorf("note %d creation date: %w", r.ID, err)
	}
	modified, err := ParseDate(r.ModificationDate)
	if err != nil {
		return Note{}, fmt.Errorf("note %d modification date: %w", r.ID, err)
	}
	return Note{
		ID:               r.ID,
		Title:            r.Title,
		Content:          r.Content,
		IsPinned:         r.IsPinned,
		IsFavorite:       r.IsFavorite,
		IsDeleted:        r.IsDeleted,
		CreationDate:     created,
		ModificationDate: modified,
		Color:            r.Color,
		NotebookID:       r.NotebookID,
	}, nil
}

// Color is one entry of the fixed note palette.
type Color struct {
	Name string
	Hex  string
}

var Palette = []Color{
	{Name: "default", Hex: "#FAFAFA"},
	{Name: "red", Hex: "#F28B82"},
	{Name: "orange", Hex: "#FBBC04"},
	{Name: "yellow", Hex: "#FFF475"},
	{Name: "green", Hex: "#CCFF90"},
	{Name: "teal", Hex: "#A7FFEB"},
	{Name: "blue", Hex: "#AECBFA"},
	{Name: "purple", Hex: "#D7AEFB"},
}

func ValidColor(c int) bool {
	return c >= 0 && c < len(Palette)
}
