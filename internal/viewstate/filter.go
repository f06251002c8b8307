package viewstate

import (
	"sort"
	"strings"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
)

// MatchesPrefix reports whether text starts with query, ignoring case. A
// blank query matches everything.
func MatchesPrefix(text, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	return strings.HasPrefix(strings.ToLower(text), strings.ToLower(query))
}

// FilterNotes keeps the notes whose title starts with query, in order.
func FilterNotes(notes []db.Note, query string) []db.Note {
	out := make([]db.Note, 0, len(notes))
	for _, n := range notes {
		if MatchesPrefix(n.Title, query) {
			out = append(out, n)
		}
	}
	return out
}

// SortNotes returns a copy of notes ordered by key, ties broken by id the
// same way the store breaks them.
func SortNotes(notes []db.Note, key db.SortKey) []db.Note {
	out := make([]db.Note, len(notes))
	copy(out, notes)
	sort.SliceStable(out, func(i, j int) bool { return key.Less(out[i], out[j]) })
	return out
}

// Partition splits notes into pinned and unpinned, keeping the relative
// order within each half.
func Partition(notes []db.Note) (pinned, unpinned []db.Note) {
	pinned = []db.Note{}
	unpinned = []db.Note{}
	for _, n := range notes {
		if n.IsPinned {
			pinned = append(pinned, n)
		} else {
			unpinned = append(unpinned, n)
		}
	}
	return pinned, unpinned
}
