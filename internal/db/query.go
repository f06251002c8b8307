package db

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is ISO-8601 extended offset date-time with a fixed nine digit
// fraction. Stored dates always use it, so parse and format round-trip.
const DateLayout = "2006-01-02T15:04:05.000000000Z07:00"

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeFavorites
	ScopeNotebook
	ScopeTrash
)

// Scope is the coarse filter applied by the store before any client-side
// search or sort.
type Scope struct {
	Kind       ScopeKind
	NotebookID int64
}

func AllScope() Scope { return Scope{Kind: ScopeAll} }
func FavoritesScope() Scope { return Scope{Kind: ScopeFavorites} }
func NotebookScope(id int64) Scope { return Scope{Kind: ScopeNotebook, NotebookID: id} }
func TrashScope() Scope { return Scope{Kind: ScopeTrash} }
func (s Scope) IsTrash() bool { return s.Kind == ScopeTrash }

func (s Scope) String() string {
	switch s.Kind {
	case ScopeFavorites:
		return "favorites"
	case ScopeNotebook:
		return "notebook:" + strconv.FormatInt(s.NotebookID, 10)
	case ScopeTrash:
		return "trash"
	default:
		return "all"
	}
}

// ParseScope accepts all, favorites, trash, notebook:<id> or notebook with a
// separate id.
func ParseScope(name string, notebookID int64) (Scope, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if rest, ok := strings.CutPrefix(name, "notebook:"); ok {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return Scope{}, fmt.Errorf("invalid notebook id %q", rest)
		}
		name, notebookID = "notebook", id
	}
	switch name {
	case "", "all", "home":
		return AllScope(), nil
	case "favorites":
		return FavoritesScope(), nil
	case "trash":
		return TrashScope(), nil
	case "notebook":
		if notebookID <= 0 {
			return Scope{}, fmt.Errorf("notebook scope needs a positive id")
		}
		return NotebookScope(notebookID), nil
	}
	return Scope{}, fmt.Errorf("unknown scope %q", name)
}

func (s Scope) where() (string, []any) {
	switch s.Kind {
	case ScopeFavorites:
		return "is_deleted = 0 AND is_favorite = 1", nil
	case ScopeNotebook:
		return "is_deleted = 0 AND notebook_id = ?", []any{s.NotebookID}
	case ScopeTrash:
		return "is_deleted = 1", nil
	default:
		return "is_deleted = 0", nil
	}
}

type SortField int

const (
	SortByTitle SortField = iota
	SortByCreated
	SortByModified
)

type Order int

const (
	Ascending Order = iota
	Descending
)

type SortKey struct {
	Field SortField
	Order Order
}

var (
	SortAlphabetical = SortKey{SortByTitle, Ascending}
	SortCreatedAsc   = SortKey{SortByCreated, Ascending}
	SortCreatedDesc  = SortKey{SortByCreated, Descending}
	SortModifiedAsc  = SortKey{SortByModified, Ascending}
	SortModifiedDesc = SortKey{SortByModified, Descending}

	// DefaultSort matches the home screen: newest first.
	DefaultSort = SortCreatedDesc
)

var sortNames = []struct {
	key  SortKey
	name string
}{
	{SortAlphabetical, "alphabetical"},
	{SortKey{SortByTitle, Descending}, "alphabetical_desc"},
	{SortCreatedAsc, "created_asc"},
	{SortCreatedDesc, "created_desc"},
	{SortModifiedAsc, "modified_asc"},
	{SortModifiedDesc, "modified_desc"},
}

// SortKeys lists the keys offered to users, in cycling order.
var SortKeys = []SortKey{SortCreatedDesc, SortCreatedAsc, SortModifiedDesc, SortModifiedAsc, SortAlphabetical}

func (k SortKey) String() string {
	for _, sn := range sortNames {
		if sn.key == k {
			return sn.name
		}
	}
	return fmt.Sprintf("sort(%d,%d)", k.Field, k.Order)
}

func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultSort, nil
	}
	for _, sn := range sortNames {
		if sn.name == s {
			return sn.key, nil
		}
	}
	return SortKey{}, fmt.Errorf("unknown sort key %q", s)
}

// Next returns the key after k in SortKeys.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortKeys[0]
}

func (k SortKey) orderBy() string {
	dir := "ASC"
	if k.Order == Descending {
		dir = "DESC"
	}
	switch k.Field {
	case SortByTitle:
		return "title " + dir + ", id ASC"
	case SortByModified:
		return dateOrder("modification_date", dir) + ", id ASC"
	default:
		return dateOrder("creation_date", dir) + ", id ASC"
	}
}

// dateOrder sorts a DateLayout column by instant: whole UTC seconds from the
// text without its fraction, then the fixed-width fraction itself.
// julianday rounds to milliseconds and would tie distinct instants.
func dateOrder(col, dir string) string {
	return fmt.Sprintf("CAST(strftime('%%s', substr(%[1]s, 1, 19) || substr(%[1]s, 30)) AS INTEGER) %[2]s, substr(%[1]s, 21, 9) %[2]s", col, dir)
}

// Less orders notes the same way the store does for k, ties broken by id.
func (k SortKey) Less(a, b Note) bool {
	var c int
	switch k.Field {
	case SortByTitle:
		c = strings.Compare(a.Title, b.Title)
	case SortByModified:
		c = a.ModificationDate.Compare(b.ModificationDate)
	default:
		c = a.CreationDate.Compare(b.CreationDate)
	}
	if k.Order == Descending {
		c = -c
	}
	if c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}

// NoteQuery selects notes for a scope. TitlePrefix is matched
// case-insensitively; blank matches everything.
type NoteQuery struct {
	Scope       Scope
	Sort        SortKey
	TitlePrefix string
}

func (q NoteQuery) build() (string, []any) {
	where, args := q.Scope.where()
	if strings.TrimSpace(q.TitlePrefix) != "" {
		where += ` AND fold(title) LIKE ? ESCAPE '\'`
		args = append(args, escapeLike(strings.ToLower(q.TitlePrefix))+"%")
	}
	return "SELECT " + noteColumns + " FROM notes WHERE " + where + " ORDER BY " + q.Sort.orderBy(), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
