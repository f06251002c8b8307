package viewstate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/nzaccagnino/jotaku-notes/internal/db"
	"github.com/nzaccagnino/jotaku-notes/internal/i18n"
	"github.com/nzaccagnino/jotaku-notes/internal/repository"
	"github.com/nzaccagnino/jotaku-notes/internal/usecase"
)

type NotebookProperty int

const (
	ByName NotebookProperty = iota
	// ByCreation orders by id, which the store hands out in creation order.
	ByCreation
)

type NotebookOrder struct {
	Property NotebookProperty
	Order    db.Order
}

var DefaultNotebookOrder = NotebookOrder{Property: ByCreation, Order: db.Descending}

func (o NotebookOrder) Less(a, b db.Notebook) bool {
	var c int
	if o.Property == ByName {
		c = strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	}
	if c == 0 {
		switch {
		case a.ID < b.ID:
			c = -1
		case a.ID > b.ID:
			c = 1
		}
	}
	if o.Order == db.Descending {
		c = -c
	}
	return c < 0
}

func (o NotebookOrder) String() string {
	t := i18n.T()
	name := t.SortNotebookDate
	if o.Property == ByName {
		name = t.SortNotebookAlpha
	}
	dir := t.Ascending
	if o.Order == db.Descending {
		dir = t.Descending
	}
	return name + ", " + dir
}

// Next cycles name asc, name desc, creation asc, creation desc.
func (o NotebookOrder) Next() NotebookOrder {
	if o.Order == db.Ascending {
		o.Order = db.Descending
		return o
	}
	o.Order = db.Ascending
	if o.Property == ByName {
		o.Property = ByCreation
	} else {
		o.Property = ByName
	}
	return o
}

func SortNotebooks(nbs []db.Notebook, order NotebookOrder) []db.Notebook {
	out := make([]db.Notebook, len(nbs))
	copy(out, nbs)
	sort.SliceStable(out, func(i, j int) bool { return order.Less(out[i], out[j]) })
	return out
}

type NotebookSource interface {
	Stream(ctx context.Context) <-chan repository.Emission[[]db.Notebook]
}

type NotebookCommands interface {
	Save(ctx context.Context, nb db.Notebook) (db.Notebook, error)
	Delete(ctx context.Context, id int64) (int, error)
}

type NotebookSnapshot struct {
	State     State
	Order     NotebookOrder
	Query     string
	Notebooks []db.Notebook
	Selection []int64
	Err       error
	Message   string
}

func (s NotebookSnapshot) IsSelected(id int64) bool {
	return containsID(s.Selection, id)
}

// NotebooksEngine backs the notebooks screen. Sorting and search run on the
// cached list, so changing them never touches the store.
type NotebooksEngine struct {
	core

	source NotebookSource
	cmds   NotebookCommands

	order NotebookOrder
	query string
	raw   []db.Notebook

	snap    NotebookSnapshot
	updates chan NotebookSnapshot
}

func NewNotebooksEngine(source NotebookSource, cmds NotebookCommands, logger *log.Logger, messageTimeout time.Duration) *NotebooksEngine {
	if messageTimeout <= 0 {
		messageTimeout = DefaultOptions().MessageTimeout
	}
	e := &NotebooksEngine{
		source:  source,
		cmds:    cmds,
		order:   DefaultNotebookOrder,
		updates: make(chan NotebookSnapshot, 1),
	}
	e.init(logger, messageTimeout, e.publishLocked)
	e.snap = e.buildLocked()
	return e
}

func (e *NotebooksEngine) Updates() <-chan NotebookSnapshot {
	return e.updates
}

func (e *NotebooksEngine) Snapshot() NotebookSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

func (e *NotebooksEngine) Attach(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Idle {
		return
	}
	e.parent = ctx
	e.state = Loading

	ctx, gen := e.restart()
	ch := e.source.Stream(ctx)
	go func() {
		for em := range ch {
			e.receive(gen, em)
		}
	}()
	e.publishLocked()
}

func (e *NotebooksEngine) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Idle {
		return
	}
	e.stop()
	e.order = DefaultNotebookOrder
	e.query = ""
	e.raw = nil
	e.publishLocked()
}

func (e *NotebooksEngine) receive(gen uint64, em repository.Emission[[]db.Notebook]) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.current(gen) {
		return
	}
	if em.Err != nil {
		e.err = em.Err
		e.log.Printf("notebooks: stream failed: %v", em.Err)
	} else {
		e.raw = em.Value
		e.err = nil
		e.state = Ready
	}
	e.publishLocked()
}

func (e *NotebooksEngine) SetOrder(order NotebookOrder) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = order
	e.publishLocked()
}

func (e *NotebooksEngine) SetSearchQuery(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = query
	e.publishLocked()
}

func (e *NotebooksEngine) publishLocked() {
	e.snap = e.buildLocked()
	select {
	case <-e.updates:
	default:
	}
	e.updates <- e.snap
}

func (e *NotebooksEngine) buildLocked() NotebookSnapshot {
	visible := make([]db.Notebook, 0, len(e.raw))
	for _, nb := range e.raw {
		if MatchesPrefix(nb.Description, e.query) {
			visible = append(visible, nb)
		}
	}
	return NotebookSnapshot{
		State:     e.state,
		Order:     e.order,
		Query:     e.query,
		Notebooks: SortNotebooks(visible, e.order),
		Selection: e.selection.ids(),
		Err:       e.err,
		Message:   e.message,
	}
}

// fail records err. Rejections the user can correct become a transient
// message; store failures raise the error flag.
func (e *NotebooksEngine) fail(op string, err error) error {
	e.update(func() {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			e.flash(i18n.T().NotebookNeeded)
		case errors.Is(err, db.ErrDefaultNotebook):
			e.flash(i18n.T().DefaultKept)
		default:
			e.err = err
			e.log.Printf("notebooks: %s failed: %v", op, err)
		}
	})
	return err
}

func (e *NotebooksEngine) Save(ctx context.Context, nb db.Notebook) (db.Notebook, error) {
	saved, err := e.cmds.Save(ctx, nb)
	if err != nil {
		return db.Notebook{}, e.fail("save", err)
	}
	e.update(func() { e.flash(i18n.T().NotebookSaved) })
	return saved, nil
}

func (e *NotebooksEngine) Delete(ctx context.Context, id int64) error {
	moved, err := e.cmds.Delete(ctx, id)
	if err != nil {
		return e.fail("delete", err)
	}
	e.update(func() {
		delete(e.selection, id)
		e.flash(fmt.Sprintf(i18n.T().NotebookGone, moved))
	})
	return nil
}

// DeleteSelected deletes every selected notebook except the default one,
// stopping at the first failure. A selected default notebook is unselected.
func (e *NotebooksEngine) DeleteSelected(ctx context.Context) error {
	kept := false
	for _, id := range e.selected() {
		if id == db.DefaultNotebookID {
			kept = true
			continue
		}
		if err := e.Delete(ctx, id); err != nil {
			return err
		}
	}
	if kept {
		e.update(func() {
			delete(e.selection, db.DefaultNotebookID)
			e.flash(i18n.T().DefaultKept)
		})
	}
	return nil
}
