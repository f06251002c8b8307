package viewstate

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

type State int

const (
	Idle State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "idle"
	}
}

type selection map[int64]struct{}

func (s selection) ids() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func containsID(sorted []int64, id int64) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] >= id })
	return i < len(sorted) && sorted[i] == id
}

// core is the lifecycle shared by the engines: one live subscription at a
// time, a generation counter that retires stale emissions, the selection set
// and a transient message. Every field is guarded by mu.
type core struct {
	mu sync.Mutex

	state  State
	parent context.Context
	cancel context.CancelFunc
	gen    uint64

	selection selection
	err       error

	message string
	msgGen  uint64
	timeout time.Duration

	log *log.Logger

	// changed republishes the snapshot; it runs with mu held.
	changed func()
}

func (c *core) init(logger *log.Logger, messageTimeout time.Duration, changed func()) {
	if logger == nil {
		logger = log.Default()
	}
	c.selection = selection{}
	c.log = logger
	c.timeout = messageTimeout
	c.changed = changed
}

// restart cancels the live subscription, if any, and hands out the context
// and generation for its replacement in one step.
func (c *core) restart() (context.Context, uint64) {
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	ctx, cancel := context.WithCancel(c.parent)
	c.cancel = cancel
	return ctx, c.gen
}

// current reports whether an emission of generation gen may still be
// applied.
func (c *core) current(gen uint64) bool {
	return c.state != Idle && gen == c.gen
}

func (c *core) stop() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.gen++
	c.msgGen++
	c.state = Idle
	c.selection = selection{}
	c.err = nil
	c.message = ""
}

// flash shows msg until the message timeout passes or another message
// replaces it.
func (c *core) flash(msg string) {
	c.message = msg
	c.msgGen++
	gen := c.msgGen
	time.AfterFunc(c.timeout, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.msgGen != gen {
			return
		}
		c.message = ""
		c.changed()
	})
}

// update runs fn and republishes, unless the engine was detached meanwhile.
func (c *core) update(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Idle {
		return
	}
	fn()
	c.changed()
}

func (c *core) Select(id int64) {
	c.update(func() { c.selection[id] = struct{}{} })
}

func (c *core) Unselect(id int64) {
	c.update(func() { delete(c.selection, id) })
}

func (c *core) ToggleSelection(id int64) {
	c.update(func() {
		if _, ok := c.selection[id]; ok {
			delete(c.selection, id)
		} else {
			c.selection[id] = struct{}{}
		}
	})
}

func (c *core) UnselectAll() {
	c.update(func() { c.selection = selection{} })
}

func (c *core) selected() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.ids()
}
