package db

import "sync"

type Table string

const (
	TableNotes     Table = "notes"
	TableNotebooks Table = "notebooks"
)

// Hub fans out change signals to subscribers. Each subscriber channel has a
// buffer of one, so bursts of commits collapse into a single pending signal.
type Hub struct {
	mu   sync.Mutex
	next int
	subs map[int]*subscriber
}

type subscriber struct {
	tables map[Table]bool
	ch     chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]*subscriber)}
}

// Subscribe returns a signal channel and a cancel func. With no tables the
// subscriber hears every change.
func (h *Hub) Subscribe(tables ...Table) (<-chan struct{}, func()) {
	sub := &subscriber{
		tables: make(map[Table]bool, len(tables)),
		ch:     make(chan struct{}, 1),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

func (h *Hub) Publish(tables ...Table) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, sub := range h.subs {
		if !sub.wants(tables) {
			continue
		}
		select {
		case sub.ch <- struct{}{}:
		default:
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (s *subscriber) wants(tables []Table) bool {
	if len(s.tables) == 0 {
		return true
	}
	for _, t := range tables {
		if s.tables[t] {
			return true
		}
	}
	return false
}
