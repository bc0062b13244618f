package service

import (
	"sync"

	"github.com/molkiya/shooting-range/internal/engine"
)

// hub fans engine events out to subscribers. publish runs under the
// controller lock, so it never blocks: a subscriber whose buffer is full
// misses the event.
type hub struct {
	mu     sync.Mutex
	buffer int
	nextID int
	subs   map[int]chan engine.Event
	closed bool
}

func newHub(buffer int) *hub {
	return &hub{buffer: buffer, subs: make(map[int]chan engine.Event)}
}

func (h *hub) subscribe() (<-chan engine.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan engine.Event, h.buffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	h.nextID++
	id := h.nextID
	h.subs[id] = ch
	return ch, func() { h.unsubscribe(id) }
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *hub) publish(ev engine.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	if ev.Kind == engine.EventClosed {
		h.closeLocked()
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked()
}

func (h *hub) closeLocked() {
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
