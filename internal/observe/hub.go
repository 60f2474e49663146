// Package observe provides a minimal change-notification hub so any
// presentation layer, or none, can attach to the session state.
package observe

import "sync"

type Hub struct {
	mu   sync.Mutex
	subs map[int]func()
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]func())}
}

// Subscribe registers fn and returns a cancel function.
func (h *Hub) Subscribe(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// Notify invokes all current subscribers on the caller's goroutine.
// Callers must not hold locks a subscriber might take.
func (h *Hub) Notify() {
	h.mu.Lock()
	fns := make([]func(), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
