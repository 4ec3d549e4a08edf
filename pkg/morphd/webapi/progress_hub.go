package webapi

import "sync"

// ProgressHub fans conversion progress out to websocket subscribers. A
// subscriber that falls behind misses steps rather than stalling the driver.
type ProgressHub struct {
	mu   sync.Mutex
	subs map[chan int]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{subs: make(map[chan int]struct{})}
}

func (h *ProgressHub) Publish(pct int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- pct:
		default:
		}
	}
}

func (h *ProgressHub) Subscribe() chan int {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan int, 32)
	h.subs[ch] = struct{}{}

	return ch
}

func (h *ProgressHub) Unsubscribe(ch chan int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}
