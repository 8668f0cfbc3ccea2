package feed

import (
	"sync"

	"github.com/arkadelo/profilehub/internal/models"
)

// Hub fans submission-created events out to connected admin
// dashboards. Subscribers that fall behind lose events; the feed is a
// convenience stream, not a durable queue.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan models.Submission
	nextID int
}

func NewHub() *Hub {
	return &Hub{subs: map[int]chan models.Submission{}}
}

func (h *Hub) Subscribe() (<-chan models.Submission, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.Submission, 16)
	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if c, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(c)
		}
	}
}

func (h *Hub) Publish(s models.Submission) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
