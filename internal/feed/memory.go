package feed

import (
	"log/slog"
	"sync"

	"github.com/civicmap/civicmap/internal/comment"
)

// subscriberBuffer is the per-subscriber event queue depth. A subscriber
// that falls further behind misses events rather than blocking publishers.
const subscriberBuffer = 16

// Hub is an in-process Broadcaster.
type Hub struct {
	mu     sync.Mutex
	nextID int64
	subs   map[int64]chan *comment.Comment
}

// NewHub creates an empty in-process broadcaster.
func NewHub() *Hub {
	return &Hub{subs: make(map[int64]chan *comment.Comment)}
}

// Publish delivers the comment to every subscriber without blocking.
func (h *Hub) Publish(c *comment.Comment) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- c:
		default:
			slog.Warn("dropping insert event for slow subscriber", "subscriber", id, "comment", c.ID)
		}
	}
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() (<-chan *comment.Comment, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan *comment.Comment, subscriberBuffer)
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// SubscriberCount reports the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
