// Package notify fans state changes out to subscribers.
package notify

import (
	"sync"

	"github.com/google/uuid"
)

// Hub delivers the latest published value to every subscriber. Each
// subscription buffers one value; a reader that falls behind skips straight to
// the newest one and never blocks the publisher.
type Hub[T any] struct {
	mu   sync.Mutex
	subs map[uuid.UUID]chan T
}

func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[uuid.UUID]chan T)}
}

func (h *Hub[T]) Subscribe() (uuid.UUID, <-chan T) {
	id := uuid.New()
	ch := make(chan T, 1)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()
	return id, ch
}

// Unsubscribe closes the subscription's channel. Unknown ids are ignored.
func (h *Hub[T]) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// Len returns the number of active subscriptions.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			// drop the unread value, then deliver the new one
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
