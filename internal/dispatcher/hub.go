// Package dispatcher owns the subscriber registry for real-time events.
// State machines emit plain event values; the hub maps each one to the
// subscribers currently joined to the event's role scope. Delivery is
// at-most-once and best-effort: a subscriber whose buffer is full, or one
// that connects after the event, simply misses it.
package dispatcher

import (
	"sync"

	"toolcrib-backend/internal/domain"
	"toolcrib-backend/internal/logger"
)

// Publisher is the interface the services publish through.
type Publisher interface {
	Publish(event domain.Event)
}

type subscriber struct {
	role domain.Role
	ch   chan domain.Event
}

// Hub fans events out to role-scoped subscribers.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	buffer      int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		buffer:      buffer,
	}
}

// Subscribe joins a connection to a role scope and returns its event
// channel. The channel is closed on Unsubscribe.
func (h *Hub) Subscribe(connID string, role domain.Role) <-chan domain.Event {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.subscribers[connID]; ok {
		close(old.ch)
	}
	sub := &subscriber{role: role, ch: make(chan domain.Event, h.buffer)}
	h.subscribers[connID] = sub
	return sub.ch
}

// Unsubscribe removes a connection and closes its channel. Safe to call
// for unknown connection ids.
func (h *Hub) Unsubscribe(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[connID]; ok {
		close(sub.ch)
		delete(h.subscribers, connID)
	}
}

// Publish delivers the event to every subscriber in its role scope. Sends
// never block; a full buffer drops the event for that subscriber.
func (h *Hub) Publish(event domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subscribers {
		if sub.role != event.Scope {
			continue
		}
		select {
		case sub.ch <- event:
			delivered++
		default:
			logger.Warn("dropping event for slow subscriber", "type", event.Type, "scope", event.Scope)
		}
	}
	logger.Debug("event published", "type", event.Type, "scope", event.Scope, "delivered", delivered)
}

// SubscriberCount reports how many connections are joined to a role scope.
func (h *Hub) SubscriberCount(role domain.Role) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, sub := range h.subscribers {
		if sub.role == role {
			n++
		}
	}
	return n
}
