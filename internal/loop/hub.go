package loop

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// HubEventType identifies a notification sent from the host to a session.
type HubEventType int

const (
	EventHostShutdown HubEventType = iota
)

// HubEvent is a notification from the host to one session.
type HubEvent struct {
	Type HubEventType
}

// Handle is a session's registration with the hub.
type Handle struct {
	ID       int
	Name     string
	EventsCh chan HubEvent
}

// Hub tracks the live sessions of a network host so they can be told about
// shutdown and waited for. Every session owns its own Game.
type Hub struct {
	mu      sync.RWMutex
	clients map[int]*Handle
	nextID  int
	log     *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[int]*Handle),
		nextID:  1,
		log:     log,
	}
}

// Register adds a session and returns its handle.
func (h *Hub) Register(name string) *Handle {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle := &Handle{
		ID:       h.nextID,
		Name:     name,
		EventsCh: make(chan HubEvent, 4),
	}
	h.nextID++
	h.clients[handle.ID] = handle
	h.log.Info("session registered", zap.Int("session", handle.ID), zap.String("name", name), zap.Int("sessions", len(h.clients)))
	return handle
}

// Unregister removes a session and closes its event channel.
func (h *Hub) Unregister(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	handle, ok := h.clients[id]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(h.clients, id)
	h.log.Info("session unregistered", zap.Int("session", id), zap.Int("sessions", len(h.clients)))
}

// Len is the number of live sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown notifies every session and waits for them to unregister, up to
// timeout. The caller stops accepting new sessions before calling it.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.mu.RLock()
	for _, handle := range h.clients {
		select {
		case handle.EventsCh <- HubEvent{Type: EventHostShutdown}:
		default:
		}
	}
	h.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Len() == 0 {
			return
		}
		select {
		case <-deadline:
			h.log.Warn("shutdown timed out", zap.Int("sessions", h.Len()))
			return
		case <-ticker.C:
		}
	}
}
