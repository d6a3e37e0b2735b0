// Package observe serves game snapshots to websocket clients.
package observe

import (
	"encoding/json"
	"sync"

	"tilegrid/internal/store"

	"github.com/google/uuid"
)

// SendBuffer is the number of messages queued per client before new ones
// are dropped.
const SendBuffer = 256

// Message is the JSON document sent to clients for every published frame.
type Message struct {
	Session  string         `json:"session"`
	Snapshot store.Snapshot `json:"snapshot"`
}

// Hub fans snapshots out to registered clients. Publish never blocks: a
// client whose buffer is full misses frames.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]chan []byte
	latest  map[string][]byte // last message per session
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]chan []byte),
		latest:  make(map[string][]byte),
	}
}

// Register adds a client and returns its ID and message channel. The
// channel starts with the latest message of every live session.
func (h *Hub) Register() (string, <-chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan []byte, SendBuffer)
	for _, msg := range h.latest {
		select {
		case ch <- msg:
		default:
		}
	}
	h.clients[id] = ch
	return id, ch
}

// Unregister removes the client and closes its channel.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.clients[id]; ok {
		close(ch)
		delete(h.clients, id)
	}
}

// Publish sends snap to every client.
func (h *Hub) Publish(session string, snap store.Snapshot) {
	data, err := json.Marshal(Message{Session: session, Snapshot: snap})
	if err != nil {
		return
	}

	h.mu.Lock()
	h.latest[session] = data
	h.mu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.clients {
		select {
		case ch <- data:
		default:
		}
	}
}

// End forgets the latest message of a finished session.
func (h *Hub) End(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.latest, session)
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
