// Package live pushes session updates to websocket listeners.
package live

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub tracks the listeners of every session.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.session]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.session] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.session]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.session)
	}
}

// Publish sends v to every listener of session. Listeners whose buffer is
// full miss the message.
func (h *Hub) Publish(session string, v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		log.Printf("live: encode %T: %v", v, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[session] {
		select {
		case c.send <- msg:
		default:
			log.Printf("live: listener of session %s is lagging, message dropped", session)
		}
	}
}

// CloseSession disconnects every listener of session.
func (h *Hub) CloseSession(session string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients[session] {
		close(c.send)
	}
	delete(h.clients, session)
}

// Listeners returns the number of listeners of session.
func (h *Hub) Listeners(session string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[session])
}
