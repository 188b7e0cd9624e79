// Package ws fans catalog change events out to live WebSocket subscribers.
package ws

import (
	"log"
	"sync"
)

// Wire shape of one change notification.
type Event struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Conn is the slice of a websocket connection the hub needs. Satisfied by
// *websocket.Conn from gorilla/websocket.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub owns the set of live subscriber connections. One instance is created
// by the process and injected wherever mutations are issued; all access to
// the set is serialized by the mutex, which also serializes writes on the
// underlying connections.
type Hub struct {
	mu    sync.Mutex
	conns map[Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{conns: make(map[Conn]struct{})}
}

// Register adds a subscriber to the broadcast set.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c] = struct{}{}
}

// Unregister removes a subscriber. Safe to call for connections already
// dropped during a broadcast.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, c)
}

// Subscribers returns the current size of the broadcast set.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// broadcast sends the event to every registered connection. A connection
// whose send fails is closed and dropped as a side effect; delivery is
// best-effort and errors never reach the caller.
func (h *Hub) broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		if err := c.WriteJSON(ev); err != nil {
			log.Printf("ws broadcast: drop subscriber: %v", err)
			_ = c.Close()
			delete(h.conns, c)
		}
	}
}

func (h *Hub) RouteCreated() {
	h.broadcast(Event{Type: "route_created", Message: "New route added"})
}

func (h *Hub) RouteUpdated() {
	h.broadcast(Event{Type: "route_updated", Message: "Route updated"})
}

func (h *Hub) RouteDeleted() {
	h.broadcast(Event{Type: "route_deleted", Message: "Route deleted"})
}
