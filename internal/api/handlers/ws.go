package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"route-catalog-service/internal/adapters/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is handled by the CORS middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades subscriber connections and hands them to the hub.
type WSHandler struct {
	Hub *ws.Hub
}

func (h *WSHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	h.Hub.Register(conn)
	log.Printf("ws subscriber connected: addr=%s", conn.RemoteAddr())

	// Read pump: inbound frames are discarded, but reading is what detects
	// the peer closing so the hub entry can be dropped promptly.
	go func() {
		defer func() {
			h.Hub.Unregister(conn)
			_ = conn.Close()
			log.Printf("ws subscriber disconnected: addr=%s", conn.RemoteAddr())
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
