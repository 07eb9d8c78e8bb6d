package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendBuffer   = 16
	writeTimeout = 2 * time.Second
)

// client owns one connection. Only its writer goroutine writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans catalog events out to every connected WebSocket client.
// BroadcastJSON never blocks on the network: each client has a bounded
// queue, and a client whose queue is full is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	last    []byte
	logger  *zap.Logger
}

type Stats struct {
	WSClients int `json:"ws_clients"`
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		logger:  logger.Named("events"),
	}
}

// Add registers ws and queues the most recent event so late subscribers
// learn the current catalog state.
func (h *Hub) Add(ws *websocket.Conn) {
	c := &client{conn: ws, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	h.clients[ws] = c
	if h.last != nil {
		c.send <- h.last
	}
	h.mu.Unlock()

	go h.writeLoop(c)
}

func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	if c, ok := h.clients[ws]; ok {
		h.dropLocked(c)
	}
	h.mu.Unlock()
	_ = ws.Close()
}

// BroadcastJSON queues v for all clients.
func (h *Hub) BroadcastJSON(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.logger.Warn("marshal event", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.last = b
	for _, c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.logger.Warn("dropping slow ws client")
			h.dropLocked(c)
		}
	}
}

// dropLocked must be called with mu held. Closing send stops the writer,
// which closes the connection.
func (h *Hub) dropLocked(c *client) {
	if h.clients[c.conn] != c {
		return
	}
	delete(h.clients, c.conn)
	close(c.send)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for b := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
			h.mu.Lock()
			h.dropLocked(c)
			h.mu.Unlock()
			// drain so dropLocked's close ends the loop
			for range c.send {
			}
			return
		}
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{WSClients: len(h.clients)}
}
