package notification

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

const (
	EventBookingCreated    = "booking.created"
	EventBookingCancelled  = "booking.cancelled"
	EventCallbackRequested = "callback.requested"
)

// Event is pushed to every connected admin.
type Event struct {
	Type string    `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

type client struct {
	userID int64
	conn   *websocket.Conn
	mu     sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Hub keeps the open admin feed connections. One admin may hold several.
type Hub struct {
	clients map[*client]struct{}
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

func (h *Hub) register(userID int64, conn *websocket.Conn) *client {
	c := &client{userID: userID, conn: conn}
	h.mutex.Lock()
	h.clients[c] = struct{}{}
	h.mutex.Unlock()
	return c
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mutex.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

// Broadcast sends ev to every connection and drops the ones that fail.
// It returns how many connections received the event.
func (h *Hub) Broadcast(ev Event) int {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mutex.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mutex.RUnlock()

	delivered := 0
	for _, c := range targets {
		if err := c.writeJSON(ev); err != nil {
			h.unregister(c)
			continue
		}
		delivered++
	}
	return delivered
}

func (h *Hub) Count() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	for c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}
