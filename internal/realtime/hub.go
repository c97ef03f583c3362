package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// DefaultSendTimeout bounds how long a broadcast will wait on a single
// connection before giving up and dropping it.
const DefaultSendTimeout = 5 * time.Second

// Conn is the subset of a websocket connection the hub needs. Satisfied by
// *websocket.Conn.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Client is one registered connection. Writes are serialized per client, so
// each connection sees broadcasts in the order Broadcast was called.
type Client struct {
	conn Conn
	hub  *Hub

	mu   sync.Mutex
	once sync.Once
}

func (c *Client) send(payload []byte, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub owns the set of live realtime connections and fans events out to them.
// One Hub is created at server start and torn down at shutdown.
type Hub struct {
	sendTimeout time.Duration

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		sendTimeout: DefaultSendTimeout,
		clients:     make(map[*Client]struct{}),
	}
}

// Register adds a connection to the hub and returns its handle.
func (h *Hub) Register(conn Conn) *Client {
	c := &Client{conn: conn, hub: h}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	return c
}

// Unregister removes the client and closes its connection. Safe to call from
// both the clean-close and error paths; only the first call has any effect.
func (h *Hub) Unregister(c *Client) {
	c.once.Do(func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()

		if err := c.conn.Close(); err != nil {
			log.Printf("realtime: close error: %v", err)
		}
	})
}

// Count returns the number of registered connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast serializes event once and delivers it to every registered
// connection, best effort. A failed or timed-out send drops that connection
// only; errors never reach the caller. The client set is snapshotted under
// the read lock and iterated outside it, so connect/disconnect during a
// broadcast cannot corrupt the iteration.
func (h *Hub) Broadcast(event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("realtime: marshal error: %v", err)
		return
	}

	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		if err := c.send(payload, h.sendTimeout); err != nil {
			log.Printf("realtime: dropping client after send error: %v", err)
			h.Unregister(c)
		}
	}
}

// Close unregisters every connection. Used at server shutdown.
func (h *Hub) Close() {
	h.mu.RLock()
	snapshot := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.RUnlock()

	for _, c := range snapshot {
		h.Unregister(c)
	}
}
