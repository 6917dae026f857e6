package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playpong/backend/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are checked by middleware.WebSocketCORSCheck
	},
}

// Client represents a connected WebSocket client
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
	dropOnce  sync.Once
}

// drop closes the connection of a stalled client. Its readPump then fails
// and takes the normal disconnect path.
func (c *Client) drop() {
	c.dropOnce.Do(func() {
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// Hub maintains the set of active clients, keyed by session id. It
// implements game.Broadcaster.
type Hub struct {
	clients    map[string]*Client
	mirror     *Mirror
	bufferSize int
	mu         sync.RWMutex
}

var _ game.Broadcaster = (*Hub)(nil)

// NewHub creates a new Hub whose clients buffer up to bufferSize messages.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = 256
	}
	return &Hub{
		clients:    make(map[string]*Client),
		bufferSize: bufferSize,
	}
}

// SetMirror attaches the Redis event mirror. Must be called before clients
// connect.
func (h *Hub) SetMirror(m *Mirror) {
	h.mirror = m
}

func (h *Hub) newClient(conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		hub:       h,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, h.bufferSize),
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, exists := h.clients[c.sessionID]; exists {
		close(old.send)
	}
	h.clients[c.sessionID] = c
	log.Printf("[WS] Client registered for session %s (total clients: %d)", c.sessionID, len(h.clients))
}

// unregister removes c if it is still the registered client for its session.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.sessionID]; ok && cur == c {
		delete(h.clients, c.sessionID)
		close(c.send)
		log.Printf("[WS] Client unregistered for session %s (remaining clients: %d)", c.sessionID, len(h.clients))
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to every connected client. It never blocks:
// a client whose buffer is full is dropped.
func (h *Hub) Broadcast(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	var stalled []*Client
	h.mu.RLock()
	for _, client := range h.clients {
		select {
		case client.send <- data:
		default:
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stalled {
		log.Printf("[WS] Client send buffer full for session %s, dropping connection", client.sessionID)
		client.drop()
	}

	if h.mirror != nil {
		h.mirror.Observe(message, data)
	}
}

// SendTo sends a message to a single session.
func (h *Hub) SendTo(sessionID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	client, exists := h.clients[sessionID]
	if !exists {
		h.mu.RUnlock()
		log.Printf("[WS] SendTo no client for session %s", sessionID)
		return
	}
	select {
	case client.send <- data:
		h.mu.RUnlock()
	default:
		h.mu.RUnlock()
		log.Printf("[WS] SendTo buffer full for session %s, dropping connection", sessionID)
		client.drop()
	}
}

// Close ends a session's connection once its queued messages are written.
func (h *Hub) Close(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if client, ok := h.clients[sessionID]; ok {
		delete(h.clients, sessionID)
		close(client.send)
		log.Printf("[WS] Closing session %s", sessionID)
	}
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("[WS] Write error for session %s: %v", c.sessionID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for session %s: %v", c.sessionID, err)
				return
			}
		}
	}
}
