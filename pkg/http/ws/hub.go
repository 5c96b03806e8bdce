package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket connections and fans session snapshots out to
// every observer of a session.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection // connection_id -> connection
	sessions    map[string][]uuid.UUID    // session_id -> []connection_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		sessions:    make(map[string][]uuid.UUID),
		logger:      logger,
	}
}

// Register adds a connection observing a session and returns its id.
func (h *Hub) Register(sessionID string, conn *Connection) uuid.UUID {
	connID := uuid.New()

	h.mu.Lock()
	h.connections[connID] = conn
	h.sessions[sessionID] = append(h.sessions[sessionID], connID)
	h.mu.Unlock()

	h.logger.Info().
		Str("connection_id", connID.String()).
		Str("session_id", sessionID).
		Msg("observer registered")
	return connID
}

// Unregister drops a connection and its session membership.
func (h *Hub) Unregister(connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn, exists := h.connections[connID]
	if !exists {
		return
	}
	conn.Close()
	delete(h.connections, connID)

	for sessionID, ids := range h.sessions {
		for i, id := range ids {
			if id == connID {
				h.sessions[sessionID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(h.sessions[sessionID]) == 0 {
			delete(h.sessions, sessionID)
		}
	}
	h.logger.Info().Str("connection_id", connID.String()).Msg("observer unregistered")
}

// BroadcastToSession sends a message to every observer of a session.
func (h *Hub) BroadcastToSession(sessionID string, msg Message) error {
	h.mu.RLock()
	ids := h.sessions[sessionID]
	conns := make([]*Connection, 0, len(ids))
	for _, id := range ids {
		if conn, ok := h.connections[id]; ok {
			conns = append(conns, conn)
		}
	}
	h.mu.RUnlock()

	var firstErr error
	for _, conn := range conns {
		if err := conn.Send(msg); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// CloseSession disconnects every observer of a session, sending msg
// first as a best effort.
func (h *Hub) CloseSession(sessionID string, msg Message) {
	h.mu.Lock()
	ids := h.sessions[sessionID]
	delete(h.sessions, sessionID)
	conns := make([]*Connection, 0, len(ids))
	for _, id := range ids {
		if conn, ok := h.connections[id]; ok {
			conns = append(conns, conn)
			delete(h.connections, id)
		}
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Send(msg)
		conn.Close()
	}
}

// Observers reports how many connections watch a session.
func (h *Hub) Observers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close stops accepting sends. The write pump drains whatever is
// queued, sends a close frame and closes the socket, so a message
// queued right before Close still reaches the client.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
}

// WritePump sends messages from the send queue.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	// Set read deadline to 60 seconds, extend on pong
	readDeadline := time.Now().Add(60 * time.Second)
	c.conn.SetReadDeadline(readDeadline)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
