package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"chatspace/internal/models"
	"chatspace/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Client is one live connection. The session ID distinguishes it from
// any other connection the same user may open; the registry's stale-
// disconnect guard compares it.
type Client struct {
	conn      *websocket.Conn
	registry  *Registry
	userID    string
	sessionID string

	mu     sync.Mutex
	send   chan []byte
	closed bool
}

func NewClient(registry *Registry, conn *websocket.Conn, userID string) *Client {
	return &Client{
		conn:      conn,
		registry:  registry,
		userID:    userID,
		sessionID: uuid.NewString(),
		send:      make(chan []byte, sendBuffer),
	}
}

func (c *Client) UserID() string    { return c.userID }
func (c *Client) SessionID() string { return c.sessionID }

// TrySend queues a payload for delivery without blocking. A full buffer
// or an already-closed connection drops the payload: live pushes are
// best-effort, durability lives in storage.
func (c *Client) TrySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// SendEvent marshals an envelope and queues it on this connection.
func (c *Client) SendEvent(event string, data interface{}) bool {
	payload, err := json.Marshal(models.Envelope{Event: event, Data: data})
	if err != nil {
		logger.Error("Error marshaling %s event: %v", event, err)
		return false
	}
	return c.TrySend(payload)
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump drains the connection until it drops. Clients send nothing
// meaningful after the handshake (all writes go through the HTTP API),
// so reading exists to detect disconnects and answer pings. Exactly one
// Unregister runs per connection, from here.
func (c *Client) ReadPump() {
	defer func() {
		c.registry.Unregister(c)
		c.close()
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				logger.Error("WebSocket error: %v", err)
			}
			break
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("Write error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
