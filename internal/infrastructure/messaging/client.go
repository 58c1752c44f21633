package messaging

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is a single connected feed websocket.
type Client struct {
	Conn   *websocket.Conn
	UserID string
	Send   chan []byte
}

// NewClient wraps an upgraded connection.
func NewClient(conn *websocket.Conn, userID string) *Client {
	return &Client{Conn: conn, UserID: userID, Send: make(chan []byte, 16)}
}

// Serve registers the client and pumps messages until the connection drops.
// It blocks until the client disconnects.
func (h *FeedHub) Serve(client *Client) {
	h.Register(client)
	go client.writePump()
	client.readPump(h)
}

// readPump discards inbound frames and keeps the pong deadline fresh. It
// unregisters the client on any read error.
func (c *Client) readPump(h *FeedHub) {
	defer func() {
		h.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards queued events and pings until Send is closed.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
