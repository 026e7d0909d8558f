package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"comall/internal/observability"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// ClientFrame is any inbound frame; the event field selects which of
// the remaining fields are meaningful.
type ClientFrame struct {
	Event  string       `json:"event"`
	UserID string       `json:"userId,omitempty"`
	Data   *ChatPayload `json:"data,omitempty"`
}

// Client is one websocket connection. Its identity is unset until the
// peer sends a register frame.
type Client struct {
	connID   string
	userID   string
	conn     *websocket.Conn
	send     chan []byte
	presence *Presence
	router   *Router
}

// ReadPump consumes frames until the connection drops, then cleans up
// the presence entry this client still owns.
func (c *Client) ReadPump() {
	defer func() {
		if c.userID != "" {
			c.presence.Unregister(c.userID, c)
		}
		c.conn.Close()
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
		c.handleFrame(message)
	}
}

// WritePump drains the send channel and keeps the connection alive with
// pings. Once the connection is closed the next ping write fails and
// the pump exits.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func (c *Client) handleFrame(message []byte) {
	var frame ClientFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		return
	}

	switch frame.Event {
	case "register":
		c.handleRegister(frame.UserID)
	case "chat":
		if frame.Data != nil {
			c.router.Route(frame.Data.FromUserID, frame.Data.ToUserID, frame.Data.Content)
		}
	}
}

// handleRegister binds this connection to the user. A reconnect simply
// supersedes the old handle; the old connection stays open but is no
// longer routable.
func (c *Client) handleRegister(userID string) {
	if userID == "" {
		return
	}
	if c.userID != "" && c.userID != userID {
		// Rebinding to a different identity releases the old one.
		c.presence.Unregister(c.userID, c)
	}
	c.userID = userID
	c.presence.Register(userID, c)
	observability.IncWSEvent("register")
	log.Printf("user %s registered conn %s", userID, c.connID)
}
