package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one live channel: a websocket connection subscribed to exactly
// one room on behalf of one participant.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	roomCode string
	userID   string
}

// NewClient wraps an upgraded connection
func NewClient(conn *websocket.Conn, roomCode, userID string) *Client {
	return &Client{
		conn:     conn,
		send:     make(chan []byte, 256),
		roomCode: roomCode,
		userID:   userID,
	}
}

// RoomCode returns the room this channel is subscribed to
func (c *Client) RoomCode() string {
	return c.roomCode
}

// UserID returns the participant this channel belongs to
func (c *Client) UserID() string {
	return c.userID
}

// ReadPump consumes the connection until it drops. Inbound frames carry no
// protocol meaning; reading them keeps pong handling alive and detects the
// disconnect. Returns when the connection is gone.
func (c *Client) ReadPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump drains the send queue onto the wire and keeps the connection
// alive with pings. Exits when the queue is closed or a write fails.
func (c *Client) WritePump() {
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
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
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
