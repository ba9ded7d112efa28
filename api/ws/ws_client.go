package ws

import (
	"context"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024 * 16

	// Outbound buffer per client. A history batch counts as one message.
	sendBufferSize = 256
)

type connState int

const (
	stateConnected connState = iota
	stateDisconnecting
	stateGone
)

type MessageHandler func(shutdownCtx context.Context, client *Client, messageType int, messageBytes []byte)

type RateLimit struct {
	MessagesPerSecond float64
	Burst             int
}

func NewClient(hub *Hub, conn *websocket.Conn, id string, handler MessageHandler, limit RateLimit) *Client {
	return &Client{
		id:      id,
		hub:     hub,
		conn:    conn,
		handler: handler,
		Send:    make(chan []byte, sendBufferSize),
		limiter: rate.NewLimiter(rate.Limit(limit.MessagesPerSecond), limit.Burst),
	}
}

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	id      string
	hub     *Hub
	conn    *websocket.Conn
	handler MessageHandler
	Send    chan []byte // Buffered channel of outbound messages, closed by the hub.
	limiter *rate.Limiter

	// Owned by the hub goroutine
	state      connState
	sendClosed bool
}

func (c *Client) ReadPump(shutdownCtx context.Context) {
	defer func() {
		select {
		case c.hub.CloseCh <- c:
		case <-shutdownCtx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		messageType, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS close error: %v", err)
			}
			break
		}

		if !c.limiter.Allow() {
			log.Printf("Closing connection %s: message rate limit exceeded", c.id)
			c.hub.metrics.IncrementRateLimitViolations()
			break
		}

		c.handler(shutdownCtx, c, messageType, messageBytes)
	}
}

func (c *Client) WritePump(shutdownCtx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WS send error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-shutdownCtx.Done():
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Whiteboard service shutting down"),
			)
			return
		}
	}
}
