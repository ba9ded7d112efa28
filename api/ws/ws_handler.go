package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/websocket"
)

type Handler struct {
	Hub       *Hub
	RateLimit RateLimit
}

func NewHandler(hub *Hub, rateLimit RateLimit) *Handler {
	return &Handler{
		Hub:       hub,
		RateLimit: rateLimit,
	}
}

// NewWsUpgrader accepts origins listed in allowedOrigins. An entry ending in
// ":*" matches any port on that host. An empty list accepts every origin.
func (h *Handler) NewWsUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(r.Header.Get("Origin"), allowedOrigins)
		},
	}
}

func originAllowed(origin string, allowedOrigins []string) bool {
	if len(allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range allowedOrigins {
		if prefix, ok := strings.CutSuffix(allowed, ":*"); ok {
			if origin == prefix || strings.HasPrefix(origin, prefix+":") {
				return true
			}
			continue
		}
		if origin == allowed {
			return true
		}
	}
	return false
}

// ServeWS handles websocket requests from the peer.
func (h *Handler) ServeWS(wsUpgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request, shutdownCtx context.Context) {
	connId, err := uuid.NewV7()
	if err != nil {
		log.Printf("Failed to generate connection id: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade ws connection: %v", err)
		return
	}

	client := NewClient(h.Hub, conn, connId.String(), h.HandleWsMessage, h.RateLimit)

	select {
	case h.Hub.OpenCh <- client:
	case <-shutdownCtx.Done():
		conn.Close()
		return
	}

	go client.ReadPump(shutdownCtx)
	go client.WritePump(shutdownCtx)
}

// Websocket message structs
type message struct {
	Destination string          `json:"destination"`
	Data        json.RawMessage `json:"data"`
}

// STOMP-style clients address endpoints as /app/<endpoint>.
const appDestinationPrefix = "/app/"

// HandleWsMessage queues a client message for the hub. It gives up once
// shutdownCtx is done, when the hub may no longer be reading.
func (h *Handler) HandleWsMessage(shutdownCtx context.Context, client *Client, messageType int, messageBytes []byte) {
	if messageType != websocket.TextMessage {
		log.Printf("Ignoring non-text frame from %s", client.id)
		return
	}

	var msg message
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		log.Printf("Invalid JSON: %v", err)
		return
	}

	destination := strings.TrimPrefix(msg.Destination, appDestinationPrefix)
	h.Hub.submit(shutdownCtx, inboundMessage{client: client, destination: destination, data: msg.Data})
}
