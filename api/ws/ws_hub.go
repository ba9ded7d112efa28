package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/pubsub"
	"github.com/zlnvch/webboard/service"
)

// Router is the session core the hub feeds. The hub calls it from its Run
// goroutine only.
type Router interface {
	Dispatch(connId string, endpoint string, data []byte) error
	Disconnect(connId string) bool
	ApplyRelayed(message []byte) error
}

type inboundMessage struct {
	client      *Client // nil for server-originated events
	destination string
	data        []byte
}

type outboundMessage struct {
	Channel models.Channel `json:"channel"`
	Data    any            `json:"data"`
}

// Hub owns the set of connected clients. Every inbound event, disconnect and
// relayed broadcast goes through Run, so the router sees one ordered stream.
type Hub struct {
	OpenCh    chan *Client
	CloseCh   chan *Client
	InboundCh chan inboundMessage
	RelayCh   chan []byte
	clients   map[string]*Client
	stale     []*Client
	metrics   *service.Metrics
}

func NewHub(metrics *service.Metrics) *Hub {
	if metrics == nil {
		metrics = service.NewMetrics()
	}
	return &Hub{
		OpenCh:    make(chan *Client, 256),
		CloseCh:   make(chan *Client, 256),
		InboundCh: make(chan inboundMessage, 1024),
		RelayCh:   make(chan []byte, 1024),
		clients:   make(map[string]*Client),
		metrics:   metrics,
	}
}

func (h *Hub) Run(shutdownCtx context.Context, router Router) {
	for {
		select {
		case client := <-h.OpenCh:
			h.open(client)

		case client := <-h.CloseCh:
			h.close(client, router)

		case msg := <-h.InboundCh:
			if msg.client != nil {
				if msg.client.state != stateConnected {
					continue
				}
				// The first message can win the select against OpenCh
				h.open(msg.client)
			}
			connId := ""
			if msg.client != nil {
				connId = msg.client.id
			}
			h.dispatch(router, connId, msg.destination, msg.data)

		case message := <-h.RelayCh:
			if err := router.ApplyRelayed(message); err != nil {
				log.Printf("Failed to apply relayed message: %v", err)
			}

		case <-shutdownCtx.Done():
			return
		}

		h.reapStale(router)
	}
}

func (h *Hub) open(client *Client) {
	if client.state != stateConnected {
		return
	}
	if _, ok := h.clients[client.id]; ok {
		return
	}
	h.clients[client.id] = client
	h.metrics.IncrementConnections()
}

func (h *Hub) close(client *Client, router Router) {
	if client.state != stateConnected {
		return
	}
	client.state = stateDisconnecting
	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		h.metrics.DecrementConnections()
	}
	// Also reached for a client never opened; its write pump must still stop
	h.closeSend(client)
	router.Disconnect(client.id)
	client.state = stateGone
}

func (h *Hub) dispatch(router Router, connId string, destination string, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic handling %s: %v", destination, r)
		}
	}()

	if err := router.Dispatch(connId, destination, data); err != nil {
		log.Printf("Dropped %s event from %s: %v", destination, connId, err)
	}
}

// reapStale disconnects clients dropped during a fan-out. Their departure
// broadcasts can drop further clients, so it loops until none are left.
func (h *Hub) reapStale(router Router) {
	for len(h.stale) > 0 {
		client := h.stale[0]
		h.stale = h.stale[1:]
		h.close(client, router)
	}
	h.stale = nil
}

// SendToAll queues payload on every connected client. A client whose buffer
// is full is dropped; the rest of the fan-out goes on.
func (h *Hub) SendToAll(channel models.Channel, payload any) {
	messageBytes, err := json.Marshal(outboundMessage{Channel: channel, Data: payload})
	if err != nil {
		log.Printf("Error marshaling %s broadcast: %v", channel, err)
		return
	}

	for _, client := range h.clients {
		h.send(client, messageBytes)
	}
}

func (h *Hub) SendToOne(connId string, channel models.Channel, payload any) {
	client, ok := h.clients[connId]
	if !ok {
		log.Printf("Dropping %s message for unknown connection %s", channel, connId)
		return
	}

	messageBytes, err := json.Marshal(outboundMessage{Channel: channel, Data: payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", channel, err)
		return
	}
	h.send(client, messageBytes)
}

func (h *Hub) send(client *Client, messageBytes []byte) {
	select {
	case client.Send <- messageBytes:
	default:
		log.Printf("Client %s send buffer full, dropping connection", client.id)
		h.metrics.IncrementSendErrors()
		// Removed from the fan-out set now; presence cleanup runs after the current event
		delete(h.clients, client.id)
		h.closeSend(client)
		h.metrics.DecrementConnections()
		h.stale = append(h.stale, client)
	}
}

func (h *Hub) closeSend(client *Client) {
	if client.sendClosed {
		return
	}
	client.sendClosed = true
	close(client.Send)
}

// ClientCount must only be called from the Run goroutine or when Run is not running.
func (h *Hub) ClientCount() int {
	return len(h.clients)
}

// submit queues msg for Run. It reports false if shutdownCtx ended first.
func (h *Hub) submit(shutdownCtx context.Context, msg inboundMessage) bool {
	select {
	case h.InboundCh <- msg:
		return true
	case <-shutdownCtx.Done():
		return false
	}
}

// SubmitClear queues a server-originated clear, used by the control queue
// consumer.
func (h *Hub) SubmitClear(shutdownCtx context.Context, event models.DrawEvent) {
	event.Type = models.DrawClear
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling clear event: %v", err)
		return
	}
	if !h.submit(shutdownCtx, inboundMessage{destination: models.EndpointWhiteboardClear, data: data}) {
		log.Printf("Dropping clear from %q: shutting down", event.Username)
	}
}

func (h *Hub) InitSubscriptions(shutdownCtx context.Context, relay pubsub.PubSub) error {
	err := relay.Subscribe(shutdownCtx, pubsub.EventsChannel, func(message []byte) {
		select {
		case h.RelayCh <- message:
		case <-shutdownCtx.Done():
		}
	})
	if err != nil {
		log.Printf("WS hub failed to subscribe to %s: %v", pubsub.EventsChannel, err)
		return err
	}
	return nil
}
