package service

import (
	"github.com/gofrs/uuid/v5"
	"github.com/zlnvch/webboard/models"
	"github.com/zlnvch/webboard/pubsub"
	"github.com/zlnvch/webboard/worker"
)

// Broadcaster delivers outbound payloads to connected clients.
type Broadcaster interface {
	SendToAll(channel models.Channel, payload any)
	SendToOne(connId string, channel models.Channel, payload any)
}

const DefaultCanvasBackground = "#ffffff"

type Options struct {
	// Color written into every ERASE event.
	CanvasBackground string
	// Maximum retained draw events, 0 for no limit.
	HistoryLimit int
}

// Service owns the shared session state and applies every inbound event to
// it. It is not safe to call Dispatch, Disconnect or ApplyRelayed from more
// than one goroutine; the websocket hub is the only caller.
type Service struct {
	Registry    *Registry
	History     *History
	Broadcaster Broadcaster
	Relay       pubsub.PubSub
	Transcript  *worker.TranscriptBatcher
	Metrics     *Metrics
	InstanceId  string

	canvasBackground string
	routes           map[string]routeHandler
	relayCh          chan []byte
}

// NewService wires the core. relay and transcript may be nil.
func NewService(
	broadcaster Broadcaster,
	relay pubsub.PubSub,
	transcript *worker.TranscriptBatcher,
	metrics *Metrics,
	opts Options,
) (*Service, error) {
	instanceId, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	if opts.CanvasBackground == "" {
		opts.CanvasBackground = DefaultCanvasBackground
	}
	if metrics == nil {
		metrics = NewMetrics()
	}

	s := &Service{
		Registry:         NewRegistry(),
		History:          NewHistory(opts.HistoryLimit),
		Broadcaster:      broadcaster,
		Relay:            relay,
		Transcript:       transcript,
		Metrics:          metrics,
		InstanceId:       instanceId.String(),
		canvasBackground: opts.CanvasBackground,
		relayCh:          make(chan []byte, 1024),
	}
	s.routes = s.routeTable()

	return s, nil
}
