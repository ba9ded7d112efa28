package service

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Metrics counts server activity. All methods are safe for concurrent use.
type Metrics struct {
	activeConnections   int64
	totalConnections    int64
	eventsReceived      int64
	eventsDropped       int64
	broadcasts          int64
	sendErrors          int64
	relayErrors         int64
	rateLimitViolations int64
	lastEventTime       int64 // Unix timestamp

	startTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

func (m *Metrics) IncrementConnections() {
	atomic.AddInt64(&m.activeConnections, 1)
	atomic.AddInt64(&m.totalConnections, 1)
}

func (m *Metrics) DecrementConnections() {
	atomic.AddInt64(&m.activeConnections, -1)
}

func (m *Metrics) IncrementEventsReceived() {
	atomic.AddInt64(&m.eventsReceived, 1)
	atomic.StoreInt64(&m.lastEventTime, time.Now().Unix())
}

func (m *Metrics) IncrementEventsDropped() {
	atomic.AddInt64(&m.eventsDropped, 1)
}

func (m *Metrics) IncrementBroadcasts() {
	atomic.AddInt64(&m.broadcasts, 1)
}

func (m *Metrics) IncrementSendErrors() {
	atomic.AddInt64(&m.sendErrors, 1)
}

func (m *Metrics) IncrementRelayErrors() {
	atomic.AddInt64(&m.relayErrors, 1)
}

func (m *Metrics) IncrementRateLimitViolations() {
	atomic.AddInt64(&m.rateLimitViolations, 1)
}

type MetricsSnapshot struct {
	ActiveConnections   int64  `json:"activeConnections"`
	TotalConnections    int64  `json:"totalConnections"`
	Participants        int    `json:"participants"`
	HistoryLength       int    `json:"historyLength"`
	EventsReceived      int64  `json:"eventsReceived"`
	EventsDropped       int64  `json:"eventsDropped"`
	Broadcasts          int64  `json:"broadcasts"`
	SendErrors          int64  `json:"sendErrors"`
	RelayErrors         int64  `json:"relayErrors"`
	RateLimitViolations int64  `json:"rateLimitViolations"`
	LastEventTime       string `json:"lastEventTime"`
	UptimeSeconds       int64  `json:"uptimeSeconds"`
	NumGoroutines       int    `json:"numGoroutines"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	lastEvent := atomic.LoadInt64(&m.lastEventTime)
	lastEventStr := "never"
	if lastEvent > 0 {
		lastEventStr = time.Unix(lastEvent, 0).UTC().Format(time.RFC3339)
	}

	return MetricsSnapshot{
		ActiveConnections:   atomic.LoadInt64(&m.activeConnections),
		TotalConnections:    atomic.LoadInt64(&m.totalConnections),
		EventsReceived:      atomic.LoadInt64(&m.eventsReceived),
		EventsDropped:       atomic.LoadInt64(&m.eventsDropped),
		Broadcasts:          atomic.LoadInt64(&m.broadcasts),
		SendErrors:          atomic.LoadInt64(&m.sendErrors),
		RelayErrors:         atomic.LoadInt64(&m.relayErrors),
		RateLimitViolations: atomic.LoadInt64(&m.rateLimitViolations),
		LastEventTime:       lastEventStr,
		UptimeSeconds:       int64(time.Since(m.startTime).Seconds()),
		NumGoroutines:       runtime.NumGoroutine(),
	}
}

// Stats is the metrics snapshot plus the current session state.
func (s *Service) Stats() MetricsSnapshot {
	snapshot := s.Metrics.Snapshot()
	snapshot.Participants = s.Registry.Count()
	snapshot.HistoryLength = s.History.Len()
	return snapshot
}
