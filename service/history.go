package service

import (
	"sync"

	"github.com/zlnvch/webboard/models"
)

// History is the ordered log of draw events since the last clear. It is the
// state replayed to clients joining the whiteboard.
type History struct {
	mu     sync.Mutex
	events []models.DrawEvent
	limit  int
}

// NewHistory creates an empty log. A positive limit keeps only the newest
// limit events; zero keeps everything until the next clear.
func NewHistory(limit int) *History {
	return &History{events: []models.DrawEvent{}, limit: limit}
}

func (h *History) Append(event models.DrawEvent) error {
	if event.Type == models.DrawClear {
		return ErrClearInHistory
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	if h.limit > 0 && len(h.events) >= 2*h.limit {
		// Trimmed in bulk; reads only ever see the newest limit events
		n := copy(h.events, h.retained())
		clear(h.events[n:])
		h.events = h.events[:n]
	}
	return nil
}

// retained is the part of the log visible to readers. Callers hold mu.
func (h *History) retained() []models.DrawEvent {
	if h.limit > 0 && len(h.events) > h.limit {
		return h.events[len(h.events)-h.limit:]
	}
	return h.events
}

func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	// New backing array: snapshots already handed out stay untouched
	h.events = []models.DrawEvent{}
}

// Snapshot returns a copy of the log. It is never nil.
func (h *History) Snapshot() []models.DrawEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	retained := h.retained()
	snapshot := make([]models.DrawEvent, len(retained))
	copy(snapshot, retained)
	return snapshot
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.retained())
}
