package service

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Registry maps connection ids to the display name each connection joined
// with. Names are not unique: two connections may share one.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]string
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]string)}
}

// Register associates username with connId, replacing any previous name.
func (r *Registry) Register(connId string, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connId] = username
}

// Unregister removes connId and returns the name it had joined with.
func (r *Registry) Unregister(connId string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username, ok := r.sessions[connId]
	if ok {
		delete(r.sessions, connId)
	}
	return username, ok
}

func (r *Registry) Lookup(connId string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	username, ok := r.sessions[connId]
	return username, ok
}

// Participants returns the distinct registered names in sorted order.
func (r *Registry) Participants() []string {
	r.mu.Lock()
	names := lo.Uniq(lo.Values(r.sessions))
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
