package ws

import (
	"context"
	"sync"
	"time"
)

// Registry tracks currently connected subscribers. It is the only shared
// mutable state in the process; its lock is never held across network writes.
type Registry struct {
	mu           sync.RWMutex
	subscribers  map[*Subscriber]struct{}
	pingInterval time.Duration
}

// NewRegistry builds subscriber registry.
func NewRegistry(pingInterval time.Duration) *Registry {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Registry{
		subscribers:  make(map[*Subscriber]struct{}),
		pingInterval: pingInterval,
	}
}

// Add registers a subscriber. Adding one that is already present is a no-op.
func (r *Registry) Add(sub *Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[sub] = struct{}{}
}

// Remove unregisters a subscriber. Removing an absent one is a no-op.
func (r *Registry) Remove(sub *Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers, sub)
}

// Snapshot returns a copy of the current membership. Callers iterate the copy,
// unaffected by concurrent Add/Remove.
func (r *Registry) Snapshot() []*Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs := make([]*Subscriber, 0, len(r.subscribers))
	for sub := range r.subscribers {
		subs = append(subs, sub)
	}
	return subs
}

// Len returns current subscriber count.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers)
}

// Start begins the ping loop that keeps connections active and evicts dead ones.
func (r *Registry) Start(ctx context.Context) {
	ticker := time.NewTicker(r.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, sub := range r.Snapshot() {
				if err := sub.Ping(); err != nil {
					r.Remove(sub)
					sub.Close()
				}
			}
		}
	}
}
