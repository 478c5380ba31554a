// Package analytics maintains the in-memory city popularity index fed by
// route events.
package analytics

import (
	"context"
	"sync"

	"logistics/core/events"
	"logistics/logger"
)

// Aggregator counts dispatches per destination city. Counts are
// cumulative for the process lifetime; nothing is persisted.
type Aggregator struct {
	mu     sync.RWMutex
	counts map[string]int
	log    logger.Logger
}

// New creates an Aggregator with an empty index.
func New(log logger.Logger) *Aggregator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Aggregator{counts: make(map[string]int), log: log}
}

// HandleRouteEvent increments the counter for the event's destination
// city. Duplicate deliveries inflate the count; the index is a trend
// indicator, not an exact ledger.
func (a *Aggregator) HandleRouteEvent(_ context.Context, ev events.RouteEvent) error {
	a.mu.Lock()
	a.counts[ev.Destination]++
	total := a.counts[ev.Destination]
	a.mu.Unlock()

	a.log.Infof("new dispatch to %s, total for city: %d", ev.Destination, total)
	return nil
}

// Stats returns a snapshot of the city popularity index.
func (a *Aggregator) Stats() map[string]int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]int, len(a.counts))
	for city, n := range a.counts {
		out[city] = n
	}
	return out
}
