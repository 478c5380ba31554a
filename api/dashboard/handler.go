// Package dashboard streams dispatch notifications to connected clients
// over server-sent events.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"logistics/core/events"
	"logistics/internal/eventbus"
	"logistics/logger"
)

// Routes wires the dashboard stream endpoint.
func Routes(bus *eventbus.Bus[events.DashboardNotification], log logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Get("/events", stream(bus, log))
	return r
}

func stream(bus *eventbus.Bus[events.DashboardNotification], log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		flusher.Flush()

		sub := bus.Subscribe()
		defer bus.Unsubscribe(sub)

		for {
			select {
			case <-r.Context().Done():
				return
			case n, open := <-sub:
				if !open {
					return
				}
				payload, err := json.Marshal(n)
				if err != nil {
					log.Errorf("encode notification: %v", err)
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}

// BusNotifier adapts the in-process bus to the events.Notifier port so
// the dispatch flow can feed connected dashboards without a broker.
type BusNotifier struct {
	Bus *eventbus.Bus[events.DashboardNotification]
}

func (b BusNotifier) NotifyDispatched(_ context.Context, n events.DashboardNotification) error {
	b.Bus.Publish(n)
	return nil
}
