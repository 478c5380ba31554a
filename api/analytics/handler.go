// Package analytics exposes the city popularity stats endpoint.
package analytics

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	coreanalytics "logistics/core/analytics"
	"logistics/logger"
)

// Routes wires the analytics endpoints.
func Routes(agg *coreanalytics.Aggregator, log logger.Logger) chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(agg.Stats()); err != nil {
			log.Errorf("encode stats: %v", err)
		}
	})
	return r
}
