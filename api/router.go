// Package api assembles the REST gateway router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apianalytics "logistics/api/analytics"
	"logistics/api/dashboard"
	apishipments "logistics/api/shipments"
	apivehicles "logistics/api/vehicles"
	apiwaybills "logistics/api/waybills"
	coreanalytics "logistics/core/analytics"
	"logistics/core/events"
	"logistics/core/shipping"
	"logistics/core/store"
	"logistics/core/waybill"
	"logistics/internal/eventbus"
	"logistics/logger"
	"logistics/metrics"
)

// Deps carries the components the gateway endpoints are built from.
type Deps struct {
	Vehicles  store.VehicleStore
	Shipments store.ShipmentStore
	Shipping  *shipping.Service
	Analytics *coreanalytics.Aggregator
	Waybills  *waybill.Generator
	Dashboard *eventbus.Bus[events.DashboardNotification]
	Metrics   *metrics.Metrics
	Log       logger.Logger
}

// NewRouter wires all HTTP handlers with their dependencies. This is the
// gateway composition root; handlers stay unaware of concrete adapters.
func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = logger.NopLogger{}
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(d.Log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Mount("/shipments", apishipments.Routes(d.Shipping, d.Shipments, d.Metrics, d.Log))
		r.Mount("/vehicles", apivehicles.Routes(d.Vehicles, d.Log))
		r.Mount("/analytics", apianalytics.Routes(d.Analytics, d.Log))
		r.Mount("/waybills", apiwaybills.Routes(d.Waybills, d.Metrics, d.Log))
		r.Mount("/dashboard", dashboard.Routes(d.Dashboard, d.Log))
	})
	return r
}

func requestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Infof("%s %s -> %d (%s)", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
