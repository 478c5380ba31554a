// Package shipments exposes the shipment dispatch and listing endpoints.
package shipments

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"logistics/core/shipping"
	"logistics/core/store"
	"logistics/logger"
	"logistics/metrics"
)

// Routes wires the shipment endpoints.
func Routes(svc *shipping.Service, shipments store.ShipmentStore, m *metrics.Metrics, log logger.Logger) chi.Router {
	h := &handler{svc: svc, shipments: shipments, metrics: m, log: log}
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/dispatch", h.dispatch)
	r.Get("/label/{trackingId}", h.label)
	return r
}

type handler struct {
	svc       *shipping.Service
	shipments store.ShipmentStore
	metrics   *metrics.Metrics
	log       logger.Logger
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.shipments.List(r.Context())
	if err != nil {
		h.log.Errorf("list shipments: %v", err)
		http.Error(w, "failed to list shipments", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(all); err != nil {
		h.log.Errorf("encode shipments: %v", err)
	}
}

func (h *handler) dispatch(w http.ResponseWriter, r *http.Request) {
	var req shipping.DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	sh, err := h.svc.Dispatch(r.Context(), req)
	if err != nil {
		h.log.Errorf("dispatch shipment: %v", err)
		http.Error(w, "failed to dispatch shipment", http.StatusInternalServerError)
		return
	}
	if h.metrics != nil {
		h.metrics.ShipmentsDispatched.Inc()
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Shipment Dispatched Successfully! Tracking ID: %s", sh.TrackingID)
}

// label renders the static shipping label for a tracking id as a
// downloadable HTML document.
func (h *handler) label(w http.ResponseWriter, r *http.Request) {
	trackingID := chi.URLParam(r, "trackingId")
	label := "<html><body>" +
		"<div style='border: 2px solid black; padding: 20px; width: 300px; font-family: monospace;'>" +
		"<h1 style='text-align: center;'>LOGISTICS APP</h1>" +
		"<hr/>" +
		"<h3>TRACKING: " + trackingID + "</h3>" +
		"<p><strong>PRIORITY SHIPMENT</strong></p>" +
		"<p>From: Warehouse A<br/>To: Customer Location</p>" +
		"<div style='text-align: center; margin-top: 20px;'>" +
		"<div style='background: black; height: 50px; width: 80%; margin: 0 auto;'></div>" +
		"<p>" + trackingID + "</p>" +
		"</div>" +
		"</div>" +
		"</body></html>"

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "label-"+trackingID+".html"))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(label))
}
