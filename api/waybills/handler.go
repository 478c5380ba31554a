// Package waybills exposes waybill generation, listing and download.
package waybills

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"logistics/core/events"
	"logistics/core/waybill"
	"logistics/logger"
	"logistics/metrics"
)

// Routes wires the waybill endpoints.
func Routes(gen *waybill.Generator, m *metrics.Metrics, log logger.Logger) chi.Router {
	h := &handler{gen: gen, metrics: m, log: log}
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/generate", h.generate)
	r.Post("/generate-download", h.generateDownload)
	r.Get("/{filename}", h.download)
	return r
}

type handler struct {
	gen     *waybill.Generator
	metrics *metrics.Metrics
	log     logger.Logger
}

func (h *handler) render(w http.ResponseWriter, r *http.Request) (string, bool) {
	var ev events.ShipmentEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return "", false
	}
	name, err := h.gen.Generate(ev)
	if err != nil {
		h.log.Errorf("generate waybill: %v", err)
		http.Error(w, "failed to generate waybill", http.StatusInternalServerError)
		return "", false
	}
	if h.metrics != nil {
		h.metrics.WaybillsGenerated.Inc()
	}
	return name, true
}

func (h *handler) generate(w http.ResponseWriter, r *http.Request) {
	name, ok := h.render(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Generated: %s", name)
}

func (h *handler) generateDownload(w http.ResponseWriter, r *http.Request) {
	name, ok := h.render(w, r)
	if !ok {
		return
	}
	h.serve(w, r, name)
}

func (h *handler) list(w http.ResponseWriter, _ *http.Request) {
	names, err := h.gen.List()
	if err != nil {
		h.log.Errorf("list waybills: %v", err)
		http.Error(w, "failed to list waybills", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(names); err != nil {
		h.log.Errorf("encode waybills: %v", err)
	}
}

func (h *handler) download(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, chi.URLParam(r, "filename"))
}

func (h *handler) serve(w http.ResponseWriter, r *http.Request, name string) {
	path, err := h.gen.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "waybill not found", http.StatusNotFound)
			return
		}
		http.Error(w, "invalid waybill name", http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
