// Package vehicles exposes the fleet CRUD endpoints.
package vehicles

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"logistics/core/model"
	"logistics/core/store"
	"logistics/logger"
)

// Routes wires the vehicle endpoints.
func Routes(vehicles store.VehicleStore, log logger.Logger) chi.Router {
	h := &handler{vehicles: vehicles, log: log}
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	return r
}

type handler struct {
	vehicles store.VehicleStore
	log      logger.Logger
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	all, err := h.vehicles.List(r.Context())
	if err != nil {
		h.log.Errorf("list vehicles: %v", err)
		http.Error(w, "failed to list vehicles", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(all); err != nil {
		h.log.Errorf("encode vehicles: %v", err)
	}
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var v model.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	v.ID = 0
	v.Available = true
	created, err := h.vehicles.Create(r.Context(), v)
	if err != nil {
		h.log.Errorf("create vehicle: %v", err)
		http.Error(w, "failed to create vehicle", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		h.log.Errorf("encode vehicle: %v", err)
	}
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid vehicle id", http.StatusBadRequest)
		return
	}
	v, err := h.vehicles.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "vehicle not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Errorf("get vehicle %d: %v", id, err)
		http.Error(w, "failed to load vehicle", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("encode vehicle: %v", err)
	}
}
