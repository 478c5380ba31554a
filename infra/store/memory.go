// Package store provides the persistence adapters: in-memory for tests
// and local runs, sqlite and postgres for durable state.
package store

import (
	"context"
	"sort"
	"sync"

	"logistics/core/model"
	"logistics/core/store"
)

// Memory is an in-memory implementation of both persistence ports.
type Memory struct {
	mu            sync.RWMutex
	vehicles      map[int64]model.Vehicle
	shipments     map[int64]model.Shipment
	nextVehicleID int64
	nextShipID    int64
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		vehicles:  map[int64]model.Vehicle{},
		shipments: map[int64]model.Shipment{},
	}
}

func (m *Memory) List(_ context.Context) ([]model.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Vehicle, 0, len(m.vehicles))
	for _, v := range m.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) Get(_ context.Context, id int64) (model.Vehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vehicles[id]
	if !ok {
		return model.Vehicle{}, store.ErrNotFound
	}
	return v, nil
}

func (m *Memory) Create(_ context.Context, v model.Vehicle) (model.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextVehicleID++
	v.ID = m.nextVehicleID
	m.vehicles[v.ID] = v
	return v, nil
}

func (m *Memory) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.vehicles)), nil
}

// Claim flips availability under the store lock, so concurrent claims of
// the same vehicle serialize and only one succeeds.
func (m *Memory) Claim(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[id]
	if !ok {
		return false, store.ErrNotFound
	}
	if !v.Available {
		return false, nil
	}
	v.Available = false
	m.vehicles[id] = v
	return true, nil
}

// Shipments returns the Memory store viewed as a ShipmentStore. Memory
// implements both ports; the method exists for call-site clarity.
func (m *Memory) Shipments() store.ShipmentStore { return (*memoryShipments)(m) }

type memoryShipments Memory

func (m *memoryShipments) List(_ context.Context) ([]model.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryShipments) Create(_ context.Context, s model.Shipment) (model.Shipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextShipID++
	s.ID = m.nextShipID
	m.shipments[s.ID] = s
	return s, nil
}
