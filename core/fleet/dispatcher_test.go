package fleet

import (
	"context"
	"errors"
	"testing"

	"logistics/core/events"
	"logistics/core/model"
	"logistics/core/store"
	"logistics/logger"
)

type fakeVehicleStore struct {
	claims  map[int64]bool
	missing bool
	failErr error
}

func (f *fakeVehicleStore) List(context.Context) ([]model.Vehicle, error) { return nil, nil }

func (f *fakeVehicleStore) Get(context.Context, int64) (model.Vehicle, error) {
	return model.Vehicle{}, store.ErrNotFound
}

func (f *fakeVehicleStore) Create(_ context.Context, v model.Vehicle) (model.Vehicle, error) {
	return v, nil
}

func (f *fakeVehicleStore) Count(context.Context) (int64, error) { return 0, nil }

func (f *fakeVehicleStore) Claim(_ context.Context, id int64) (bool, error) {
	if f.failErr != nil {
		return false, f.failErr
	}
	if f.missing {
		return false, store.ErrNotFound
	}
	if f.claims[id] {
		return false, nil
	}
	if f.claims == nil {
		f.claims = map[int64]bool{}
	}
	f.claims[id] = true
	return true, nil
}

func TestDispatcher_ClaimsAvailableVehicle(t *testing.T) {
	vs := &fakeVehicleStore{}
	d := NewDispatcher(vs, logger.NopLogger{})
	out, err := d.HandleShipmentEvent(context.Background(), events.ShipmentEvent{VehicleID: 1, TrackingID: "T-1"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if out != OutcomeClaimed {
		t.Fatalf("expected claim, got %v", out)
	}
}

func TestDispatcher_ConflictIsDropped(t *testing.T) {
	vs := &fakeVehicleStore{claims: map[int64]bool{1: true}}
	d := NewDispatcher(vs, logger.NopLogger{})
	out, err := d.HandleShipmentEvent(context.Background(), events.ShipmentEvent{VehicleID: 1, TrackingID: "T-2"})
	if err != nil {
		t.Fatalf("conflict must not surface an error: %v", err)
	}
	if out != OutcomeConflict {
		t.Fatalf("expected conflict, got %v", out)
	}
}

func TestDispatcher_MissingVehicleIsDropped(t *testing.T) {
	vs := &fakeVehicleStore{missing: true}
	d := NewDispatcher(vs, logger.NopLogger{})
	out, err := d.HandleShipmentEvent(context.Background(), events.ShipmentEvent{VehicleID: 42, TrackingID: "T-3"})
	if err != nil {
		t.Fatalf("missing vehicle must not surface an error: %v", err)
	}
	if out != OutcomeMissing {
		t.Fatalf("expected missing, got %v", out)
	}
}

func TestDispatcher_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	vs := &fakeVehicleStore{failErr: boom}
	d := NewDispatcher(vs, logger.NopLogger{})
	if _, err := d.HandleShipmentEvent(context.Background(), events.ShipmentEvent{VehicleID: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
}
