// Package fleet reacts to shipment events by committing vehicles to
// shipments.
package fleet

import (
	"context"
	"errors"
	"fmt"

	"logistics/core/events"
	"logistics/core/store"
	"logistics/logger"
)

// Outcome describes what a shipment event did to the fleet.
type Outcome int

const (
	// OutcomeClaimed means the vehicle was available and is now committed.
	OutcomeClaimed Outcome = iota
	// OutcomeConflict means the vehicle was already occupied; the event is
	// dropped.
	OutcomeConflict
	// OutcomeMissing means the referenced vehicle does not exist; the
	// event is dropped.
	OutcomeMissing
)

// Dispatcher consumes shipment events and flips vehicle availability.
// There is no release path: vehicles never return to available here.
type Dispatcher struct {
	vehicles store.VehicleStore
	log      logger.Logger
}

// NewDispatcher creates a Dispatcher backed by the given vehicle store.
func NewDispatcher(vehicles store.VehicleStore, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Dispatcher{vehicles: vehicles, log: log}
}

// HandleShipmentEvent claims the referenced vehicle. Missing vehicles and
// conflicts are logged and dropped without retry; only storage failures
// are returned so the broker can redeliver.
func (d *Dispatcher) HandleShipmentEvent(ctx context.Context, ev events.ShipmentEvent) (Outcome, error) {
	d.log.Infof("received shipment event trackingId=%s vehicleId=%d", ev.TrackingID, ev.VehicleID)

	claimed, err := d.vehicles.Claim(ctx, ev.VehicleID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		d.log.Errorf("vehicle %d not found, dropping event %s", ev.VehicleID, ev.TrackingID)
		return OutcomeMissing, nil
	case err != nil:
		return 0, fmt.Errorf("claim vehicle %d: %w", ev.VehicleID, err)
	case claimed:
		d.log.Infof("vehicle %d is now IN_TRANSIT for %s", ev.VehicleID, ev.TrackingID)
		return OutcomeClaimed, nil
	default:
		d.log.Warnf("vehicle %d is already occupied, dropping event %s", ev.VehicleID, ev.TrackingID)
		return OutcomeConflict, nil
	}
}
