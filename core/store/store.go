// Package store declares the persistence ports for vehicles and shipments.
package store

import (
	"context"
	"errors"

	"logistics/core/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// VehicleStore persists fleet vehicles.
type VehicleStore interface {
	List(ctx context.Context) ([]model.Vehicle, error)
	Get(ctx context.Context, id int64) (model.Vehicle, error)
	Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error)
	Count(ctx context.Context) (int64, error)

	// Claim atomically flips the vehicle's availability from true to
	// false. It returns false with a nil error when the vehicle exists
	// but is already claimed, and ErrNotFound when it does not exist.
	// Implementations must use a single conditional update so that two
	// concurrent claims of the same vehicle cannot both succeed.
	Claim(ctx context.Context, id int64) (bool, error)
}

// ShipmentStore persists shipments.
type ShipmentStore interface {
	List(ctx context.Context) ([]model.Shipment, error)
	Create(ctx context.Context, s model.Shipment) (model.Shipment, error)
}
