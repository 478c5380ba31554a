package store

import (
	"context"
	"fmt"

	"logistics/core/model"
	"logistics/core/store"
	"logistics/logger"
)

// demoFleet is the fleet loaded on first start.
var demoFleet = []model.Vehicle{
	{LicensePlate: "CJ-99-LOG", Model: "Mercedes-Benz Sprinter", VehicleType: "VAN", CapacityKg: 1500, FuelLevel: 100, Available: true},
	{LicensePlate: "B-102-TFL", Model: "Volvo FH16", VehicleType: "HEAVY_TRUCK", CapacityKg: 24000, FuelLevel: 80, Available: true},
	{LicensePlate: "CJ-22-DEL", Model: "Ford Transit", VehicleType: "VAN", CapacityKg: 2000, FuelLevel: 95, Available: true},
	{LicensePlate: "B-55-FAST", Model: "Scania R500", VehicleType: "HEAVY_TRUCK", CapacityKg: 18000, FuelLevel: 100, Available: true},
}

// SeedDemoFleet inserts the demo vehicles when the vehicle table is
// empty. Repeated calls are no-ops.
func SeedDemoFleet(ctx context.Context, vehicles store.VehicleStore, log logger.Logger) error {
	if log == nil {
		log = logger.NopLogger{}
	}
	n, err := vehicles.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed fleet: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, v := range demoFleet {
		if _, err := vehicles.Create(ctx, v); err != nil {
			return fmt.Errorf("seed fleet: %w", err)
		}
	}
	log.Infof("seeded %d demo vehicles", len(demoFleet))
	return nil
}
