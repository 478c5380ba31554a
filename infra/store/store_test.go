package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"logistics/core/model"
	"logistics/core/store"
	"logistics/logger"
)

// both backends must honor the same contract
type backend struct {
	vehicles  store.VehicleStore
	shipments store.ShipmentStore
}

func backends(t *testing.T) map[string]backend {
	t.Helper()
	mem := NewMemory()
	sq, err := NewSQLite(filepath.Join(t.TempDir(), "logistics.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]backend{
		"memory": {vehicles: mem, shipments: mem.Shipments()},
		"sqlite": {vehicles: sq, shipments: sq.Shipments()},
	}
}

func TestVehicleCRUD(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			v, err := b.vehicles.Create(ctx, model.Vehicle{LicensePlate: "CJ-99-LOG", Model: "Sprinter", VehicleType: "VAN", CapacityKg: 1500, FuelLevel: 100, Available: true})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if v.ID == 0 {
				t.Fatal("expected generated id")
			}
			got, err := b.vehicles.Get(ctx, v.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.LicensePlate != "CJ-99-LOG" || !got.Available {
				t.Fatalf("unexpected vehicle: %#v", got)
			}
			all, err := b.vehicles.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 1 {
				t.Fatalf("expected 1 vehicle, got %d", len(all))
			}
			if _, err := b.vehicles.Get(ctx, 999); err != store.ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestClaim_FlipsAvailabilityOnce(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			v, err := b.vehicles.Create(ctx, model.Vehicle{LicensePlate: "B-102-TFL", Model: "FH16", VehicleType: "HEAVY_TRUCK", Available: true})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			ok, err := b.vehicles.Claim(ctx, v.ID)
			if err != nil || !ok {
				t.Fatalf("first claim: ok=%v err=%v", ok, err)
			}
			ok, err = b.vehicles.Claim(ctx, v.ID)
			if err != nil {
				t.Fatalf("second claim: %v", err)
			}
			if ok {
				t.Fatal("second claim must fail")
			}
			got, _ := b.vehicles.Get(ctx, v.ID)
			if got.Available {
				t.Fatal("vehicle still available after claim")
			}
			if _, err := b.vehicles.Claim(ctx, 999); err != store.ErrNotFound {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestClaim_ConcurrentSingleWinner(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			v, err := b.vehicles.Create(ctx, model.Vehicle{LicensePlate: "CJ-22-DEL", Model: "Transit", VehicleType: "VAN", Available: true})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			const claimers = 16
			wins := make(chan bool, claimers)
			var wg sync.WaitGroup
			for i := 0; i < claimers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, err := b.vehicles.Claim(ctx, v.ID)
					if err != nil {
						t.Errorf("claim: %v", err)
						return
					}
					wins <- ok
				}()
			}
			wg.Wait()
			close(wins)
			won := 0
			for ok := range wins {
				if ok {
					won++
				}
			}
			if won != 1 {
				t.Fatalf("expected exactly one winner, got %d", won)
			}
		})
	}
}

func TestShipmentCreateAndList(t *testing.T) {
	for name, b := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sh, err := b.shipments.Create(ctx, model.Shipment{
				TrackingID: "T-1", Status: model.StatusDispatched, VehicleID: 1,
				Origin: "Lagos", Destination: "Abuja", Weight: 500, LicensePlate: "ID-1", PackageCount: 3,
			})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if sh.ID == 0 {
				t.Fatal("expected generated id")
			}
			all, err := b.shipments.List(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 1 || all[0].TrackingID != "T-1" || all[0].Status != model.StatusDispatched {
				t.Fatalf("unexpected shipments: %#v", all)
			}
		})
	}
}

func TestSeedDemoFleet(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	if err := SeedDemoFleet(ctx, mem, logger.NopLogger{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	n, _ := mem.Count(ctx)
	if n != 4 {
		t.Fatalf("expected 4 vehicles, got %d", n)
	}
	// second call must not duplicate
	if err := SeedDemoFleet(ctx, mem, nil); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	n, _ = mem.Count(ctx)
	if n != 4 {
		t.Fatalf("seed not idempotent: %d", n)
	}
}
