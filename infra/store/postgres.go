package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"logistics/core/model"
	"logistics/core/store"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS t_vehicles (
	id BIGSERIAL PRIMARY KEY,
	license_plate TEXT NOT NULL,
	model TEXT NOT NULL,
	vehicle_type TEXT NOT NULL,
	capacity_kg DOUBLE PRECISION NOT NULL,
	fuel_level INTEGER NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE TABLE IF NOT EXISTS t_shipments (
	id BIGSERIAL PRIMARY KEY,
	tracking_id TEXT NOT NULL,
	status TEXT NOT NULL,
	vehicle_id BIGINT NOT NULL,
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	weight DOUBLE PRECISION NOT NULL,
	license_plate TEXT NOT NULL,
	package_count INTEGER NOT NULL
);`

// Postgres persists vehicles and shipments in PostgreSQL via the pgx
// stdlib driver. It implements both persistence ports.
type Postgres struct {
	db *sql.DB
}

// NewPostgres connects to the database, verifies the connection and
// ensures the schema.
func NewPostgres(url string) (*Postgres, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}
	if _, err := db.Exec(postgresSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init postgres schema: %w", err)
	}
	return &Postgres{db: db}, nil
}

// Close closes the underlying pool.
func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) List(ctx context.Context) ([]model.Vehicle, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, license_plate, model, vehicle_type, capacity_kg, fuel_level, is_available FROM t_vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}
	defer rows.Close()
	out := make([]model.Vehicle, 0, 16)
	for rows.Next() {
		var v model.Vehicle
		if err := rows.Scan(&v.ID, &v.LicensePlate, &v.Model, &v.VehicleType, &v.CapacityKg, &v.FuelLevel, &v.Available); err != nil {
			return nil, fmt.Errorf("list vehicles: scan: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: rows: %w", err)
	}
	return out, nil
}

func (p *Postgres) Get(ctx context.Context, id int64) (model.Vehicle, error) {
	var v model.Vehicle
	err := p.db.QueryRowContext(ctx, `SELECT id, license_plate, model, vehicle_type, capacity_kg, fuel_level, is_available FROM t_vehicles WHERE id = $1`, id).
		Scan(&v.ID, &v.LicensePlate, &v.Model, &v.VehicleType, &v.CapacityKg, &v.FuelLevel, &v.Available)
	if err == sql.ErrNoRows {
		return model.Vehicle{}, store.ErrNotFound
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

func (p *Postgres) Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO t_vehicles (license_plate, model, vehicle_type, capacity_kg, fuel_level, is_available) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		v.LicensePlate, v.Model, v.VehicleType, v.CapacityKg, v.FuelLevel, v.Available).Scan(&v.ID)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	return v, nil
}

func (p *Postgres) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t_vehicles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

// Claim is a single conditional update; the row lock taken by UPDATE
// guarantees at most one concurrent claim succeeds.
func (p *Postgres) Claim(ctx context.Context, id int64) (bool, error) {
	res, err := p.db.ExecContext(ctx, `UPDATE t_vehicles SET is_available = FALSE WHERE id = $1 AND is_available = TRUE`, id)
	if err != nil {
		return false, fmt.Errorf("claim vehicle %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim vehicle %d: rows: %w", id, err)
	}
	if n > 0 {
		return true, nil
	}
	if _, err := p.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Shipments returns the Postgres store viewed as a ShipmentStore.
func (p *Postgres) Shipments() store.ShipmentStore { return (*postgresShipments)(p) }

type postgresShipments Postgres

func (p *postgresShipments) List(ctx context.Context) ([]model.Shipment, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT id, tracking_id, status, vehicle_id, origin, destination, weight, license_plate, package_count FROM t_shipments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	defer rows.Close()
	out := make([]model.Shipment, 0, 16)
	for rows.Next() {
		var sh model.Shipment
		if err := rows.Scan(&sh.ID, &sh.TrackingID, &sh.Status, &sh.VehicleID, &sh.Origin, &sh.Destination, &sh.Weight, &sh.LicensePlate, &sh.PackageCount); err != nil {
			return nil, fmt.Errorf("list shipments: scan: %w", err)
		}
		out = append(out, sh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: rows: %w", err)
	}
	return out, nil
}

func (p *postgresShipments) Create(ctx context.Context, sh model.Shipment) (model.Shipment, error) {
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO t_shipments (tracking_id, status, vehicle_id, origin, destination, weight, license_plate, package_count) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		sh.TrackingID, sh.Status, sh.VehicleID, sh.Origin, sh.Destination, sh.Weight, sh.LicensePlate, sh.PackageCount).Scan(&sh.ID)
	if err != nil {
		return model.Shipment{}, fmt.Errorf("create shipment: %w", err)
	}
	return sh, nil
}
