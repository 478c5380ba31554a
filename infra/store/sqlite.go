package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"logistics/core/model"
	"logistics/core/store"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS t_vehicles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	license_plate TEXT NOT NULL,
	model TEXT NOT NULL,
	vehicle_type TEXT NOT NULL,
	capacity_kg REAL NOT NULL,
	fuel_level INTEGER NOT NULL,
	is_available INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS t_shipments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tracking_id TEXT NOT NULL,
	status TEXT NOT NULL,
	vehicle_id INTEGER NOT NULL,
	origin TEXT NOT NULL,
	destination TEXT NOT NULL,
	weight REAL NOT NULL,
	license_plate TEXT NOT NULL,
	package_count INTEGER NOT NULL
);`

// SQLite persists vehicles and shipments in a SQLite database. It
// implements both persistence ports.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens or creates the database at path and ensures the schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent claims.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) List(ctx context.Context) ([]model.Vehicle, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, license_plate, model, vehicle_type, capacity_kg, fuel_level, is_available FROM t_vehicles ORDER BY id`)
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

func (s *SQLite) Get(ctx context.Context, id int64) (model.Vehicle, error) {
	var v model.Vehicle
	err := s.db.QueryRowContext(ctx, `SELECT id, license_plate, model, vehicle_type, capacity_kg, fuel_level, is_available FROM t_vehicles WHERE id = ?`, id).
		Scan(&v.ID, &v.LicensePlate, &v.Model, &v.VehicleType, &v.CapacityKg, &v.FuelLevel, &v.Available)
	if err == sql.ErrNoRows {
		return model.Vehicle{}, store.ErrNotFound
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("get vehicle %d: %w", id, err)
	}
	return v, nil
}

func (s *SQLite) Create(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO t_vehicles (license_plate, model, vehicle_type, capacity_kg, fuel_level, is_available) VALUES (?, ?, ?, ?, ?, ?)`,
		v.LicensePlate, v.Model, v.VehicleType, v.CapacityKg, v.FuelLevel, v.Available)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("create vehicle: %w", err)
	}
	v.ID, err = res.LastInsertId()
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("create vehicle: id: %w", err)
	}
	return v, nil
}

func (s *SQLite) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t_vehicles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count vehicles: %w", err)
	}
	return n, nil
}

// Claim is a single conditional update, so two concurrent claims of the
// same vehicle cannot both observe it available.
func (s *SQLite) Claim(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE t_vehicles SET is_available = 0 WHERE id = ? AND is_available = 1`, id)
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
	if _, err := s.Get(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

// Shipments returns the SQLite store viewed as a ShipmentStore.
func (s *SQLite) Shipments() store.ShipmentStore { return (*sqliteShipments)(s) }

type sqliteShipments SQLite

func (s *sqliteShipments) List(ctx context.Context) ([]model.Shipment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, tracking_id, status, vehicle_id, origin, destination, weight, license_plate, package_count FROM t_shipments ORDER BY id`)
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

func (s *sqliteShipments) Create(ctx context.Context, sh model.Shipment) (model.Shipment, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO t_shipments (tracking_id, status, vehicle_id, origin, destination, weight, license_plate, package_count) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sh.TrackingID, sh.Status, sh.VehicleID, sh.Origin, sh.Destination, sh.Weight, sh.LicensePlate, sh.PackageCount)
	if err != nil {
		return model.Shipment{}, fmt.Errorf("create shipment: %w", err)
	}
	sh.ID, err = res.LastInsertId()
	if err != nil {
		return model.Shipment{}, fmt.Errorf("create shipment: id: %w", err)
	}
	return sh, nil
}
