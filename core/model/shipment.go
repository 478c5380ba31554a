package model

// ShipmentStatus is the shipment lifecycle state. Transitions are
// conventional, not enforced: dispatched shipments never move past
// DISPATCHED in the current flows.
type ShipmentStatus string

const (
	StatusPending    ShipmentStatus = "PENDING"
	StatusDispatched ShipmentStatus = "DISPATCHED"
	StatusDelivered  ShipmentStatus = "DELIVERED"
)

// Shipment is a shipment row. TrackingID is the external reference,
// assigned once at dispatch time. LicensePlate is a denormalized copy of
// the assigned vehicle's plate.
type Shipment struct {
	ID           int64          `json:"id"`
	TrackingID   string         `json:"trackingId"`
	Status       ShipmentStatus `json:"status"`
	VehicleID    int64          `json:"vehicleId"`
	Origin       string         `json:"origin"`
	Destination  string         `json:"destination"`
	Weight       float64        `json:"weight"`
	LicensePlate string         `json:"licensePlate"`
	PackageCount int            `json:"packageCount"`
}
