package model

// Vehicle is a fleet vehicle row. New vehicles are available until a
// dispatched shipment claims them.
type Vehicle struct {
	ID           int64   `json:"id"`
	LicensePlate string  `json:"licensePlate"`
	Model        string  `json:"model"`
	VehicleType  string  `json:"vehicleType"`
	CapacityKg   float64 `json:"capacityKg"`
	FuelLevel    int     `json:"fuelLevel"`
	Available    bool    `json:"available"`
}
