package models

// Vehicle status values.
const (
	VehicleStatusAvailable      = "available"
	VehicleStatusInUse          = "in_use"
	VehicleStatusMaintenance    = "maintenance"
	VehicleStatusDecommissioned = "decommissioned"
)

// Vehicle is one rentable vehicle with its hourly rate and current location.
type Vehicle struct {
	VehicleID          int64   `json:"VehicleID"`
	RegistrationNumber string  `json:"RegistrationNumber,omitempty"`
	Type               string  `json:"Type"`
	Model              string  `json:"Model"`
	Manufacturer       string  `json:"Manufacturer"`
	RatePerHour        float64 `json:"RatePerHour"`
	Status             string  `json:"Status"`
	CurrentStationID   *int64  `json:"CurrentStationID,omitempty"`
	CurrentStationName string  `json:"CurrentStationName,omitempty"`
}
