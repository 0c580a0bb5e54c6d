package models

// Station is a rental station with its live vehicle count.
type Station struct {
	StationID         int64  `json:"StationID"`
	Name              string `json:"Name"`
	Location          string `json:"Location"`
	Capacity          int    `json:"Capacity"`
	IsActive          bool   `json:"IsActive"`
	AvailableVehicles int    `json:"AvailableVehicles"`
}
