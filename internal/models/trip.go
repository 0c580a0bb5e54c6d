package models

// Trip status values.
const (
	TripStatusUpcoming  = "Upcoming"
	TripStatusOngoing   = "Ongoing"
	TripStatusCompleted = "Completed"
	TripStatusCancelled = "Cancelled"
)

// Trip is one rental record from the user's trip history. Timestamps stay as
// the wire strings; the client displays them and never does time arithmetic
// on them (final cost is computed server-side).
type Trip struct {
	TripID           int64   `json:"TripID"`
	UserID           int64   `json:"UserID"`
	VehicleID        int64   `json:"VehicleID"`
	VehicleModel     string  `json:"VehicleModel,omitempty"`
	VehicleType      string  `json:"VehicleType,omitempty"`
	StartStationID   int64   `json:"StartStationID,omitempty"`
	StartStationName string  `json:"StartStationName,omitempty"`
	EndStationID     *int64  `json:"EndStationID,omitempty"`
	EndStationName   string  `json:"EndStationName,omitempty"`
	StartTime        string  `json:"StartTime,omitempty"`
	ExpectedEndTime  string  `json:"ExpectedEndTime,omitempty"`
	ActualEndTime    string  `json:"ActualEndTime,omitempty"`
	DurationHours    int     `json:"DurationHours,omitempty"`
	Status           string  `json:"Status"`
	Cost             float64 `json:"Cost,omitempty"`
	Rating           *int    `json:"Rating,omitempty"`
	Comment          string  `json:"Comment,omitempty"`
}

// IsOngoing reports whether the trip is currently in progress.
func (t Trip) IsOngoing() bool {
	return t.Status == TripStatusOngoing
}
