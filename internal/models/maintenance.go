package models

// Technician is a maintenance worker record, admin-only surface.
type Technician struct {
	TechnicianID      int64  `json:"TechnicianID"`
	Name              string `json:"Name"`
	Specialization    string `json:"Specialization"`
	IsAvailable       bool   `json:"IsAvailable"`
	ActiveAssignments int    `json:"ActiveAssignments"`
}

// TechnicianAssignment links a technician to an open maintenance log.
type TechnicianAssignment struct {
	LogID          int64  `json:"LogID"`
	TechnicianID   int64  `json:"TechnicianID"`
	TechnicianName string `json:"TechnicianName,omitempty"`
	VehicleID      int64  `json:"VehicleID"`
	VehicleModel   string `json:"VehicleModel,omitempty"`
	IssueReported  string `json:"IssueReported"`
	ReportedDate   string `json:"ReportedDate,omitempty"`
	Status         string `json:"Status"`
}
