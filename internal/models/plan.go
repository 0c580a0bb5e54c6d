package models

// MembershipPlan is read-only reference data; plans never mutate client-side.
type MembershipPlan struct {
	PlanID         int64   `json:"PlanID"`
	PlanName       string  `json:"PlanName"`
	Cost           float64 `json:"Cost"`
	DurationMonths int     `json:"DurationMonths"`
	Benefits       string  `json:"Benefits"`
}
