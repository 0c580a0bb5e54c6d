package models

// Role values reported by the rental service.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Identity is the signed-in user's profile as the rental service returns it.
// The service exposes PascalCase keys straight from its views, and the derived
// PlanDiscount already accounts for the membership plan, so the client never
// recomputes it.
type Identity struct {
	ID            int64   `json:"UserID"`
	Name          string  `json:"Name"`
	Email         string  `json:"Email"`
	WalletBalance float64 `json:"WalletBalance"`
	JoinDate      string  `json:"JoinDate,omitempty"`
	Role          string  `json:"Role"`
	PlanID        *int64  `json:"PlanID"`
	PlanName      *string `json:"PlanName"`
	PlanDiscount  float64 `json:"PlanDiscount"`
}

// IsAdmin reports whether the identity carries the administrator role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// HasPlan reports whether a membership plan is attached.
func (i Identity) HasPlan() bool {
	return i.PlanID != nil
}
