package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Rental duration bounds, in whole hours.
const (
	MinDurationHours = 1
	MaxDurationHours = 24
)

// ClampDuration forces a duration into [1, 24]. Zero and negative values
// become the minimum, never zero: a booking is always at least one hour.
func ClampDuration(hours int) int {
	if hours < MinDurationHours {
		return MinDurationHours
	}
	if hours > MaxDurationHours {
		return MaxDurationHours
	}
	return hours
}

// ParseDuration parses user input at the boundary. Non-numeric input defaults
// to the minimum duration.
func ParseDuration(raw string) int {
	hours, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return MinDurationHours
	}
	return ClampDuration(hours)
}

// SanitizeDiscount returns the discount factor if it is a finite number in
// [0, 1), and 0 otherwise.
func SanitizeDiscount(factor float64) float64 {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 || factor >= 1 {
		return 0
	}
	return factor
}

// Cost computes the price of a trip: rate x hours, less the membership
// discount. Inputs are clamped and sanitized here so every caller gets the
// same money arithmetic. The result is unrounded; round only for display.
func Cost(ratePerHour float64, durationHours int, discountFactor float64) float64 {
	hours := ClampDuration(durationHours)
	discount := SanitizeDiscount(discountFactor)
	return ratePerHour * float64(hours) * (1 - discount)
}

// CanAfford compares the wallet balance against the unrounded cost. Rounding
// first could admit a booking that is short by a fraction of a cent.
func CanAfford(walletBalance, cost float64) bool {
	return walletBalance >= cost
}

// Round2 rounds to two decimal places, for presentation only.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
