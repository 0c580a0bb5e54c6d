package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"voltride/internal/models"
)

func userPath(userID int64, suffix string) string {
	return fmt.Sprintf("/user/%d%s", userID, suffix)
}

func profilePath(userID int64) string {
	return userPath(userID, "/profile")
}

func tripPath(tripID int64, suffix string) string {
	return fmt.Sprintf("/trip/%d%s", tripID, suffix)
}

// ListTripsFor returns the user's trip history, most recent first. status
// filters server-side when non-empty ("Ongoing", "Completed", ...).
func (c *Client) ListTripsFor(ctx context.Context, userID int64, status string) ([]models.Trip, error) {
	path := userPath(userID, "/rides")
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var trips []models.Trip
	if err := c.do(ctx, http.MethodGet, path, nil, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

// BookTrip books a vehicle from a station for the given whole-hour duration.
// The created trip is returned when the service includes it; callers reconcile
// through a session refresh either way.
func (c *Client) BookTrip(ctx context.Context, userID, vehicleID, startStationID int64, durationHours int) (*models.Trip, error) {
	body := map[string]interface{}{
		"user_id":          userID,
		"vehicle_id":       vehicleID,
		"start_station_id": startStationID,
		"duration_hours":   durationHours,
	}
	var resp struct {
		Message string       `json:"message"`
		Trip    *models.Trip `json:"trip"`
	}
	if err := c.do(ctx, http.MethodPost, "/book", body, &resp); err != nil {
		return nil, err
	}
	return resp.Trip, nil
}

// EndTrip completes an ongoing trip at the given station. Final cost is
// settled server-side from the actual duration.
func (c *Client) EndTrip(ctx context.Context, tripID, endStationID int64) (*models.Trip, error) {
	body := map[string]int64{
		"trip_id":        tripID,
		"end_station_id": endStationID,
	}
	var resp struct {
		Message string       `json:"message"`
		Trip    *models.Trip `json:"trip"`
	}
	if err := c.do(ctx, http.MethodPost, "/endride", body, &resp); err != nil {
		return nil, err
	}
	return resp.Trip, nil
}

// CancelTrip cancels an ongoing trip with a full refund.
func (c *Client) CancelTrip(ctx context.Context, tripID int64) error {
	return c.do(ctx, http.MethodPost, tripPath(tripID, "/cancel"), nil, nil)
}

// AddReview attaches a rating and optional comment to a completed trip.
func (c *Client) AddReview(ctx context.Context, tripID int64, rating int, comment string) error {
	body := map[string]interface{}{
		"rating":  rating,
		"comment": comment,
	}
	return c.do(ctx, http.MethodPost, tripPath(tripID, "/review"), body, nil)
}
