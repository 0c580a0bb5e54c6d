package api

import (
	"context"
	"fmt"
	"net/http"

	"voltride/internal/models"
)

// ListStations returns active stations with their vehicle counts.
func (c *Client) ListStations(ctx context.Context) ([]models.Station, error) {
	var stations []models.Station
	if err := c.do(ctx, http.MethodGet, "/stations", nil, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// ListVehicles returns all non-decommissioned vehicles.
func (c *Client) ListVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := c.do(ctx, http.MethodGet, "/vehicles", nil, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// ListVehiclesAtStation returns available vehicles parked at the station.
func (c *Client) ListVehiclesAtStation(ctx context.Context, stationID int64) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	path := fmt.Sprintf("/stations/%d/vehicles", stationID)
	if err := c.do(ctx, http.MethodGet, path, nil, &vehicles); err != nil {
		return nil, err
	}
	return vehicles, nil
}

// AddStation registers a new station. Admin only; the service checks the role.
func (c *Client) AddStation(ctx context.Context, name, location string, capacity int, userRole string) error {
	body := map[string]interface{}{
		"name":      name,
		"location":  location,
		"capacity":  capacity,
		"user_role": userRole,
	}
	return c.do(ctx, http.MethodPost, "/stations", body, nil)
}

// DeactivateStation takes a station out of service. Admin only.
func (c *Client) DeactivateStation(ctx context.Context, stationID int64, userRole string) error {
	body := map[string]string{"user_role": userRole}
	path := fmt.Sprintf("/stations/%d/deactivate", stationID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// AddVehicle registers a new vehicle at a station. Admin only.
func (c *Client) AddVehicle(ctx context.Context, v models.Vehicle, stationID int64, userRole string) error {
	body := map[string]interface{}{
		"type":                v.Type,
		"model":               v.Model,
		"manufacturer":        v.Manufacturer,
		"rate_per_hour":       v.RatePerHour,
		"registration_number": v.RegistrationNumber,
		"station_id":          stationID,
		"user_role":           userRole,
	}
	return c.do(ctx, http.MethodPost, "/vehicles", body, nil)
}

// DecommissionVehicle retires a vehicle permanently. Admin only.
func (c *Client) DecommissionVehicle(ctx context.Context, vehicleID int64, userRole string) error {
	body := map[string]string{"user_role": userRole}
	path := fmt.Sprintf("/vehicles/%d/decommission", vehicleID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// ReportVehicleIssue files an issue against a vehicle. Riders may only report
// vehicles they have an ongoing trip with; the service enforces that.
func (c *Client) ReportVehicleIssue(ctx context.Context, vehicleID int64, issue string, userID int64, userRole string) error {
	body := map[string]interface{}{
		"IssueReported": issue,
		"user_id":       userID,
		"user_role":     userRole,
	}
	path := fmt.Sprintf("/vehicles/%d/report", vehicleID)
	return c.do(ctx, http.MethodPost, path, body, nil)
}
