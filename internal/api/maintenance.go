package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"voltride/internal/models"
)

// ListTechnicians returns all technicians. Admin only.
func (c *Client) ListTechnicians(ctx context.Context, userRole string) ([]models.Technician, error) {
	var technicians []models.Technician
	path := "/technicians?user_role=" + url.QueryEscape(userRole)
	if err := c.do(ctx, http.MethodGet, path, nil, &technicians); err != nil {
		return nil, err
	}
	return technicians, nil
}

// AddTechnician registers a technician. Admin only.
func (c *Client) AddTechnician(ctx context.Context, name, specialization, userRole string) error {
	body := map[string]string{
		"name":           name,
		"specialization": specialization,
		"user_role":      userRole,
	}
	return c.do(ctx, http.MethodPost, "/technicians", body, nil)
}

// UpdateTechnician changes name, specialization or availability. Nil fields
// are left untouched.
func (c *Client) UpdateTechnician(ctx context.Context, technicianID int64, name, specialization string, available *bool, userRole string) error {
	body := map[string]interface{}{"user_role": userRole}
	if name != "" {
		body["name"] = name
	}
	if specialization != "" {
		body["specialization"] = specialization
	}
	if available != nil {
		body["is_available"] = *available
	}
	path := fmt.Sprintf("/technicians/%d", technicianID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// DeleteTechnician removes a technician without active assignments. Admin only.
func (c *Client) DeleteTechnician(ctx context.Context, technicianID int64, userRole string) error {
	body := map[string]string{"user_role": userRole}
	path := fmt.Sprintf("/technicians/%d", technicianID)
	return c.do(ctx, http.MethodDelete, path, body, nil)
}

// ListTechnicianAssignments returns open maintenance assignments. Admin only.
func (c *Client) ListTechnicianAssignments(ctx context.Context, userRole string) ([]models.TechnicianAssignment, error) {
	var assignments []models.TechnicianAssignment
	path := "/technicians/assignments?user_role=" + url.QueryEscape(userRole)
	if err := c.do(ctx, http.MethodGet, path, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CompleteMaintenanceLog closes a maintenance log and frees the vehicle. Admin only.
func (c *Client) CompleteMaintenanceLog(ctx context.Context, logID int64, userRole string) error {
	body := map[string]string{"user_role": userRole}
	path := fmt.Sprintf("/maintenance-logs/%d/complete", logID)
	return c.do(ctx, http.MethodPut, path, body, nil)
}
