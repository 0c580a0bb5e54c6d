package api

import (
	"context"
	"net/http"

	"voltride/internal/models"
)

// Login authenticates by email and password and returns the full profile,
// including the derived PlanDiscount.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Message string          `json:"message"`
		User    models.Identity `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

// GetProfile fetches the current profile for the given user.
func (c *Client) GetProfile(ctx context.Context, userID int64) (*models.Identity, error) {
	var identity models.Identity
	if err := c.do(ctx, http.MethodGet, profilePath(userID), nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// UpdateProfile changes name and/or password; empty fields are left untouched.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, name, password string) error {
	body := map[string]string{}
	if name != "" {
		body["name"] = name
	}
	if password != "" {
		body["password"] = password
	}
	return c.do(ctx, http.MethodPut, profilePath(userID), body, nil)
}

// AddWalletFunds tops up the user's wallet.
func (c *Client) AddWalletFunds(ctx context.Context, userID int64, amount float64) error {
	body := map[string]float64{"amount": amount}
	return c.do(ctx, http.MethodPost, userPath(userID, "/wallet/add"), body, nil)
}
