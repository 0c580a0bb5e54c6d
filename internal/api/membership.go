package api

import (
	"context"
	"net/http"

	"voltride/internal/models"
)

// ListMembershipPlans returns available plans ordered by cost.
func (c *Client) ListMembershipPlans(ctx context.Context) ([]models.MembershipPlan, error) {
	var plans []models.MembershipPlan
	if err := c.do(ctx, http.MethodGet, "/membership/plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// PurchaseMembership buys a plan from the user's wallet balance.
func (c *Client) PurchaseMembership(ctx context.Context, userID, planID int64) error {
	body := map[string]int64{
		"user_id": userID,
		"plan_id": planID,
	}
	return c.do(ctx, http.MethodPost, "/membership/purchase", body, nil)
}
