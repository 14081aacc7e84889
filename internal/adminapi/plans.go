package adminapi

import (
	"context"
	"fmt"
)

// Plan is a billing plan. Zero limits mean unlimited.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PriceMonthly float64  `json:"priceMonthly"`
	PriceYearly  float64  `json:"priceYearly"`
	Features     []string `json:"features"`
	MaxAccounts  int      `json:"maxAccounts"`
	MaxPosts     int      `json:"maxPosts"`
	Popular      bool     `json:"popular"`
}

type planWire struct {
	ID           flexID   `json:"id"`
	Name         string   `json:"name"`
	PriceMonthly float64  `json:"price_monthly"`
	PriceYearly  float64  `json:"price_yearly"`
	Features     []string `json:"features"`
	MaxAccounts  int      `json:"max_accounts"`
	MaxPosts     int      `json:"max_posts"`
	Popular      bool     `json:"popular"`
}

func toPlan(w planWire) Plan {
	features := w.Features
	if features == nil {
		features = []string{}
	}

	return Plan{
		ID:           string(w.ID),
		Name:         w.Name,
		PriceMonthly: w.PriceMonthly,
		PriceYearly:  w.PriceYearly,
		Features:     features,
		MaxAccounts:  w.MaxAccounts,
		MaxPosts:     w.MaxPosts,
		Popular:      w.Popular,
	}
}

// ListPlans fetches every billing plan.
func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	var wires []planWire
	if err := c.get(ctx, "/admin/plans", nil, &wires); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	plans := make([]Plan, 0, len(wires))
	for _, w := range wires {
		plans = append(plans, toPlan(w))
	}
	return plans, nil
}
