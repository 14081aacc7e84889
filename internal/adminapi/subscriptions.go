package adminapi

import (
	"context"
	"fmt"
	"time"
)

// DefaultCurrency applies when the backend omits a currency.
const DefaultCurrency = "USD"

// Subscription is the admin view of a billing subscription. Amount is in
// currency units; the backend reports cents.
type Subscription struct {
	ID                string     `json:"id"`
	UserID            string     `json:"userId"`
	PlanID            string     `json:"planId"`
	PlanName          string     `json:"planName"`
	Status            string     `json:"status"`
	CurrentPeriodEnd  *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd bool       `json:"cancelAtPeriodEnd"`
	Amount            float64    `json:"amount"`
	Currency          string     `json:"currency"`
}

type subscriptionWire struct {
	ID                flexID  `json:"id"`
	UserID            flexID  `json:"user_id"`
	PlanID            flexID  `json:"plan_id"`
	PlanName          string  `json:"plan_name"`
	Status            string  `json:"status"`
	CurrentPeriodEnd  *string `json:"current_period_end"`
	CancelAtPeriodEnd bool    `json:"cancel_at_period_end"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
}

func toSubscription(w subscriptionWire) Subscription {
	currency := w.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return Subscription{
		ID:                string(w.ID),
		UserID:            string(w.UserID),
		PlanID:            string(w.PlanID),
		PlanName:          w.PlanName,
		Status:            w.Status,
		CurrentPeriodEnd:  optionalTime(w.CurrentPeriodEnd),
		CancelAtPeriodEnd: w.CancelAtPeriodEnd,
		Amount:            w.Amount / 100,
		Currency:          currency,
	}
}

// ListSubscriptions fetches one page of subscriptions.
func (c *Client) ListSubscriptions(ctx context.Context, opts ListOptions) (Page[Subscription], error) {
	opts = opts.normalize()

	var env envelope[subscriptionWire]
	if err := c.get(ctx, "/admin/subscriptions", opts.query(), &env); err != nil {
		return Page[Subscription]{}, fmt.Errorf("list subscriptions: %w", err)
	}
	return toPage(env, opts, toSubscription), nil
}
