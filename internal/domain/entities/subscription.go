package entities

import "time"

// SubscriptionStatus is the closed set of subscription states.
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing   SubscriptionStatus = "trialing"
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"
	SubscriptionStatusUnpaid     SubscriptionStatus = "unpaid"
	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
)

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusPastDue,
		SubscriptionStatusCanceled, SubscriptionStatusUnpaid, SubscriptionStatusIncomplete:
		return true
	}
	return false
}

// Subscription is owned by exactly one tenant.
//
// Storage model (Postgres, RLS on tenant_id):
//   - unique (provider, provider_subscription_id)
//   - never hard-deleted; cancellation sets Status in place.
type Subscription struct {
	ID                     string             `json:"id"`
	TenantID               string             `json:"tenant_id"`
	Provider               ProviderName       `json:"provider"`
	ProviderSubscriptionID string             `json:"provider_subscription_id"`
	PlanID                 PlanID             `json:"plan_id"`
	Status                 SubscriptionStatus `json:"status"`
	CurrentPeriodStart     *time.Time         `json:"current_period_start,omitempty"`
	CurrentPeriodEnd       *time.Time         `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd      bool               `json:"cancel_at_period_end"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// OneIntervalFrom returns the period bounds for a one-off payment at t.
func OneIntervalFrom(t time.Time) (*time.Time, *time.Time) {
	start := t.UTC()
	end := start.AddDate(0, 1, 0)
	return &start, &end
}
