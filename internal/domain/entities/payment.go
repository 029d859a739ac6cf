package entities

import (
	"encoding/json"
	"time"
)

// PaymentStatus represents the payment processing outcome.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Payment is a single charge reported by a gateway.
//
// Storage model (Postgres, RLS on tenant_id):
//   - unique (provider, provider_payment_id); webhook re-delivery upserts the same row.
//
// RawPayload keeps the gateway response for traceability.
type Payment struct {
	ID                string          `json:"id"`
	TenantID          string          `json:"tenant_id"`
	Provider          ProviderName    `json:"provider"`
	ProviderPaymentID string          `json:"provider_payment_id"`
	PlanID            PlanID          `json:"plan_id"`
	Amount            int64           `json:"amount"`
	Currency          string          `json:"currency"`
	Status            PaymentStatus   `json:"status"`
	PaidAt            *time.Time      `json:"paid_at,omitempty"`
	RawPayload        json.RawMessage `json:"raw_payload,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}
