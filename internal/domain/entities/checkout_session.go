package entities

import "time"

// CheckoutOptions carries caller-supplied redirect targets and metadata.
type CheckoutOptions struct {
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Metadata      map[string]string
}

// CheckoutSession is ephemeral: it lives no longer than the gateway's own
// token lifetime and is only cached, never persisted.
type CheckoutSession struct {
	SessionID   string       `json:"session_id"`
	CheckoutURL string       `json:"checkout_url"`
	PlanID      PlanID       `json:"plan_id"`
	Provider    ProviderName `json:"provider"`
	TenantID    string       `json:"tenant_id"`
	Reference   string       `json:"reference,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// InscriptionSession is returned when a card enrollment starts (Oneclick).
type InscriptionSession struct {
	Token    string       `json:"token"`
	URL      string       `json:"url"`
	Provider ProviderName `json:"provider"`
}
