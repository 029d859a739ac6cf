package entities

import "encoding/json"

// WebhookEvent is the transient input of webhook dispatch.
//
// EventID is the gateway's own unique id for the delivery (or the transaction
// token when the gateway has no event ids) and keys idempotency.
type WebhookEvent struct {
	Provider  ProviderName    `json:"provider"`
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// WebhookResult is the transient output of webhook dispatch.
//
// The mutation fields carry derived state for the dispatcher to upsert; adapters
// never persist anything themselves.
type WebhookResult struct {
	Success   bool   `json:"success"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`

	Subscription  *Subscription  `json:"-"`
	Payment       *Payment       `json:"-"`
	PaymentMethod *PaymentMethod `json:"-"`
}

// ProcessedResult is the result of a handled (or deliberately ignored) event.
func ProcessedResult() WebhookResult {
	return WebhookResult{Success: true, Processed: true}
}

// FailedResult converts a handler error into a result instead of propagating it.
func FailedResult(err error) WebhookResult {
	return WebhookResult{Success: false, Processed: false, Error: err.Error()}
}
