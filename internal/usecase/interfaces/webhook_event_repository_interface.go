package interfaces

import (
	"context"

	"saas_billing/internal/domain/entities"
)

//go:generate mockgen -source=webhook_event_repository_interface.go -destination=mocks/webhook_event_repository_interface_mock.go -package=mock_interfaces

// IWebhookEventRepository is the idempotency ledger for webhook deliveries.
//
// Claim atomically records an event as received. It returns false when the
// event was already processed or is being processed by another delivery. A
// failed event may be claimed again.
type IWebhookEventRepository interface {
	Claim(ctx context.Context, event entities.WebhookEvent) (bool, error)
	MarkProcessed(ctx context.Context, event entities.WebhookEvent) error
	MarkFailed(ctx context.Context, event entities.WebhookEvent, reason string) error
}
