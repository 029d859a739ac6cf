package interfaces

import (
	"context"

	"saas_billing/internal/domain/entities"
)

//go:generate mockgen -source=subscription_repository_interface.go -destination=mocks/subscription_repository_interface_mock.go -package=mock_interfaces

// ISubscriptionRepository persists subscriptions scoped to a tenant.
//
// Upsert is keyed by (provider, provider_subscription_id) and is safe under
// concurrent re-delivery of the same webhook.
type ISubscriptionRepository interface {
	Upsert(ctx context.Context, sub entities.Subscription) (entities.Subscription, error)
	GetCurrent(ctx context.Context, tenantID string) (entities.Subscription, error)
}
