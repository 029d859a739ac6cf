package interfaces

import (
	"context"

	"saas_billing/internal/domain/entities"
)

//go:generate mockgen -source=checkout_session_store_interface.go -destination=mocks/checkout_session_store_interface_mock.go -package=mock_interfaces

// ICheckoutSessionStore caches checkout sessions for the gateway token lifetime.
type ICheckoutSessionStore interface {
	Save(ctx context.Context, session entities.CheckoutSession) error
	Get(ctx context.Context, sessionID string) (entities.CheckoutSession, error)
}
