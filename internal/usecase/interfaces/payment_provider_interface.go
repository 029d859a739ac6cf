package interfaces

import (
	"context"

	"saas_billing/internal/domain/entities"
)

//go:generate mockgen -source=payment_provider_interface.go -destination=mocks/payment_provider_interface_mock.go -package=mock_interfaces

// IPaymentProvider is the uniform contract implemented by every gateway adapter.
//
// GetSubscription returns (nil, nil) when the gateway has no persistent
// subscriptions; callers treat that as "not applicable". HandleWebhook never
// returns an error: failures come back as a result with Success=false.
// Adapters derive state and return it in the result; they never persist.
type IPaymentProvider interface {
	Name() entities.ProviderName
	CreateCheckoutSession(ctx context.Context, planID entities.PlanID, tenantID string, opts entities.CheckoutOptions) (entities.CheckoutSession, error)
	GetSubscription(ctx context.Context, providerSubscriptionID string) (*entities.Subscription, error)
	CancelSubscription(ctx context.Context, providerSubscriptionID string) error
	ListPaymentMethods(ctx context.Context, tenantID string) ([]entities.PaymentMethod, error)
	VerifyWebhookSignature(rawPayload []byte, signature string) bool
	ParseWebhook(rawPayload []byte) (entities.WebhookEvent, error)
	HandleWebhook(ctx context.Context, event entities.WebhookEvent) entities.WebhookResult
	GetPortalURL(ctx context.Context, tenantID string) (string, error)
}

// IOneclickEnroller is implemented by gateways with card enrollment followed by
// token-based recurring charges.
type IOneclickEnroller interface {
	StartInscription(ctx context.Context, tenantID, email string) (entities.InscriptionSession, error)
	RemoveInscription(ctx context.Context, method entities.PaymentMethod) error
	Authorize(ctx context.Context, method entities.PaymentMethod, planID entities.PlanID) (entities.Payment, error)
}
