package interfaces

import (
	"context"

	"saas_billing/internal/domain/entities"
)

//go:generate mockgen -source=payment_repository_interface.go -destination=mocks/payment_repository_interface_mock.go -package=mock_interfaces

// IPaymentRepository persists gateway payments keyed by (provider, provider_payment_id).
type IPaymentRepository interface {
	Upsert(ctx context.Context, p entities.Payment) (entities.Payment, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entities.Payment, error)
}

// IPaymentMethodRepository persists stored payment instruments keyed by
// (provider, provider_ref).
type IPaymentMethodRepository interface {
	Upsert(ctx context.Context, method entities.PaymentMethod) (entities.PaymentMethod, error)
	ListByTenant(ctx context.Context, tenantID string) ([]entities.PaymentMethod, error)
	GetByID(ctx context.Context, tenantID, id string) (entities.PaymentMethod, error)
	Delete(ctx context.Context, tenantID, id string) error
}
