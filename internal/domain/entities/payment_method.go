package entities

import "time"

// PaymentMethodType is the kind of instrument stored for a tenant.
type PaymentMethodType string

const (
	PaymentMethodCard        PaymentMethodType = "card"
	PaymentMethodBankAccount PaymentMethodType = "bank_account"
	PaymentMethodOneclick    PaymentMethodType = "oneclick"
)

// PaymentMethod belongs to a tenant's subscription.
//
// ProviderRef is the gateway token used to charge the method (Oneclick
// tbk_user). It is stored but never returned to clients.
type PaymentMethod struct {
	ID          string            `json:"id"`
	TenantID    string            `json:"tenant_id"`
	Type        PaymentMethodType `json:"type"`
	Provider    ProviderName      `json:"provider"`
	ProviderRef string            `json:"-"`
	Username    string            `json:"-"`
	Last4       string            `json:"last4"`
	Brand       string            `json:"brand"`
	IsDefault   bool              `json:"is_default"`
	CreatedAt   time.Time         `json:"created_at"`
}
