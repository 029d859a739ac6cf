package usecase

import (
	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"
)

// chileanPreference is the provider order for CL, most preferred first.
var chileanPreference = []entities.ProviderName{
	entities.ProviderTransbank,
	entities.ProviderMercadoPago,
	entities.ProviderFlow,
	entities.ProviderStripe,
}

// IPaymentService resolves configured provider adapters.
type IPaymentService interface {
	GetProvider(name entities.ProviderName) (interfaces.IPaymentProvider, error)
	GetAvailableProviders() []entities.ProviderName
	GetPreferredProvider(region entities.Region) (interfaces.IPaymentProvider, error)
}

// PaymentService is the read-only provider registry assembled at startup.
type PaymentService struct {
	providers map[entities.ProviderName]interfaces.IPaymentProvider
}

var _ IPaymentService = (*PaymentService)(nil)

// NewPaymentService registers the given adapters under their own names. Only
// adapters that were actually constructed should be passed in.
func NewPaymentService(providers ...interfaces.IPaymentProvider) *PaymentService {
	m := make(map[entities.ProviderName]interfaces.IPaymentProvider, len(providers))
	for _, p := range providers {
		if p != nil {
			m[p.Name()] = p
		}
	}
	return &PaymentService{providers: m}
}

func (s *PaymentService) GetProvider(name entities.ProviderName) (interfaces.IPaymentProvider, error) {
	p, ok := s.providers[name]
	if !ok {
		return nil, entities.NotConfigured(name)
	}
	return p, nil
}

// GetAvailableProviders lists configured providers in a stable order.
func (s *PaymentService) GetAvailableProviders() []entities.ProviderName {
	out := make([]entities.ProviderName, 0, len(s.providers))
	for _, name := range entities.AllProviders {
		if _, ok := s.providers[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// GetPreferredProvider picks Transbank, then MercadoPago, then Flow, then
// Stripe for Chile and Stripe everywhere else.
func (s *PaymentService) GetPreferredProvider(region entities.Region) (interfaces.IPaymentProvider, error) {
	order := []entities.ProviderName{entities.ProviderStripe}
	if region == entities.RegionChile {
		order = chileanPreference
	}
	for _, name := range order {
		if p, ok := s.providers[name]; ok {
			return p, nil
		}
	}
	return nil, entities.ErrNoProviderConfigured
}
