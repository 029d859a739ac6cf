package payments

import (
	"saas_billing/internal/config"
	"saas_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

// NewProvidersFromConfig constructs an adapter for every provider whose
// credentials are present. Providers without credentials are skipped; a
// provider that fails to initialize is logged and skipped too.
func NewProvidersFromConfig(cfg config.Config, logger *zap.Logger) []interfaces.IPaymentProvider {
	opts := Options{
		PublicBaseURL: cfg.PublicBaseURL,
		Timeout:       cfg.GatewayTimeout,
		MaxRetries:    cfg.GatewayMaxRetries,
		Logger:        logger,
	}

	var out []interfaces.IPaymentProvider
	add := func(name string, p interfaces.IPaymentProvider, err error) {
		if err != nil {
			logger.Warn("payment provider not configured", zap.String("provider", name), zap.Error(err))
			return
		}
		out = append(out, p)
	}

	if cfg.Stripe.Enabled() {
		p, err := NewStripeProvider(cfg.Stripe, opts)
		add("stripe", p, err)
	}
	if cfg.Transbank.Enabled() {
		p, err := NewTransbankProvider(cfg.Transbank, opts)
		add("transbank", p, err)
	}
	if cfg.MercadoPago.Enabled() {
		p, err := NewMercadoPagoProvider(cfg.MercadoPago, opts)
		add("mercadopago", p, err)
	}
	if cfg.Flow.Enabled() {
		p, err := NewFlowProvider(cfg.Flow, opts)
		add("flow", p, err)
	}
	return out
}
