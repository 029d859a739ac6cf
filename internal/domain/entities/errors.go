package entities

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration           = errors.New("payment provider configuration error")
	ErrNotConfigured           = errors.New("payment provider not configured")
	ErrNoProviderConfigured    = errors.New("no payment provider configured")
	ErrUnsupportedOperation    = errors.New("operation not supported by payment provider")
	ErrUpstreamGateway         = errors.New("payment gateway request failed")
	ErrUnknownPlan             = errors.New("unknown plan")
	ErrUnknownProvider         = errors.New("unknown payment provider")
	ErrPlanNotChargeable       = errors.New("plan is not chargeable")
	ErrContactSales            = errors.New("plan requires contacting sales")
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrCheckoutSessionNotFound = errors.New("checkout session not found")
	ErrPaymentMethodNotFound   = errors.New("payment method not found")
	ErrInvalidCorrelation      = errors.New("invalid correlation reference")
	ErrInvalidWebhookPayload   = errors.New("invalid webhook payload")
	ErrInvalidTenantID         = errors.New("invalid tenant id")
	ErrInvalidCheckoutOptions  = errors.New("invalid checkout options")
)

// GatewayError wraps a failed upstream call.
//
// Error() is deliberately generic so upstream internals never reach API
// clients; Cause() exposes the original error for logs.
type GatewayError struct {
	Provider ProviderName
	Op       string
	Err      error
}

func NewGatewayError(provider ProviderName, op string, err error) *GatewayError {
	return &GatewayError{Provider: provider, Op: op, Err: err}
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrUpstreamGateway.Error(), e.Provider, e.Op)
}

func (e *GatewayError) Unwrap() error {
	return ErrUpstreamGateway
}

func (e *GatewayError) Cause() error {
	return e.Err
}

// ConfigurationErrorf builds an error wrapping ErrConfiguration.
func ConfigurationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// UnsupportedOperation builds an error wrapping ErrUnsupportedOperation.
func UnsupportedOperation(provider ProviderName, op string) error {
	return fmt.Errorf("%w: %s does not support %s", ErrUnsupportedOperation, provider, op)
}

// NotConfigured builds an error wrapping ErrNotConfigured.
func NotConfigured(provider ProviderName) error {
	return fmt.Errorf("%w: %s", ErrNotConfigured, provider)
}
