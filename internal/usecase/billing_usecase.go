package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/domain/tenant"
	"saas_billing/internal/metrics"
	"saas_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var ErrPersistenceNotConfigured = errors.New("billing storage not configured")

// CheckoutInput is a checkout request. Provider is optional; when empty the
// preferred provider for Region is used.
type CheckoutInput struct {
	PlanID   string
	Provider string
	Region   string
	Options  entities.CheckoutOptions
}

// ProvidersInfo describes what a tenant can pay with.
type ProvidersInfo struct {
	Available []entities.ProviderName
	Preferred entities.ProviderName
	Region    entities.Region
}

//go:generate mockgen -source=billing_usecase.go -destination=../adapter/http/handlers/mocks/billing_usecase_mock.go -package=mocks

// IBillingUseCase is the facade consumed by the REST handlers. Every method is
// scoped to tenantID.
type IBillingUseCase interface {
	ListPlans() []entities.SubscriptionPlan
	ListProviders(region string) ProvidersInfo
	CreateCheckout(ctx context.Context, tenantID string, in CheckoutInput) (entities.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, tenantID, sessionID string) (entities.CheckoutSession, error)
	GetSubscription(ctx context.Context, tenantID string) (entities.Subscription, error)
	CancelSubscription(ctx context.Context, tenantID string) (entities.Subscription, error)
	ListPaymentMethods(ctx context.Context, tenantID string) ([]entities.PaymentMethod, error)
	StartOneclickInscription(ctx context.Context, tenantID, email string) (entities.InscriptionSession, error)
	RemovePaymentMethod(ctx context.Context, tenantID, id string) error
	ChargePaymentMethod(ctx context.Context, tenantID, id, planID string) (entities.Payment, error)
	ListPayments(ctx context.Context, tenantID string) ([]entities.Payment, error)
	GetPortalURL(ctx context.Context, tenantID string) (string, error)
}

type BillingUseCase struct {
	providers     IPaymentService
	subscriptions interfaces.ISubscriptionRepository
	payments      interfaces.IPaymentRepository
	methods       interfaces.IPaymentMethodRepository
	sessions      interfaces.ICheckoutSessionStore
	defaultRegion entities.Region
	logger        *zap.Logger
}

var _ IBillingUseCase = (*BillingUseCase)(nil)

// BillingDeps groups the optional storage ports. Any of them may be nil when
// the backing store is not configured.
type BillingDeps struct {
	Subscriptions interfaces.ISubscriptionRepository
	Payments      interfaces.IPaymentRepository
	Methods       interfaces.IPaymentMethodRepository
	Sessions      interfaces.ICheckoutSessionStore
}

func NewBillingUseCase(providers IPaymentService, deps BillingDeps, defaultRegion string, logger *zap.Logger) *BillingUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingUseCase{
		providers:     providers,
		subscriptions: deps.Subscriptions,
		payments:      deps.Payments,
		methods:       deps.Methods,
		sessions:      deps.Sessions,
		defaultRegion: entities.ParseRegion(defaultRegion),
		logger:        logger.Named("billing"),
	}
}

func (uc *BillingUseCase) ListPlans() []entities.SubscriptionPlan {
	return entities.Plans
}

func (uc *BillingUseCase) ListProviders(region string) ProvidersInfo {
	r := uc.region(region)
	info := ProvidersInfo{Available: uc.providers.GetAvailableProviders(), Region: r}
	if p, err := uc.providers.GetPreferredProvider(r); err == nil {
		info.Preferred = p.Name()
	}
	return info
}

// chargeablePlan rejects plans that must never reach an adapter.
func chargeablePlan(raw string) (entities.PlanID, error) {
	planID, ok := entities.ParsePlanID(raw)
	if !ok {
		return "", fmt.Errorf("%w: %q", entities.ErrUnknownPlan, raw)
	}
	plan, _ := entities.PlanByID(planID)
	switch {
	case plan.IsContactSales():
		return "", entities.ErrContactSales
	case plan.Price <= 0:
		return "", fmt.Errorf("%w: %s", entities.ErrPlanNotChargeable, planID)
	}
	return planID, nil
}

func (uc *BillingUseCase) CreateCheckout(ctx context.Context, tenantID string, in CheckoutInput) (entities.CheckoutSession, error) {
	if !tenant.ValidID(tenantID) {
		return entities.CheckoutSession{}, entities.ErrInvalidTenantID
	}
	planID, err := chargeablePlan(in.PlanID)
	if err != nil {
		return entities.CheckoutSession{}, err
	}
	provider, err := uc.resolveProvider(in.Provider, in.Region)
	if err != nil {
		return entities.CheckoutSession{}, err
	}

	uc.logger.Info("checkout start", zap.String("tenant_id", tenantID), zap.String("plan_id", string(planID)), zap.String("provider", string(provider.Name())))
	sess, err := provider.CreateCheckoutSession(ctx, planID, tenantID, in.Options)
	if err != nil {
		uc.logger.Warn("checkout failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return entities.CheckoutSession{}, err
	}
	metrics.CheckoutSessions.WithLabelValues(string(sess.Provider), string(planID)).Inc()

	if uc.sessions != nil {
		if err := uc.sessions.Save(ctx, sess); err != nil {
			uc.logger.Warn("checkout session cache failed", zap.String("session_id", sess.SessionID), zap.Error(err))
		}
	}
	return sess, nil
}

func (uc *BillingUseCase) GetCheckoutSession(ctx context.Context, tenantID, sessionID string) (entities.CheckoutSession, error) {
	if uc.sessions == nil {
		return entities.CheckoutSession{}, entities.ErrCheckoutSessionNotFound
	}
	sess, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return entities.CheckoutSession{}, err
	}
	if sess.TenantID != tenantID {
		return entities.CheckoutSession{}, entities.ErrCheckoutSessionNotFound
	}
	return sess, nil
}

// GetSubscription returns the tenant's current subscription, refreshed from the
// provider when it keeps subscriptions of its own.
func (uc *BillingUseCase) GetSubscription(ctx context.Context, tenantID string) (entities.Subscription, error) {
	if uc.subscriptions == nil {
		return entities.Subscription{}, ErrPersistenceNotConfigured
	}
	local, err := uc.subscriptions.GetCurrent(ctx, tenantID)
	if err != nil {
		return entities.Subscription{}, err
	}

	provider, err := uc.providers.GetProvider(local.Provider)
	if err != nil {
		return local, nil
	}
	remote, err := provider.GetSubscription(ctx, local.ProviderSubscriptionID)
	if err != nil {
		uc.logger.Warn("subscription refresh failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return local, nil
	}
	if remote == nil {
		return local, nil
	}

	refreshed := local
	refreshed.Status = remote.Status
	refreshed.CancelAtPeriodEnd = remote.CancelAtPeriodEnd
	if remote.CurrentPeriodEnd != nil {
		refreshed.CurrentPeriodStart = remote.CurrentPeriodStart
		refreshed.CurrentPeriodEnd = remote.CurrentPeriodEnd
	}
	if refreshed.Status == local.Status && refreshed.CancelAtPeriodEnd == local.CancelAtPeriodEnd && samePeriod(refreshed, local) {
		return local, nil
	}
	return uc.subscriptions.Upsert(ctx, refreshed)
}

func samePeriod(a, b entities.Subscription) bool {
	if a.CurrentPeriodEnd == nil || b.CurrentPeriodEnd == nil {
		return a.CurrentPeriodEnd == b.CurrentPeriodEnd
	}
	return a.CurrentPeriodEnd.Equal(*b.CurrentPeriodEnd)
}

// CancelSubscription cancels at the provider first, then in place locally.
// Canceling twice is a no-op.
func (uc *BillingUseCase) CancelSubscription(ctx context.Context, tenantID string) (entities.Subscription, error) {
	if uc.subscriptions == nil {
		return entities.Subscription{}, ErrPersistenceNotConfigured
	}
	sub, err := uc.subscriptions.GetCurrent(ctx, tenantID)
	if err != nil {
		return entities.Subscription{}, err
	}
	if sub.Status == entities.SubscriptionStatusCanceled {
		return sub, nil
	}

	provider, err := uc.providers.GetProvider(sub.Provider)
	if err != nil {
		return entities.Subscription{}, err
	}
	// Providers without recurring billing have nothing to cancel upstream; the
	// local record is the subscription.
	err = provider.CancelSubscription(ctx, sub.ProviderSubscriptionID)
	if err != nil && !errors.Is(err, entities.ErrUnsupportedOperation) {
		return entities.Subscription{}, err
	}

	sub.Status = entities.SubscriptionStatusCanceled
	sub.CancelAtPeriodEnd = false
	uc.logger.Info("subscription canceled", zap.String("tenant_id", tenantID), zap.String("provider", string(sub.Provider)))
	return uc.subscriptions.Upsert(ctx, sub)
}

// ListPaymentMethods merges stored methods with whatever the configured
// providers report.
func (uc *BillingUseCase) ListPaymentMethods(ctx context.Context, tenantID string) ([]entities.PaymentMethod, error) {
	out := []entities.PaymentMethod{}
	if uc.methods != nil {
		stored, err := uc.methods.ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		out = append(out, stored...)
	}
	for _, name := range uc.providers.GetAvailableProviders() {
		p, err := uc.providers.GetProvider(name)
		if err != nil {
			continue
		}
		listed, err := p.ListPaymentMethods(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		out = append(out, listed...)
	}
	return out, nil
}

func (uc *BillingUseCase) StartOneclickInscription(ctx context.Context, tenantID, email string) (entities.InscriptionSession, error) {
	enroller, err := uc.enroller()
	if err != nil {
		return entities.InscriptionSession{}, err
	}
	return enroller.StartInscription(ctx, tenantID, email)
}

func (uc *BillingUseCase) RemovePaymentMethod(ctx context.Context, tenantID, id string) error {
	if uc.methods == nil {
		return ErrPersistenceNotConfigured
	}
	method, err := uc.methods.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if method.Type == entities.PaymentMethodOneclick {
		enroller, err := uc.enroller()
		if err != nil {
			return err
		}
		if err := enroller.RemoveInscription(ctx, method); err != nil {
			return err
		}
	}
	uc.logger.Info("payment method removed", zap.String("tenant_id", tenantID), zap.String("method_id", id))
	return uc.methods.Delete(ctx, tenantID, id)
}

// ChargePaymentMethod runs a Oneclick recurring authorization for the plan and
// records the payment and the resulting subscription state.
func (uc *BillingUseCase) ChargePaymentMethod(ctx context.Context, tenantID, id, planID string) (entities.Payment, error) {
	plan, err := chargeablePlan(planID)
	if err != nil {
		return entities.Payment{}, err
	}
	if uc.methods == nil || uc.payments == nil || uc.subscriptions == nil {
		return entities.Payment{}, ErrPersistenceNotConfigured
	}
	method, err := uc.methods.GetByID(ctx, tenantID, id)
	if err != nil {
		return entities.Payment{}, err
	}
	if method.Type != entities.PaymentMethodOneclick {
		return entities.Payment{}, entities.UnsupportedOperation(method.Provider, "charge")
	}
	enroller, err := uc.enroller()
	if err != nil {
		return entities.Payment{}, err
	}

	pay, err := enroller.Authorize(ctx, method, plan)
	if err != nil {
		return entities.Payment{}, err
	}
	pay, err = uc.payments.Upsert(ctx, pay)
	if err != nil {
		return entities.Payment{}, err
	}

	sub := entities.Subscription{
		TenantID:               tenantID,
		Provider:               method.Provider,
		ProviderSubscriptionID: "oneclick-" + method.ID,
		PlanID:                 plan,
		Status:                 entities.SubscriptionStatusUnpaid,
	}
	if pay.Status == entities.PaymentStatusApproved {
		sub.Status = entities.SubscriptionStatusActive
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd = entities.OneIntervalFrom(time.Now())
	}
	if _, err := uc.subscriptions.Upsert(ctx, sub); err != nil {
		return entities.Payment{}, err
	}
	uc.logger.Info("oneclick charge", zap.String("tenant_id", tenantID), zap.String("status", string(pay.Status)))
	return pay, nil
}

func (uc *BillingUseCase) ListPayments(ctx context.Context, tenantID string) ([]entities.Payment, error) {
	if uc.payments == nil {
		return nil, ErrPersistenceNotConfigured
	}
	return uc.payments.ListByTenant(ctx, tenantID)
}

// GetPortalURL asks the provider of the current subscription. Tenants without
// a subscription, or on providers without a portal, get "".
func (uc *BillingUseCase) GetPortalURL(ctx context.Context, tenantID string) (string, error) {
	if uc.subscriptions == nil {
		return "", ErrPersistenceNotConfigured
	}
	sub, err := uc.subscriptions.GetCurrent(ctx, tenantID)
	if errors.Is(err, entities.ErrSubscriptionNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	provider, err := uc.providers.GetProvider(sub.Provider)
	if err != nil {
		return "", err
	}
	return provider.GetPortalURL(ctx, tenantID)
}

func (uc *BillingUseCase) resolveProvider(name, region string) (interfaces.IPaymentProvider, error) {
	if name == "" {
		return uc.providers.GetPreferredProvider(uc.region(region))
	}
	provider, ok := entities.ParseProviderName(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", entities.ErrUnknownProvider, name)
	}
	return uc.providers.GetProvider(provider)
}

func (uc *BillingUseCase) enroller() (interfaces.IOneclickEnroller, error) {
	p, err := uc.providers.GetProvider(entities.ProviderTransbank)
	if err != nil {
		return nil, err
	}
	enroller, ok := p.(interfaces.IOneclickEnroller)
	if !ok {
		return nil, entities.UnsupportedOperation(p.Name(), "oneclick")
	}
	return enroller, nil
}

func (uc *BillingUseCase) region(raw string) entities.Region {
	if r := entities.ParseRegion(raw); r != "" {
		return r
	}
	return uc.defaultRegion
}
