package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"saas_billing/internal/config"
	"saas_billing/internal/domain/entities"
	"saas_billing/internal/domain/tenant"
	"saas_billing/internal/usecase/interfaces"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
	"go.uber.org/zap"
)

const (
	metadataTenantID = "tenant_id"
	metadataPlanID   = "plan_id"
)

// stripeAPI is the subset of the Stripe client used by the adapter.
type stripeAPI interface {
	NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error)
	CancelSubscription(id string, params *stripe.SubscriptionCancelParams) (*stripe.Subscription, error)
	SearchSubscriptions(params *stripe.SubscriptionSearchParams) ([]*stripe.Subscription, error)
	NewPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error)
}

type stripeSDK struct {
	api *client.API
}

func (s stripeSDK) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return s.api.CheckoutSessions.New(params)
}

func (s stripeSDK) GetSubscription(id string, params *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return s.api.Subscriptions.Get(id, params)
}

func (s stripeSDK) CancelSubscription(id string, params *stripe.SubscriptionCancelParams) (*stripe.Subscription, error) {
	return s.api.Subscriptions.Cancel(id, params)
}

func (s stripeSDK) SearchSubscriptions(params *stripe.SubscriptionSearchParams) ([]*stripe.Subscription, error) {
	var out []*stripe.Subscription
	it := s.api.Subscriptions.Search(params)
	for it.Next() {
		out = append(out, it.Subscription())
	}
	return out, it.Err()
}

func (s stripeSDK) NewPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	return s.api.BillingPortalSessions.New(params)
}

type StripeProvider struct {
	api             stripeAPI
	webhookSecret   string
	prices          map[entities.PlanID]string
	portalReturnURL string
	gw              gatewayCaller
	logger          *zap.Logger
}

var _ interfaces.IPaymentProvider = (*StripeProvider)(nil)

func NewStripeProvider(cfg config.StripeConfig, opts Options) (*StripeProvider, error) {
	if !cfg.Enabled() {
		return nil, entities.ConfigurationErrorf("missing STRIPE_SECRET_KEY")
	}

	backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: opts.Timeout},
		MaxNetworkRetries: stripe.Int64(int64(opts.MaxRetries)),
		LeveledLogger:     opts.logger("stripe.sdk").Sugar(),
	})
	sc := &client.API{}
	sc.Init(cfg.SecretKey, backends)

	return newStripeProvider(stripeSDK{api: sc}, cfg, opts), nil
}

func newStripeProvider(api stripeAPI, cfg config.StripeConfig, opts Options) *StripeProvider {
	logger := opts.logger("stripe")
	returnURL := cfg.PortalReturnURL
	if returnURL == "" {
		returnURL = opts.PublicBaseURL
	}
	prices := map[entities.PlanID]string{}
	if cfg.PriceIDPro != "" {
		prices[entities.PlanPro] = cfg.PriceIDPro
	}
	if cfg.PriceIDBusiness != "" {
		prices[entities.PlanBusiness] = cfg.PriceIDBusiness
	}
	logger.Info("stripe provider initialized", zap.Int("prices", len(prices)))

	return &StripeProvider{
		api:             api,
		webhookSecret:   cfg.WebhookSecret,
		prices:          prices,
		portalReturnURL: returnURL,
		gw:              gatewayCaller{provider: entities.ProviderStripe, timeout: opts.Timeout, logger: logger},
		logger:          logger,
	}
}

func (p *StripeProvider) Name() entities.ProviderName { return entities.ProviderStripe }

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, planID entities.PlanID, tenantID string, opts entities.CheckoutOptions) (entities.CheckoutSession, error) {
	priceID, ok := p.prices[planID]
	if !ok {
		return entities.CheckoutSession{}, entities.ConfigurationErrorf("stripe: no price configured for plan %q", planID)
	}

	md := map[string]string{}
	for k, v := range opts.Metadata {
		md[k] = v
	}
	md[metadataTenantID] = tenantID
	md[metadataPlanID] = string(planID)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(opts.SuccessURL),
		CancelURL:         stripe.String(opts.CancelURL),
		ClientReferenceID: stripe.String(tenantID),
		Metadata:          md,
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: md,
		},
	}
	if opts.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(opts.CustomerEmail)
	}

	var sess *stripe.CheckoutSession
	err := p.gw.call(ctx, "checkout.create", func(ctx context.Context) error {
		params.Context = ctx
		var err error
		sess, err = p.api.NewCheckoutSession(params)
		return err
	})
	if err != nil {
		return entities.CheckoutSession{}, err
	}
	p.logger.Info("checkout session created", zap.String("session_id", sess.ID), zap.String("tenant_id", tenantID), zap.String("plan_id", string(planID)))

	return entities.CheckoutSession{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
		PlanID:      planID,
		Provider:    entities.ProviderStripe,
		TenantID:    tenantID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

func (p *StripeProvider) GetSubscription(ctx context.Context, providerSubscriptionID string) (*entities.Subscription, error) {
	var sub *stripe.Subscription
	err := p.gw.call(ctx, "subscription.get", func(ctx context.Context) error {
		params := &stripe.SubscriptionParams{}
		params.Context = ctx
		var err error
		sub, err = p.api.GetSubscription(providerSubscriptionID, params)
		if isStripeNotFound(err) {
			return fmt.Errorf("%w: %s", entities.ErrSubscriptionNotFound, providerSubscriptionID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	out := subscriptionFromStripe(sub)
	return &out, nil
}

func (p *StripeProvider) CancelSubscription(ctx context.Context, providerSubscriptionID string) error {
	return p.gw.call(ctx, "subscription.cancel", func(ctx context.Context) error {
		params := &stripe.SubscriptionCancelParams{}
		params.Context = ctx
		_, err := p.api.CancelSubscription(providerSubscriptionID, params)
		if isStripeNotFound(err) {
			return fmt.Errorf("%w: %s", entities.ErrSubscriptionNotFound, providerSubscriptionID)
		}
		return err
	})
}

// ListPaymentMethods returns nothing: cards live in Stripe's hosted portal.
func (p *StripeProvider) ListPaymentMethods(context.Context, string) ([]entities.PaymentMethod, error) {
	return []entities.PaymentMethod{}, nil
}

func (p *StripeProvider) VerifyWebhookSignature(rawPayload []byte, signature string) bool {
	if p.webhookSecret == "" || signature == "" {
		return false
	}
	return webhook.ValidatePayload(rawPayload, signature, p.webhookSecret) == nil
}

func (p *StripeProvider) ParseWebhook(rawPayload []byte) (entities.WebhookEvent, error) {
	var evt stripe.Event
	if err := json.Unmarshal(rawPayload, &evt); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err)
	}
	if evt.ID == "" || evt.Type == "" || evt.Data == nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: missing id, type or data", entities.ErrInvalidWebhookPayload)
	}
	return entities.WebhookEvent{
		Provider:  entities.ProviderStripe,
		EventID:   evt.ID,
		EventType: string(evt.Type),
		Data:      evt.Data.Raw,
	}, nil
}

func (p *StripeProvider) HandleWebhook(_ context.Context, event entities.WebhookEvent) entities.WebhookResult {
	log := p.logger.With(zap.String("event_id", event.EventID), zap.String("event_type", event.EventType))

	switch event.EventType {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data, &sess); err != nil {
			return entities.FailedResult(fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err))
		}
		if sess.Mode != stripe.CheckoutSessionModeSubscription || sess.Subscription == nil {
			log.Info("checkout session without subscription ignored")
			return entities.ProcessedResult()
		}
		tenantID, planID, err := tenantAndPlan(sess.Metadata)
		if err != nil {
			return entities.FailedResult(err)
		}
		start, end := entities.OneIntervalFrom(time.Now())
		res := entities.ProcessedResult()
		res.Subscription = &entities.Subscription{
			TenantID:               tenantID,
			Provider:               entities.ProviderStripe,
			ProviderSubscriptionID: sess.Subscription.ID,
			PlanID:                 planID,
			Status:                 entities.SubscriptionStatusActive,
			CurrentPeriodStart:     start,
			CurrentPeriodEnd:       end,
		}
		log.Info("checkout completed", zap.String("tenant_id", tenantID), zap.String("subscription_id", sess.Subscription.ID))
		return res

	case "customer.subscription.created", "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data, &sub); err != nil {
			return entities.FailedResult(fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err))
		}
		mapped := subscriptionFromStripe(&sub)
		if mapped.TenantID == "" {
			log.Warn("subscription without tenant metadata ignored", zap.String("subscription_id", sub.ID))
			return entities.ProcessedResult()
		}
		if event.EventType == "customer.subscription.deleted" {
			mapped.Status = entities.SubscriptionStatusCanceled
		}
		res := entities.ProcessedResult()
		res.Subscription = &mapped
		return res

	case "invoice.paid", "invoice.payment_succeeded", "invoice.payment_failed":
		var inv stripeInvoice
		if err := json.Unmarshal(event.Data, &inv); err != nil {
			return entities.FailedResult(fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err))
		}
		tenantID, planID, err := tenantAndPlan(inv.metadata())
		if err != nil {
			log.Warn("invoice without tenant metadata ignored", zap.String("invoice_id", inv.ID))
			return entities.ProcessedResult()
		}
		res := entities.ProcessedResult()
		res.Payment = inv.toPayment(tenantID, planID, event.EventType != "invoice.payment_failed")
		res.Payment.RawPayload = event.Data
		return res

	default:
		log.Info("unhandled stripe event type")
		return entities.ProcessedResult()
	}
}

// GetPortalURL opens a billing portal session for the customer that owns the
// tenant's subscription.
func (p *StripeProvider) GetPortalURL(ctx context.Context, tenantID string) (string, error) {
	// The id is interpolated into a search query.
	if !tenant.ValidID(tenantID) {
		return "", entities.ErrInvalidTenantID
	}
	var url string
	err := p.gw.call(ctx, "portal.create", func(ctx context.Context) error {
		search := &stripe.SubscriptionSearchParams{}
		search.Query = fmt.Sprintf("metadata['%s']:'%s'", metadataTenantID, tenantID)
		search.Context = ctx
		subs, err := p.api.SearchSubscriptions(search)
		if err != nil {
			return err
		}

		var customerID string
		for _, s := range subs {
			if s.Customer != nil && s.Customer.ID != "" {
				customerID = s.Customer.ID
				break
			}
		}
		if customerID == "" {
			return fmt.Errorf("%w: no stripe customer for tenant", entities.ErrSubscriptionNotFound)
		}

		params := &stripe.BillingPortalSessionParams{
			Customer:  stripe.String(customerID),
			ReturnURL: stripe.String(p.portalReturnURL),
		}
		params.Context = ctx
		sess, err := p.api.NewPortalSession(params)
		if err != nil {
			return err
		}
		url = sess.URL
		return nil
	})
	return url, err
}

func subscriptionFromStripe(sub *stripe.Subscription) entities.Subscription {
	out := entities.Subscription{
		Provider:               entities.ProviderStripe,
		ProviderSubscriptionID: sub.ID,
		Status:                 mapStripeStatus(sub.Status),
		CancelAtPeriodEnd:      sub.CancelAtPeriodEnd,
	}
	if tenantID, planID, err := tenantAndPlan(sub.Metadata); err == nil {
		out.TenantID = tenantID
		out.PlanID = planID
	}
	if sub.Items != nil {
		for _, item := range sub.Items.Data {
			if item == nil || item.CurrentPeriodEnd == 0 {
				continue
			}
			out.CurrentPeriodStart = ptrTime(time.Unix(item.CurrentPeriodStart, 0))
			out.CurrentPeriodEnd = ptrTime(time.Unix(item.CurrentPeriodEnd, 0))
			break
		}
	}
	return out
}

func mapStripeStatus(s stripe.SubscriptionStatus) entities.SubscriptionStatus {
	switch s {
	case stripe.SubscriptionStatusTrialing:
		return entities.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusActive:
		return entities.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue, "paused":
		return entities.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return entities.SubscriptionStatusCanceled
	case stripe.SubscriptionStatusUnpaid:
		return entities.SubscriptionStatusUnpaid
	default:
		return entities.SubscriptionStatusIncomplete
	}
}

func tenantAndPlan(md map[string]string) (string, entities.PlanID, error) {
	tenantID := md[metadataTenantID]
	planID, ok := entities.ParsePlanID(md[metadataPlanID])
	if tenantID == "" || !ok {
		return "", "", fmt.Errorf("%w: missing tenant or plan metadata", entities.ErrInvalidCorrelation)
	}
	return tenantID, planID, nil
}

func isStripeNotFound(err error) bool {
	var se *stripe.Error
	return errors.As(err, &se) && se.HTTPStatusCode == http.StatusNotFound
}

// stripeInvoice decodes only the invoice fields this service reads.
type stripeInvoice struct {
	ID         string            `json:"id"`
	AmountPaid int64             `json:"amount_paid"`
	AmountDue  int64             `json:"amount_due"`
	Currency   string            `json:"currency"`
	Metadata   map[string]string `json:"metadata"`
	Parent     struct {
		SubscriptionDetails struct {
			Subscription string            `json:"subscription"`
			Metadata     map[string]string `json:"metadata"`
		} `json:"subscription_details"`
	} `json:"parent"`
	StatusTransitions struct {
		PaidAt int64 `json:"paid_at"`
	} `json:"status_transitions"`
}

func (inv stripeInvoice) metadata() map[string]string {
	if md := inv.Parent.SubscriptionDetails.Metadata; len(md) > 0 {
		return md
	}
	return inv.Metadata
}

func (inv stripeInvoice) toPayment(tenantID string, planID entities.PlanID, paid bool) *entities.Payment {
	p := &entities.Payment{
		TenantID:          tenantID,
		Provider:          entities.ProviderStripe,
		ProviderPaymentID: inv.ID,
		PlanID:            planID,
		Amount:            inv.AmountDue,
		Currency:          strings.ToUpper(inv.Currency),
		Status:            entities.PaymentStatusRejected,
	}
	if paid {
		p.Status = entities.PaymentStatusApproved
		p.Amount = inv.AmountPaid
		paidAt := time.Now()
		if inv.StatusTransitions.PaidAt > 0 {
			paidAt = time.Unix(inv.StatusTransitions.PaidAt, 0)
		}
		p.PaidAt = ptrTime(paidAt)
	}
	return p
}
