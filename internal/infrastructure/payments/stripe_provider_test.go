package payments

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"saas_billing/internal/config"
	"saas_billing/internal/domain/entities"

	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

type fakeStripeAPI struct {
	checkoutParams *stripe.CheckoutSessionParams
	checkoutErr    error
	subscription   *stripe.Subscription
	getErr         error
	canceled       string
	searchResult   []*stripe.Subscription
	searchQuery    string
	portalParams   *stripe.BillingPortalSessionParams
}

func (f *fakeStripeAPI) NewCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.checkoutParams = params
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	return &stripe.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (f *fakeStripeAPI) GetSubscription(id string, _ *stripe.SubscriptionParams) (*stripe.Subscription, error) {
	return f.subscription, f.getErr
}

func (f *fakeStripeAPI) CancelSubscription(id string, _ *stripe.SubscriptionCancelParams) (*stripe.Subscription, error) {
	f.canceled = id
	return &stripe.Subscription{ID: id, Status: stripe.SubscriptionStatusCanceled}, nil
}

func (f *fakeStripeAPI) SearchSubscriptions(params *stripe.SubscriptionSearchParams) ([]*stripe.Subscription, error) {
	f.searchQuery = params.Query
	return f.searchResult, nil
}

func (f *fakeStripeAPI) NewPortalSession(params *stripe.BillingPortalSessionParams) (*stripe.BillingPortalSession, error) {
	f.portalParams = params
	return &stripe.BillingPortalSession{URL: "https://billing.stripe.com/p/session/test"}, nil
}

func newTestStripe(api stripeAPI) *StripeProvider {
	return newStripeProvider(api, config.StripeConfig{
		SecretKey:       "sk_test",
		WebhookSecret:   "whsec_test",
		PriceIDPro:      "price_pro",
		PriceIDBusiness: "price_business",
	}, Options{PublicBaseURL: "https://billing.example.com", Timeout: time.Second})
}

func TestStripeCreateCheckoutSession(t *testing.T) {
	api := &fakeStripeAPI{}
	p := newTestStripe(api)

	sess, err := p.CreateCheckoutSession(context.Background(), entities.PlanPro, "tenant-1", entities.CheckoutOptions{
		SuccessURL: "https://app.example.com/ok",
		CancelURL:  "https://app.example.com/cancel",
		Metadata:   map[string]string{"source": "dashboard"},
	})
	require.NoError(t, err)
	require.Equal(t, "cs_test_1", sess.SessionID)
	require.Equal(t, entities.ProviderStripe, sess.Provider)

	params := api.checkoutParams
	require.Equal(t, "price_pro", *params.LineItems[0].Price)
	require.Equal(t, "tenant-1", params.SubscriptionData.Metadata[metadataTenantID])
	require.Equal(t, "PRO", params.SubscriptionData.Metadata[metadataPlanID])
	require.Equal(t, "dashboard", params.Metadata["source"])
}

func TestStripeCreateCheckoutSessionUnconfiguredPlan(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	for _, plan := range []entities.PlanID{entities.PlanEnterprise, entities.PlanFree, "UNKNOWN"} {
		_, err := p.CreateCheckoutSession(context.Background(), plan, "tenant-1", entities.CheckoutOptions{})
		require.ErrorIs(t, err, entities.ErrConfiguration)
	}
}

func TestStripeCreateCheckoutSessionUpstreamError(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{checkoutErr: errors.New("card_declined: secret detail")})
	_, err := p.CreateCheckoutSession(context.Background(), entities.PlanBusiness, "tenant-1", entities.CheckoutOptions{})
	require.ErrorIs(t, err, entities.ErrUpstreamGateway)
	require.NotContains(t, err.Error(), "secret detail")
}

func TestStripeGetSubscription(t *testing.T) {
	api := &fakeStripeAPI{subscription: &stripe.Subscription{
		ID:       "sub_1",
		Status:   stripe.SubscriptionStatusPastDue,
		Metadata: map[string]string{metadataTenantID: "tenant-1", metadataPlanID: "BUSINESS"},
		Items: &stripe.SubscriptionItemList{Data: []*stripe.SubscriptionItem{
			{CurrentPeriodStart: 1700000000, CurrentPeriodEnd: 1702592000},
		}},
	}}
	p := newTestStripe(api)

	sub, err := p.GetSubscription(context.Background(), "sub_1")
	require.NoError(t, err)
	require.Equal(t, entities.SubscriptionStatusPastDue, sub.Status)
	require.Equal(t, "tenant-1", sub.TenantID)
	require.Equal(t, entities.PlanBusiness, sub.PlanID)
	require.Equal(t, int64(1702592000), sub.CurrentPeriodEnd.Unix())
}

func TestStripeGetSubscriptionNotFound(t *testing.T) {
	api := &fakeStripeAPI{getErr: &stripe.Error{HTTPStatusCode: http.StatusNotFound}}
	p := newTestStripe(api)

	_, err := p.GetSubscription(context.Background(), "sub_missing")
	require.ErrorIs(t, err, entities.ErrSubscriptionNotFound)
}

func TestStripeGetPortalURLRejectsQuotedTenant(t *testing.T) {
	api := &fakeStripeAPI{searchResult: []*stripe.Subscription{{ID: "sub_1", Customer: &stripe.Customer{ID: "cus_1"}}}}
	p := newTestStripe(api)

	for _, id := range []string{"x' OR metadata['plan_id']:'PRO", "a'b", ""} {
		_, err := p.GetPortalURL(context.Background(), id)
		require.ErrorIs(t, err, entities.ErrInvalidTenantID, id)
	}
	require.Empty(t, api.searchQuery)
	require.Nil(t, api.portalParams)
}

func TestStripeCancelSubscription(t *testing.T) {
	api := &fakeStripeAPI{}
	require.NoError(t, newTestStripe(api).CancelSubscription(context.Background(), "sub_9"))
	require.Equal(t, "sub_9", api.canceled)
}

func TestStripeVerifyWebhookSignature(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	payload := []byte(`{"id":"evt_1","type":"ping","data":{"object":{}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})
	require.True(t, p.VerifyWebhookSignature(payload, signed.Header))

	forged := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_other",
		Timestamp: time.Now(),
	})
	require.False(t, p.VerifyWebhookSignature(payload, forged.Header))
	require.False(t, p.VerifyWebhookSignature(payload, ""))
	require.False(t, p.VerifyWebhookSignature([]byte(`{"tampered":true}`), signed.Header))
}

func TestStripeWebhookSubscriptionUpdated(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	raw := []byte(`{
		"id": "evt_1",
		"type": "customer.subscription.updated",
		"data": {"object": {
			"id": "sub_1",
			"object": "subscription",
			"status": "incomplete_expired",
			"cancel_at_period_end": true,
			"metadata": {"tenant_id": "tenant-1", "plan_id": "PRO"},
			"items": {"object": "list", "data": [{"id": "si_1", "current_period_start": 1700000000, "current_period_end": 1702592000}]}
		}}
	}`)

	event, err := p.ParseWebhook(raw)
	require.NoError(t, err)
	require.Equal(t, "evt_1", event.EventID)

	res := p.HandleWebhook(context.Background(), event)
	require.True(t, res.Success)
	require.True(t, res.Processed)
	require.NotNil(t, res.Subscription)
	require.Equal(t, entities.SubscriptionStatusIncomplete, res.Subscription.Status)
	require.True(t, res.Subscription.CancelAtPeriodEnd)
	require.Equal(t, "tenant-1", res.Subscription.TenantID)
}

func TestStripeWebhookSubscriptionDeleted(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	event, err := p.ParseWebhook([]byte(`{"id":"evt_2","type":"customer.subscription.deleted","data":{"object":{"id":"sub_1","status":"active","metadata":{"tenant_id":"t","plan_id":"PRO"}}}}`))
	require.NoError(t, err)

	res := p.HandleWebhook(context.Background(), event)
	require.Equal(t, entities.SubscriptionStatusCanceled, res.Subscription.Status)
}

func TestStripeWebhookCheckoutCompleted(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	event, err := p.ParseWebhook([]byte(`{"id":"evt_3","type":"checkout.session.completed","data":{"object":{"id":"cs_1","mode":"subscription","subscription":"sub_7","metadata":{"tenant_id":"tenant-7","plan_id":"BUSINESS"}}}}`))
	require.NoError(t, err)

	res := p.HandleWebhook(context.Background(), event)
	require.True(t, res.Success)
	require.Equal(t, "sub_7", res.Subscription.ProviderSubscriptionID)
	require.Equal(t, entities.PlanBusiness, res.Subscription.PlanID)
	require.Equal(t, entities.SubscriptionStatusActive, res.Subscription.Status)
}

func TestStripeWebhookInvoicePaid(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	event, err := p.ParseWebhook([]byte(`{"id":"evt_4","type":"invoice.paid","data":{"object":{"id":"in_1","amount_paid":2900,"amount_due":2900,"currency":"usd","parent":{"subscription_details":{"subscription":"sub_1","metadata":{"tenant_id":"tenant-1","plan_id":"PRO"}}},"status_transitions":{"paid_at":1700000000}}}}`))
	require.NoError(t, err)

	res := p.HandleWebhook(context.Background(), event)
	require.NotNil(t, res.Payment)
	require.Equal(t, entities.PaymentStatusApproved, res.Payment.Status)
	require.Equal(t, int64(2900), res.Payment.Amount)
	require.Equal(t, "USD", res.Payment.Currency)
	require.Equal(t, "in_1", res.Payment.ProviderPaymentID)
}

func TestStripeWebhookUnknownEventIsProcessed(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	event, err := p.ParseWebhook([]byte(`{"id":"evt_5","type":"customer.tax_id.created","data":{"object":{}}}`))
	require.NoError(t, err)

	res := p.HandleWebhook(context.Background(), event)
	require.Equal(t, entities.ProcessedResult(), res)
}

func TestStripeParseWebhookInvalid(t *testing.T) {
	p := newTestStripe(&fakeStripeAPI{})
	_, err := p.ParseWebhook([]byte(`{`))
	require.ErrorIs(t, err, entities.ErrInvalidWebhookPayload)
	_, err = p.ParseWebhook([]byte(`{"type":"x"}`))
	require.ErrorIs(t, err, entities.ErrInvalidWebhookPayload)
}

func TestStripeGetPortalURL(t *testing.T) {
	api := &fakeStripeAPI{searchResult: []*stripe.Subscription{{ID: "sub_1", Customer: &stripe.Customer{ID: "cus_1"}}}}
	p := newTestStripe(api)

	url, err := p.GetPortalURL(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Equal(t, "https://billing.stripe.com/p/session/test", url)
	require.Equal(t, "metadata['tenant_id']:'tenant-1'", api.searchQuery)
	require.Equal(t, "cus_1", *api.portalParams.Customer)
	require.Equal(t, "https://billing.example.com", *api.portalParams.ReturnURL)

	_, err = newTestStripe(&fakeStripeAPI{}).GetPortalURL(context.Background(), "tenant-2")
	require.ErrorIs(t, err, entities.ErrSubscriptionNotFound)
}
