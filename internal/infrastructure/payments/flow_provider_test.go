package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"saas_billing/internal/config"
	"saas_billing/internal/domain/correlation"
	"saas_billing/internal/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFlow struct {
	t        *testing.T
	created  url.Values
	status   int
	optional string
}

// validSignature recomputes the s parameter the way Flow does.
func validSignature(values url.Values, secret string) bool {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "s" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k + values.Get(k))
	}
	return hmacSHA256Hex(secret, b.String()) == values.Get("s")
}

func (f *fakeFlow) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/payment/create", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(f.t, r.ParseForm())
		f.created = r.PostForm
		assert.True(f.t, validSignature(r.PostForm, "flow-secret"))
		_, _ = w.Write([]byte(`{"url":"https://sandbox.flow.cl/app/web/pay.php","token":"flow-tok","flowOrder":8765}`))
	})
	mux.HandleFunc("/payment/getStatus", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.True(f.t, validSignature(q, "flow-secret"))
		assert.Equal(f.t, "flow-tok", q.Get("token"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"flowOrder":     8765,
			"commerceOrder": "F123",
			"status":        f.status,
			"amount":        29000,
			"optional":      json.RawMessage(f.optional),
		})
	})
	return mux
}

func newTestFlow(t *testing.T, fake *fakeFlow) *FlowProvider {
	fake.t = t
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return newFlowProvider(srv.URL, config.FlowConfig{APIKey: "flow-key", Secret: "flow-secret"}, Options{
		PublicBaseURL: "https://billing.example.com",
		Timeout:       5 * time.Second,
	})
}

func TestFlowCreateCheckoutSession(t *testing.T) {
	fake := &fakeFlow{}
	p := newTestFlow(t, fake)

	sess, err := p.CreateCheckoutSession(context.Background(), entities.PlanBusiness, "tenant-8", entities.CheckoutOptions{
		SuccessURL:    "https://app/ok",
		CustomerEmail: "owner@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, "flow-tok", sess.SessionID)
	require.Equal(t, "https://sandbox.flow.cl/app/web/pay.php?token=flow-tok", sess.CheckoutURL)

	require.Equal(t, "flow-key", fake.created.Get("apiKey"))
	require.Equal(t, "79000", fake.created.Get("amount"))
	require.Equal(t, "https://billing.example.com/v1/webhooks/flow", fake.created.Get("urlConfirmation"))

	var optional map[string]string
	require.NoError(t, json.Unmarshal([]byte(fake.created.Get("optional")), &optional))
	ref, err := correlation.Parse(optional["reference"])
	require.NoError(t, err)
	require.Equal(t, "tenant-8", ref.TenantID)
	require.Equal(t, sess.Reference, optional["reference"])
}

func TestFlowCreateCheckoutSessionValidation(t *testing.T) {
	p := newTestFlow(t, &fakeFlow{})

	_, err := p.CreateCheckoutSession(context.Background(), entities.PlanPro, "t", entities.CheckoutOptions{})
	require.ErrorIs(t, err, entities.ErrInvalidCheckoutOptions)

	for _, plan := range []entities.PlanID{entities.PlanEnterprise, "UNKNOWN"} {
		_, err = p.CreateCheckoutSession(context.Background(), plan, "t", entities.CheckoutOptions{CustomerEmail: "a@b.c"})
		require.ErrorIs(t, err, entities.ErrConfiguration)
	}
}

func TestFlowVerifyWebhookSignature(t *testing.T) {
	p := newTestFlow(t, &fakeFlow{})
	body := `{"token":"flow-tok","timestamp":1700000000}`
	sig := hmacSHA256Hex("flow-secret", body, "1700000000")

	require.True(t, p.VerifyWebhookSignature([]byte(body), sig))
	require.False(t, p.VerifyWebhookSignature([]byte(body), hmacSHA256Hex("other", body, "1700000000")))
	require.False(t, p.VerifyWebhookSignature([]byte(`{"token":"flow-tok"}`), sig))
	require.False(t, p.VerifyWebhookSignature([]byte(body), ""))

	// form confirmations carry no signature
	require.True(t, p.VerifyWebhookSignature([]byte("token=flow-tok"), ""))
	require.False(t, p.VerifyWebhookSignature([]byte("other=1"), ""))
}

func TestFlowPaymentStatusWebhook(t *testing.T) {
	ref := correlation.Encode("tenant-8", entities.PlanPro, time.Unix(1700000000, 0))
	optionalObject, _ := json.Marshal(map[string]string{"reference": ref})
	optionalString, _ := json.Marshal(string(optionalObject))

	tests := []struct {
		name     string
		status   int
		optional string
		wantPay  entities.PaymentStatus
		wantSub  entities.SubscriptionStatus
	}{
		{"pending", 1, string(optionalObject), entities.PaymentStatusPending, entities.SubscriptionStatusIncomplete},
		{"paid", 2, string(optionalObject), entities.PaymentStatusApproved, entities.SubscriptionStatusActive},
		{"rejected", 3, string(optionalString), entities.PaymentStatusRejected, entities.SubscriptionStatusUnpaid},
		{"canceled", 4, string(optionalObject), entities.PaymentStatusRejected, entities.SubscriptionStatusCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestFlow(t, &fakeFlow{status: tt.status, optional: tt.optional})

			event, err := p.ParseWebhook([]byte("token=flow-tok"))
			require.NoError(t, err)
			require.Equal(t, "flow-tok", event.EventID)

			res := p.HandleWebhook(context.Background(), event)
			require.True(t, res.Success)
			require.Equal(t, tt.wantPay, res.Payment.Status)
			require.Equal(t, tt.wantSub, res.Subscription.Status)
			require.Equal(t, "8765", res.Payment.ProviderPaymentID)
			require.Equal(t, "F123", res.Subscription.ProviderSubscriptionID)
			require.Equal(t, "tenant-8", res.Subscription.TenantID)
		})
	}
}

func TestFlowWebhookWithoutReferenceIsIgnored(t *testing.T) {
	p := newTestFlow(t, &fakeFlow{status: 2, optional: "null"})
	event, err := p.ParseWebhook([]byte(`{"token":"flow-tok","timestamp":1}`))
	require.NoError(t, err)

	res := p.HandleWebhook(context.Background(), event)
	require.Equal(t, entities.ProcessedResult(), res)
}

func TestFlowUnknownEventIsProcessed(t *testing.T) {
	p := newTestFlow(t, &fakeFlow{})
	event, err := p.ParseWebhook([]byte(`{"token":"t","timestamp":1,"event":"refund.created"}`))
	require.NoError(t, err)
	require.Equal(t, entities.ProcessedResult(), p.HandleWebhook(context.Background(), event))
}

func TestFlowUnsupportedOperations(t *testing.T) {
	p := newTestFlow(t, &fakeFlow{})
	sub, err := p.GetSubscription(context.Background(), "x")
	require.NoError(t, err)
	require.Nil(t, sub)
	require.ErrorIs(t, p.CancelSubscription(context.Background(), "x"), entities.ErrUnsupportedOperation)

	_, err = NewFlowProvider(config.FlowConfig{APIKey: "k"}, Options{})
	require.ErrorIs(t, err, entities.ErrConfiguration)
}
