package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	appconfig "saas_billing/internal/config"
	"saas_billing/internal/domain/correlation"
	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"go.uber.org/zap"
)

const (
	mpEventPayment     = "payment"
	mpEventPreapproval = "subscription_preapproval"

	mpStatusCancelled = "cancelled"
)

type mpPreferenceClient interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

type mpPaymentClient interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

type mpPreapprovalClient interface {
	Get(ctx context.Context, id string) (*preapproval.Response, error)
	Update(ctx context.Context, id string, request preapproval.UpdateRequest) (*preapproval.Response, error)
}

type MercadoPagoProvider struct {
	preferences   mpPreferenceClient
	payments      mpPaymentClient
	preapprovals  mpPreapprovalClient
	webhookSecret string
	sandbox       bool
	opts          Options
	gw            gatewayCaller
	logger        *zap.Logger
}

var _ interfaces.IPaymentProvider = (*MercadoPagoProvider)(nil)

func NewMercadoPagoProvider(cfg appconfig.MercadoPagoConfig, opts Options) (*MercadoPagoProvider, error) {
	logger := opts.logger("mercadopago")
	if !cfg.Enabled() {
		logger.Warn("missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, entities.ConfigurationErrorf("missing MERCADOPAGO_ACCESS_TOKEN")
	}

	sdkCfg, err := config.New(cfg.AccessToken)
	if err != nil {
		logger.Error("failed creating sdk config", zap.Error(err))
		return nil, err
	}
	logger.Info("mercado pago client initialized")

	return newMercadoPagoProvider(
		preference.NewClient(sdkCfg),
		payment.NewClient(sdkCfg),
		preapproval.NewClient(sdkCfg),
		cfg, opts,
	), nil
}

func newMercadoPagoProvider(prefs mpPreferenceClient, pays mpPaymentClient, pre mpPreapprovalClient, cfg appconfig.MercadoPagoConfig, opts Options) *MercadoPagoProvider {
	logger := opts.logger("mercadopago")
	return &MercadoPagoProvider{
		preferences:   prefs,
		payments:      pays,
		preapprovals:  pre,
		webhookSecret: cfg.WebhookSecret,
		// test credentials only work against the sandbox checkout
		sandbox: strings.HasPrefix(cfg.AccessToken, "TEST-"),
		opts:    opts,
		gw:      gatewayCaller{provider: entities.ProviderMercadoPago, timeout: opts.Timeout, logger: logger},
		logger:  logger,
	}
}

func (p *MercadoPagoProvider) Name() entities.ProviderName { return entities.ProviderMercadoPago }

func (p *MercadoPagoProvider) CreateCheckoutSession(ctx context.Context, planID entities.PlanID, tenantID string, opts entities.CheckoutOptions) (entities.CheckoutSession, error) {
	amount, err := chargeableAmount(entities.ProviderMercadoPago, planID)
	if err != nil {
		return entities.CheckoutSession{}, err
	}

	now := time.Now()
	reference := correlation.Encode(tenantID, planID, now)
	md := map[string]any{metadataTenantID: tenantID, metadataPlanID: string(planID)}
	for k, v := range opts.Metadata {
		md[k] = v
	}

	req := preference.Request{
		Items: []preference.ItemRequest{{
			ID:         string(planID),
			Title:      planTitle(planID),
			Quantity:   1,
			UnitPrice:  float64(amount),
			CurrencyID: CurrencyCLP,
		}},
		BackURLs: &preference.BackURLsRequest{
			Success: opts.SuccessURL,
			Failure: opts.CancelURL,
			Pending: opts.SuccessURL,
		},
		ExternalReference: reference,
		NotificationURL:   p.opts.webhookURL(string(entities.ProviderMercadoPago)),
		Metadata:          md,
	}
	if opts.CustomerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: opts.CustomerEmail}
	}

	p.logger.Info("checkout create start", zap.String("tenant_id", tenantID), zap.String("plan_id", string(planID)))
	var resp *preference.Response
	err = p.gw.call(ctx, "preference.create", func(ctx context.Context) error {
		var err error
		resp, err = p.preferences.Create(ctx, req)
		return err
	})
	if err != nil {
		return entities.CheckoutSession{}, err
	}

	checkoutURL := resp.InitPoint
	if p.sandbox && resp.SandboxInitPoint != "" {
		checkoutURL = resp.SandboxInitPoint
	}
	p.logger.Info("checkout create success", zap.String("preference_id", resp.ID))

	return entities.CheckoutSession{
		SessionID:   resp.ID,
		CheckoutURL: checkoutURL,
		PlanID:      planID,
		Provider:    entities.ProviderMercadoPago,
		TenantID:    tenantID,
		Reference:   reference,
		CreatedAt:   now.UTC(),
	}, nil
}

// GetSubscription looks up a preapproval (recurring authorization).
func (p *MercadoPagoProvider) GetSubscription(ctx context.Context, providerSubscriptionID string) (*entities.Subscription, error) {
	var resp *preapproval.Response
	err := p.gw.call(ctx, "preapproval.get", func(ctx context.Context) error {
		var err error
		resp, err = p.preapprovals.Get(ctx, providerSubscriptionID)
		return err
	})
	if err != nil {
		return nil, err
	}
	sub := subscriptionFromPreapproval(resp)
	return &sub, nil
}

func (p *MercadoPagoProvider) CancelSubscription(ctx context.Context, providerSubscriptionID string) error {
	err := p.gw.call(ctx, "preapproval.cancel", func(ctx context.Context) error {
		_, err := p.preapprovals.Update(ctx, providerSubscriptionID, preapproval.UpdateRequest{Status: mpStatusCancelled})
		return err
	})
	if err == nil {
		p.logger.Info("preapproval cancelled", zap.String("preapproval_id", providerSubscriptionID))
	}
	return err
}

func (p *MercadoPagoProvider) ListPaymentMethods(context.Context, string) ([]entities.PaymentMethod, error) {
	return []entities.PaymentMethod{}, nil
}

// VerifyWebhookSignature checks an x-signature header of the form
// "ts=<unix>;v1=<hex>" (a comma separator is accepted too).
func (p *MercadoPagoProvider) VerifyWebhookSignature(rawPayload []byte, signature string) bool {
	if p.webhookSecret == "" {
		return false
	}
	ts, v1 := parseMercadoPagoSignature(signature)
	if ts == "" || v1 == "" {
		return false
	}
	return signaturesEqual(hmacSHA256Hex(p.webhookSecret, string(rawPayload), ts), v1)
}

func parseMercadoPagoSignature(header string) (ts, v1 string) {
	fields := strings.FieldsFunc(header, func(r rune) bool { return r == ';' || r == ',' })
	for _, f := range fields {
		k, v, ok := strings.Cut(strings.TrimSpace(f), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(k) {
		case "ts":
			ts = strings.TrimSpace(v)
		case "v1":
			v1 = strings.TrimSpace(v)
		}
	}
	return ts, v1
}

type mpNotification struct {
	ID     json.RawMessage `json:"id"`
	Type   string          `json:"type"`
	Topic  string          `json:"topic"`
	Action string          `json:"action"`
	Data   struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

func (p *MercadoPagoProvider) ParseWebhook(rawPayload []byte) (entities.WebhookEvent, error) {
	var n mpNotification
	if err := json.Unmarshal(rawPayload, &n); err != nil {
		return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err)
	}
	eventType := n.Type
	if eventType == "" {
		eventType = n.Topic
	}
	dataID := rawID(n.Data.ID)
	if eventType == "" || dataID == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: missing type or data.id", entities.ErrInvalidWebhookPayload)
	}

	eventID := rawID(n.ID)
	if eventID == "" {
		eventID = strings.Join([]string{eventType, n.Action, dataID}, ":")
	}
	data, _ := json.Marshal(map[string]string{"id": dataID, "action": n.Action})

	return entities.WebhookEvent{
		Provider:  entities.ProviderMercadoPago,
		EventID:   eventID,
		EventType: eventType,
		Data:      data,
	}, nil
}

func (p *MercadoPagoProvider) HandleWebhook(ctx context.Context, event entities.WebhookEvent) entities.WebhookResult {
	log := p.logger.With(zap.String("event_id", event.EventID), zap.String("event_type", event.EventType))

	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(event.Data, &data); err != nil || data.ID == "" {
		return entities.FailedResult(fmt.Errorf("%w: missing data id", entities.ErrInvalidWebhookPayload))
	}

	switch event.EventType {
	case mpEventPayment:
		id, err := strconv.Atoi(data.ID)
		if err != nil {
			return entities.FailedResult(fmt.Errorf("%w: payment id %q", entities.ErrInvalidWebhookPayload, data.ID))
		}
		var resp *payment.Response
		err = p.gw.call(ctx, "payment.get", func(ctx context.Context) error {
			var err error
			resp, err = p.payments.Get(ctx, id)
			return err
		})
		if err != nil {
			return entities.FailedResult(err)
		}
		ref, err := correlation.Parse(resp.ExternalReference)
		if err != nil {
			log.Warn("payment without correlation reference ignored", zap.Int("payment_id", resp.ID))
			return entities.ProcessedResult()
		}
		log.Info("payment notification", zap.Int("payment_id", resp.ID), zap.String("status", resp.Status), zap.String("tenant_id", ref.TenantID))
		return mercadoPagoPaymentResult(resp, ref, resp.ExternalReference)

	case mpEventPreapproval:
		var resp *preapproval.Response
		err := p.gw.call(ctx, "preapproval.get", func(ctx context.Context) error {
			var err error
			resp, err = p.preapprovals.Get(ctx, data.ID)
			return err
		})
		if err != nil {
			return entities.FailedResult(err)
		}
		sub := subscriptionFromPreapproval(resp)
		if sub.TenantID == "" {
			log.Warn("preapproval without correlation reference ignored", zap.String("preapproval_id", resp.ID))
			return entities.ProcessedResult()
		}
		res := entities.ProcessedResult()
		res.Subscription = &sub
		return res

	default:
		log.Info("unhandled mercadopago event type")
		return entities.ProcessedResult()
	}
}

// GetPortalURL is empty: Mercado Pago has no hosted billing portal.
func (p *MercadoPagoProvider) GetPortalURL(context.Context, string) (string, error) {
	return "", nil
}

func mercadoPagoPaymentResult(resp *payment.Response, ref correlation.Reference, orderRef string) entities.WebhookResult {
	now := time.Now()
	pay := &entities.Payment{
		TenantID:          ref.TenantID,
		Provider:          entities.ProviderMercadoPago,
		ProviderPaymentID: strconv.Itoa(resp.ID),
		PlanID:            ref.PlanID,
		Amount:            int64(math.Round(resp.TransactionAmount)),
		Currency:          strings.ToUpper(resp.CurrencyID),
		Status:            mapMercadoPagoPaymentStatus(resp.Status),
	}
	if raw, err := json.Marshal(resp); err == nil {
		pay.RawPayload = raw
	}

	sub := &entities.Subscription{
		TenantID:               ref.TenantID,
		Provider:               entities.ProviderMercadoPago,
		ProviderSubscriptionID: orderRef,
		PlanID:                 ref.PlanID,
		Status:                 mapMercadoPagoPaymentToSubscription(resp.Status),
	}
	if pay.Status == entities.PaymentStatusApproved {
		pay.PaidAt = ptrTime(now)
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd = entities.OneIntervalFrom(now)
	}

	res := entities.ProcessedResult()
	res.Payment = pay
	res.Subscription = sub
	return res
}

func subscriptionFromPreapproval(resp *preapproval.Response) entities.Subscription {
	sub := entities.Subscription{
		Provider:               entities.ProviderMercadoPago,
		ProviderSubscriptionID: resp.ID,
		Status:                 mapMercadoPagoPreapprovalStatus(resp.Status),
	}
	if ref, err := correlation.Parse(resp.ExternalReference); err == nil {
		sub.TenantID = ref.TenantID
		sub.PlanID = ref.PlanID
	}
	return sub
}

func mapMercadoPagoPreapprovalStatus(s string) entities.SubscriptionStatus {
	switch s {
	case "authorized":
		return entities.SubscriptionStatusActive
	case "paused":
		return entities.SubscriptionStatusPastDue
	case mpStatusCancelled:
		return entities.SubscriptionStatusCanceled
	default:
		return entities.SubscriptionStatusIncomplete
	}
}

func mapMercadoPagoPaymentToSubscription(s string) entities.SubscriptionStatus {
	switch s {
	case "approved":
		return entities.SubscriptionStatusActive
	case "rejected":
		return entities.SubscriptionStatusUnpaid
	case mpStatusCancelled, "refunded", "charged_back":
		return entities.SubscriptionStatusCanceled
	default:
		return entities.SubscriptionStatusIncomplete
	}
}

func mapMercadoPagoPaymentStatus(s string) entities.PaymentStatus {
	switch s {
	case "approved":
		return entities.PaymentStatusApproved
	case "rejected", mpStatusCancelled:
		return entities.PaymentStatusRejected
	case "refunded", "charged_back":
		return entities.PaymentStatusRefunded
	default:
		return entities.PaymentStatusPending
	}
}

// rawID accepts ids sent either as JSON numbers or strings.
func rawID(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}

func planTitle(planID entities.PlanID) string {
	if p, ok := entities.PlanByID(planID); ok {
		return "Plan " + p.Name
	}
	return string(planID)
}
