package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"saas_billing/internal/config"
	"saas_billing/internal/domain/correlation"
	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	FlowSandboxURL    = "https://sandbox.flow.cl/api"
	FlowProductionURL = "https://www.flow.cl/api"

	flowEventPaymentStatus = "payment.status"
	flowOptionalReference  = "reference"
)

// Flow payment status codes.
const (
	flowStatusPending  = 1
	flowStatusPaid     = 2
	flowStatusRejected = 3
	flowStatusCanceled = 4
)

// FlowProvider creates one-off Flow payments. Every API call is signed with
// the secret key; confirmation callbacks are resolved through payment/getStatus.
type FlowProvider struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
	secret  string
	opts    Options
	gw      gatewayCaller
	logger  *zap.Logger
}

var _ interfaces.IPaymentProvider = (*FlowProvider)(nil)

func NewFlowProvider(cfg config.FlowConfig, opts Options) (*FlowProvider, error) {
	if !cfg.Enabled() {
		return nil, entities.ConfigurationErrorf("missing FLOW_API_KEY or FLOW_SECRET")
	}
	baseURL := FlowSandboxURL
	if cfg.Live() {
		baseURL = FlowProductionURL
	}
	return newFlowProvider(baseURL, cfg, opts), nil
}

func newFlowProvider(baseURL string, cfg config.FlowConfig, opts Options) *FlowProvider {
	logger := opts.logger("flow")
	logger.Info("flow provider initialized", zap.Bool("live", cfg.Live()))
	return &FlowProvider{
		http:    newRetryableClient(opts.MaxRetries, logger),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  cfg.APIKey,
		secret:  cfg.Secret,
		opts:    opts,
		gw:      gatewayCaller{provider: entities.ProviderFlow, timeout: opts.Timeout, logger: logger},
		logger:  logger,
	}
}

func (p *FlowProvider) Name() entities.ProviderName { return entities.ProviderFlow }

type flowCreateResponse struct {
	URL       string `json:"url"`
	Token     string `json:"token"`
	FlowOrder int64  `json:"flowOrder"`
}

type flowStatusResponse struct {
	FlowOrder     int64           `json:"flowOrder"`
	CommerceOrder string          `json:"commerceOrder"`
	Status        int             `json:"status"`
	Amount        json.Number     `json:"amount"`
	Currency      string          `json:"currency"`
	Optional      json.RawMessage `json:"optional"`
}

// CreateCheckoutSession creates a Flow payment. commerceOrder is opaque; the
// correlation reference travels in the optional field and comes back from
// payment/getStatus.
func (p *FlowProvider) CreateCheckoutSession(ctx context.Context, planID entities.PlanID, tenantID string, opts entities.CheckoutOptions) (entities.CheckoutSession, error) {
	amount, err := chargeableAmount(entities.ProviderFlow, planID)
	if err != nil {
		return entities.CheckoutSession{}, err
	}
	if opts.CustomerEmail == "" {
		return entities.CheckoutSession{}, fmt.Errorf("%w: flow requires a payer email", entities.ErrInvalidCheckoutOptions)
	}

	now := time.Now()
	reference := correlation.Encode(tenantID, planID, now)
	optional, _ := json.Marshal(map[string]string{flowOptionalReference: reference})
	commerceOrder := newBuyOrder("F")

	params := url.Values{}
	params.Set("commerceOrder", commerceOrder)
	params.Set("subject", planTitle(planID))
	params.Set("currency", CurrencyCLP)
	params.Set("amount", strconv.FormatInt(amount, 10))
	params.Set("email", opts.CustomerEmail)
	params.Set("urlConfirmation", p.opts.webhookURL(string(entities.ProviderFlow)))
	params.Set("urlReturn", opts.SuccessURL)
	params.Set("optional", string(optional))

	var resp flowCreateResponse
	err = p.gw.call(ctx, "payment.create", func(ctx context.Context) error {
		return p.post(ctx, "/payment/create", params, &resp)
	})
	if err != nil {
		return entities.CheckoutSession{}, err
	}
	p.logger.Info("payment created", zap.Int64("flow_order", resp.FlowOrder), zap.String("tenant_id", tenantID), zap.String("plan_id", string(planID)))

	return entities.CheckoutSession{
		SessionID:   resp.Token,
		CheckoutURL: resp.URL + "?token=" + url.QueryEscape(resp.Token),
		PlanID:      planID,
		Provider:    entities.ProviderFlow,
		TenantID:    tenantID,
		Reference:   reference,
		CreatedAt:   now.UTC(),
	}, nil
}

// GetSubscription returns nil: payments are one-off.
func (p *FlowProvider) GetSubscription(context.Context, string) (*entities.Subscription, error) {
	return nil, nil
}

func (p *FlowProvider) CancelSubscription(context.Context, string) error {
	return entities.UnsupportedOperation(entities.ProviderFlow, "cancelSubscription")
}

func (p *FlowProvider) ListPaymentMethods(context.Context, string) ([]entities.PaymentMethod, error) {
	return []entities.PaymentMethod{}, nil
}

type flowNotification struct {
	Token     string          `json:"token"`
	Timestamp json.RawMessage `json:"timestamp"`
	Event     string          `json:"event"`
}

// VerifyWebhookSignature checks HMAC-SHA256(secret, body + body.timestamp) for
// JSON notifications. Flow's own form-encoded confirmation (token=...) carries
// no signature and is accepted: the token is only trusted through the signed
// getStatus call.
func (p *FlowProvider) VerifyWebhookSignature(rawPayload []byte, signature string) bool {
	body := strings.TrimSpace(string(rawPayload))
	if !strings.HasPrefix(body, "{") {
		values, err := url.ParseQuery(body)
		return err == nil && values.Get("token") != ""
	}

	var n flowNotification
	if err := json.Unmarshal(rawPayload, &n); err != nil {
		return false
	}
	ts := rawID(n.Timestamp)
	if ts == "" {
		return false
	}
	return signaturesEqual(hmacSHA256Hex(p.secret, body, ts), signature)
}

func (p *FlowProvider) ParseWebhook(rawPayload []byte) (entities.WebhookEvent, error) {
	body := strings.TrimSpace(string(rawPayload))
	var n flowNotification
	if strings.HasPrefix(body, "{") {
		if err := json.Unmarshal([]byte(body), &n); err != nil {
			return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err)
		}
	} else {
		values, err := url.ParseQuery(body)
		if err != nil {
			return entities.WebhookEvent{}, fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err)
		}
		n.Token = values.Get("token")
	}
	if n.Token == "" {
		return entities.WebhookEvent{}, fmt.Errorf("%w: missing token", entities.ErrInvalidWebhookPayload)
	}
	if n.Event == "" {
		n.Event = flowEventPaymentStatus
	}

	data, _ := json.Marshal(map[string]string{"token": n.Token})
	return entities.WebhookEvent{
		Provider:  entities.ProviderFlow,
		EventID:   n.Token,
		EventType: n.Event,
		Data:      data,
	}, nil
}

func (p *FlowProvider) HandleWebhook(ctx context.Context, event entities.WebhookEvent) entities.WebhookResult {
	log := p.logger.With(zap.String("event_type", event.EventType))

	if event.EventType != flowEventPaymentStatus {
		log.Info("unhandled flow event type")
		return entities.ProcessedResult()
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(event.Data, &data); err != nil || data.Token == "" {
		return entities.FailedResult(fmt.Errorf("%w: missing token", entities.ErrInvalidWebhookPayload))
	}

	params := url.Values{}
	params.Set("token", data.Token)
	var status flowStatusResponse
	err := p.gw.call(ctx, "payment.getStatus", func(ctx context.Context) error {
		return p.get(ctx, "/payment/getStatus", params, &status)
	})
	if err != nil {
		return entities.FailedResult(err)
	}

	ref, err := correlation.Parse(flowReference(status.Optional))
	if err != nil {
		log.Warn("payment without correlation reference ignored", zap.Int64("flow_order", status.FlowOrder))
		return entities.ProcessedResult()
	}
	log.Info("payment status", zap.Int64("flow_order", status.FlowOrder), zap.Int("status", status.Status), zap.String("tenant_id", ref.TenantID))

	amount, _ := status.Amount.Float64()
	now := time.Now()
	pay := &entities.Payment{
		TenantID:          ref.TenantID,
		Provider:          entities.ProviderFlow,
		ProviderPaymentID: strconv.FormatInt(status.FlowOrder, 10),
		PlanID:            ref.PlanID,
		Amount:            int64(amount),
		Currency:          CurrencyCLP,
		Status:            mapFlowPaymentStatus(status.Status),
	}
	if raw, err := json.Marshal(status); err == nil {
		pay.RawPayload = raw
	}
	sub := &entities.Subscription{
		TenantID:               ref.TenantID,
		Provider:               entities.ProviderFlow,
		ProviderSubscriptionID: status.CommerceOrder,
		PlanID:                 ref.PlanID,
		Status:                 mapFlowSubscriptionStatus(status.Status),
	}
	if status.Status == flowStatusPaid {
		pay.PaidAt = ptrTime(now)
		sub.CurrentPeriodStart, sub.CurrentPeriodEnd = entities.OneIntervalFrom(now)
	}

	res := entities.ProcessedResult()
	res.Payment = pay
	res.Subscription = sub
	return res
}

func (p *FlowProvider) GetPortalURL(context.Context, string) (string, error) {
	return "", nil
}

// flowReference extracts the correlation reference from the optional field,
// which Flow returns either as an object or as the JSON string it was given.
func flowReference(optional json.RawMessage) string {
	var fields map[string]any
	if err := json.Unmarshal(optional, &fields); err != nil {
		var s string
		if json.Unmarshal(optional, &s) != nil || json.Unmarshal([]byte(s), &fields) != nil {
			return ""
		}
	}
	ref, _ := fields[flowOptionalReference].(string)
	return ref
}

func mapFlowSubscriptionStatus(status int) entities.SubscriptionStatus {
	switch status {
	case flowStatusPaid:
		return entities.SubscriptionStatusActive
	case flowStatusRejected:
		return entities.SubscriptionStatusUnpaid
	case flowStatusCanceled:
		return entities.SubscriptionStatusCanceled
	default:
		return entities.SubscriptionStatusIncomplete
	}
}

func mapFlowPaymentStatus(status int) entities.PaymentStatus {
	switch status {
	case flowStatusPaid:
		return entities.PaymentStatusApproved
	case flowStatusRejected, flowStatusCanceled:
		return entities.PaymentStatusRejected
	default:
		return entities.PaymentStatusPending
	}
}

// sign adds apiKey and the s signature: HMAC-SHA256 over the parameters sorted
// by name, each written as name followed by value.
func (p *FlowProvider) sign(params url.Values) url.Values {
	signed := url.Values{}
	for k, v := range params {
		signed[k] = v
	}
	signed.Set("apiKey", p.apiKey)

	keys := make([]string, 0, len(signed))
	for k := range signed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(signed.Get(k))
	}
	signed.Set("s", hmacSHA256Hex(p.secret, b.String()))
	return signed
}

func (p *FlowProvider) post(ctx context.Context, path string, params url.Values, out any) error {
	body := p.sign(params).Encode()
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, []byte(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return do(p.http, req, out)
}

func (p *FlowProvider) get(ctx context.Context, path string, params url.Values, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path+"?"+p.sign(params).Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return do(p.http, req, out)
}
