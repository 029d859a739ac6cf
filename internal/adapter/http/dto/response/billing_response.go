package response

import (
	"time"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase"
)

type PlanResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int64    `json:"price"`
	Currency     string   `json:"currency"`
	Interval     string   `json:"interval"`
	Features     []string `json:"features"`
	MaxUsers     int      `json:"maxUsers"`
	MaxRecords   int      `json:"maxRecords"`
	ContactSales bool     `json:"contactSales"`
}

func FromPlans(plans []entities.SubscriptionPlan) []PlanResponse {
	out := make([]PlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanResponse{
			ID:           string(p.ID),
			Name:         p.Name,
			Price:        p.Price,
			Currency:     p.Currency,
			Interval:     string(p.Interval),
			Features:     p.Features,
			MaxUsers:     p.MaxUsers,
			MaxRecords:   p.MaxRecords,
			ContactSales: p.IsContactSales(),
		})
	}
	return out
}

type ProvidersResponse struct {
	Region    string   `json:"region"`
	Available []string `json:"available"`
	Preferred string   `json:"preferred,omitempty"`
}

func FromProvidersInfo(info usecase.ProvidersInfo) ProvidersResponse {
	available := make([]string, 0, len(info.Available))
	for _, p := range info.Available {
		available = append(available, string(p))
	}
	return ProvidersResponse{Region: string(info.Region), Available: available, Preferred: string(info.Preferred)}
}

type CheckoutSessionResponse struct {
	SessionID   string    `json:"sessionId"`
	CheckoutURL string    `json:"checkoutUrl"`
	PlanID      string    `json:"planId"`
	Provider    string    `json:"provider"`
	CreatedAt   time.Time `json:"createdAt"`
}

func FromCheckoutSession(s entities.CheckoutSession) CheckoutSessionResponse {
	return CheckoutSessionResponse{
		SessionID:   s.SessionID,
		CheckoutURL: s.CheckoutURL,
		PlanID:      string(s.PlanID),
		Provider:    string(s.Provider),
		CreatedAt:   s.CreatedAt,
	}
}

type SubscriptionResponse struct {
	ID                     string     `json:"id"`
	Provider               string     `json:"provider"`
	ProviderSubscriptionID string     `json:"providerSubscriptionId"`
	PlanID                 string     `json:"planId"`
	Status                 string     `json:"status"`
	CurrentPeriodStart     *time.Time `json:"currentPeriodStart,omitempty"`
	CurrentPeriodEnd       *time.Time `json:"currentPeriodEnd,omitempty"`
	CancelAtPeriodEnd      bool       `json:"cancelAtPeriodEnd"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

func FromSubscription(s entities.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                     s.ID,
		Provider:               string(s.Provider),
		ProviderSubscriptionID: s.ProviderSubscriptionID,
		PlanID:                 string(s.PlanID),
		Status:                 string(s.Status),
		CurrentPeriodStart:     s.CurrentPeriodStart,
		CurrentPeriodEnd:       s.CurrentPeriodEnd,
		CancelAtPeriodEnd:      s.CancelAtPeriodEnd,
		UpdatedAt:              s.UpdatedAt,
	}
}

// PaymentMethodResponse never carries the gateway token.
type PaymentMethodResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Provider  string `json:"provider"`
	Last4     string `json:"last4"`
	Brand     string `json:"brand"`
	IsDefault bool   `json:"isDefault"`
}

func FromPaymentMethods(methods []entities.PaymentMethod) []PaymentMethodResponse {
	out := make([]PaymentMethodResponse, 0, len(methods))
	for _, m := range methods {
		out = append(out, PaymentMethodResponse{
			ID:        m.ID,
			Type:      string(m.Type),
			Provider:  string(m.Provider),
			Last4:     m.Last4,
			Brand:     m.Brand,
			IsDefault: m.IsDefault,
		})
	}
	return out
}

type PaymentResponse struct {
	ID                string     `json:"id"`
	Provider          string     `json:"provider"`
	ProviderPaymentID string     `json:"providerPaymentId"`
	PlanID            string     `json:"planId"`
	Amount            int64      `json:"amount"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	PaidAt            *time.Time `json:"paidAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

func FromPayment(p entities.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                p.ID,
		Provider:          string(p.Provider),
		ProviderPaymentID: p.ProviderPaymentID,
		PlanID:            string(p.PlanID),
		Amount:            p.Amount,
		Currency:          p.Currency,
		Status:            string(p.Status),
		PaidAt:            p.PaidAt,
		CreatedAt:         p.CreatedAt,
	}
}

func FromPayments(payments []entities.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}

type InscriptionResponse struct {
	Token string `json:"token"`
	URL   string `json:"url"`
}

type PortalResponse struct {
	URL string `json:"url"`
}

type WebhookResponse struct {
	Success   bool   `json:"success"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Error     string `json:"error,omitempty"`
}

func FromWebhookResult(r entities.WebhookResult) WebhookResponse {
	return WebhookResponse{Success: r.Success, Processed: r.Processed, Duplicate: r.Duplicate, Error: r.Error}
}
