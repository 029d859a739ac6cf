package request

import (
	"strings"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase"
)

// CheckoutRequest starts a hosted checkout. Provider and Region are optional;
// without a provider the preferred one for the region is used.
type CheckoutRequest struct {
	PlanID        string            `json:"planId" binding:"required"`
	Provider      string            `json:"provider"`
	Region        string            `json:"region"`
	SuccessURL    string            `json:"successUrl" binding:"required,url"`
	CancelURL     string            `json:"cancelUrl" binding:"required,url"`
	CustomerEmail string            `json:"customerEmail" binding:"omitempty,email"`
	Metadata      map[string]string `json:"metadata"`
}

func (r CheckoutRequest) ToInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		PlanID:   strings.TrimSpace(r.PlanID),
		Provider: strings.TrimSpace(r.Provider),
		Region:   strings.TrimSpace(r.Region),
		Options: entities.CheckoutOptions{
			SuccessURL:    r.SuccessURL,
			CancelURL:     r.CancelURL,
			CustomerEmail: strings.TrimSpace(r.CustomerEmail),
			Metadata:      r.Metadata,
		},
	}
}

type OneclickInscriptionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ChargeRequest struct {
	PlanID string `json:"planId" binding:"required"`
}
