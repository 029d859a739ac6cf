package handlers

import (
	"errors"
	"net/http"

	request "saas_billing/internal/adapter/http/dto/request"
	response "saas_billing/internal/adapter/http/dto/response"
	"saas_billing/internal/adapter/http/middleware"
	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase"
	"saas_billing/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errInvalidBillingPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

// BillingHandler serves the tenant-scoped billing routes.
type BillingHandler struct {
	usecase usecase.IBillingUseCase
	logger  *zap.Logger
}

func NewBillingHandler(uc usecase.IBillingUseCase, logger *zap.Logger) *BillingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingHandler{usecase: uc, logger: logger.Named("http.billing")}
}

// ListPlans godoc
// @Summary  Plan catalog
// @Tags     billing
// @Produce  json
// @Success  200 {array} response.PlanResponse
// @Router   /billing/plans [get]
func (h *BillingHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromPlans(h.usecase.ListPlans()))
}

// ListProviders godoc
// @Summary  Configured payment providers and the preferred one for a region
// @Tags     billing
// @Produce  json
// @Param    region query string false "ISO country code"
// @Success  200 {object} response.ProvidersResponse
// @Router   /billing/providers [get]
func (h *BillingHandler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, response.FromProvidersInfo(h.usecase.ListProviders(c.Query("region"))))
}

// CreateCheckout godoc
// @Summary  Start a hosted checkout
// @Tags     billing
// @Accept   json
// @Produce  json
// @Param    X-Tenant-ID header string true "Tenant"
// @Param    body body request.CheckoutRequest true "Checkout"
// @Success  201 {object} response.CheckoutSessionResponse
// @Failure  400 {object} pkg.HTTPError
// @Failure  402 {object} pkg.HTTPError
// @Failure  502 {object} pkg.HTTPError
// @Router   /billing/checkout [post]
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var payload request.CheckoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBillingPayload.HTTPStatus, errInvalidBillingPayload.ToHTTPError())
		return
	}

	sess, err := h.usecase.CreateCheckout(c.Request.Context(), middleware.TenantID(c), payload.ToInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromCheckoutSession(sess))
}

func (h *BillingHandler) GetCheckoutSession(c *gin.Context) {
	sess, err := h.usecase.GetCheckoutSession(c.Request.Context(), middleware.TenantID(c), c.Param("session_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromCheckoutSession(sess))
}

// GetSubscription godoc
// @Summary  Current subscription of the tenant
// @Tags     billing
// @Produce  json
// @Param    X-Tenant-ID header string true "Tenant"
// @Success  200 {object} response.SubscriptionResponse
// @Failure  404 {object} pkg.HTTPError
// @Router   /billing/subscription [get]
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.usecase.GetSubscription(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSubscription(sub))
}

func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	sub, err := h.usecase.CancelSubscription(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSubscription(sub))
}

func (h *BillingHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.usecase.ListPaymentMethods(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPaymentMethods(methods))
}

// StartOneclickInscription godoc
// @Summary  Enroll a card with Transbank Oneclick
// @Tags     billing
// @Accept   json
// @Produce  json
// @Param    X-Tenant-ID header string true "Tenant"
// @Param    body body request.OneclickInscriptionRequest true "Inscription"
// @Success  201 {object} response.InscriptionResponse
// @Router   /billing/payment-methods/oneclick [post]
func (h *BillingHandler) StartOneclickInscription(c *gin.Context) {
	var payload request.OneclickInscriptionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBillingPayload.HTTPStatus, errInvalidBillingPayload.ToHTTPError())
		return
	}

	ins, err := h.usecase.StartOneclickInscription(c.Request.Context(), middleware.TenantID(c), payload.Email)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.InscriptionResponse{Token: ins.Token, URL: ins.URL})
}

func (h *BillingHandler) RemovePaymentMethod(c *gin.Context) {
	if err := h.usecase.RemovePaymentMethod(c.Request.Context(), middleware.TenantID(c), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChargePaymentMethod godoc
// @Summary  Charge a stored Oneclick card for a plan
// @Tags     billing
// @Accept   json
// @Produce  json
// @Param    X-Tenant-ID header string true "Tenant"
// @Param    id path string true "Payment method"
// @Param    body body request.ChargeRequest true "Charge"
// @Success  201 {object} response.PaymentResponse
// @Router   /billing/payment-methods/{id}/charge [post]
func (h *BillingHandler) ChargePaymentMethod(c *gin.Context) {
	var payload request.ChargeRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidBillingPayload.HTTPStatus, errInvalidBillingPayload.ToHTTPError())
		return
	}

	pay, err := h.usecase.ChargePaymentMethod(c.Request.Context(), middleware.TenantID(c), c.Param("id"), payload.PlanID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.FromPayment(pay))
}

func (h *BillingHandler) ListPayments(c *gin.Context) {
	payments, err := h.usecase.ListPayments(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromPayments(payments))
}

func (h *BillingHandler) GetPortalURL(c *gin.Context) {
	url, err := h.usecase.GetPortalURL(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.PortalResponse{URL: url})
}

func (h *BillingHandler) writeError(c *gin.Context, err error) {
	appErr := mapBillingError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		fields := []zap.Field{zap.String("path", c.FullPath()), zap.Error(err)}
		var gwErr *entities.GatewayError
		if errors.As(err, &gwErr) {
			fields = append(fields, zap.NamedError("cause", gwErr.Cause()))
		}
		h.logger.Error("billing request failed", fields...)
	}
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapBillingError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, entities.ErrUnknownPlan):
		return pkg.NewDomainErrorSimple("UNKNOWN_PLAN", "Unknown plan", http.StatusBadRequest)
	case errors.Is(err, entities.ErrPlanNotChargeable):
		return pkg.NewDomainErrorSimple("PLAN_NOT_CHARGEABLE", "Plan cannot be purchased", http.StatusBadRequest)
	case errors.Is(err, entities.ErrUnknownProvider):
		return pkg.NewDomainErrorSimple("UNKNOWN_PROVIDER", "Unknown payment provider", http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidTenantID), errors.Is(err, entities.ErrInvalidCheckoutOptions):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, entities.ErrContactSales):
		return pkg.NewDomainErrorSimple("CONTACT_SALES", "This plan is sold through our sales team", http.StatusPaymentRequired)
	case errors.Is(err, entities.ErrNotConfigured):
		return pkg.NewDomainErrorSimple("PROVIDER_NOT_CONFIGURED", "Payment provider not configured", http.StatusNotFound)
	case errors.Is(err, entities.ErrSubscriptionNotFound):
		return pkg.NewDomainErrorSimple("SUBSCRIPTION_NOT_FOUND", "Subscription not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrCheckoutSessionNotFound):
		return pkg.NewDomainErrorSimple("CHECKOUT_SESSION_NOT_FOUND", "Checkout session not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrPaymentMethodNotFound):
		return pkg.NewDomainErrorSimple("PAYMENT_METHOD_NOT_FOUND", "Payment method not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrUnsupportedOperation):
		return pkg.NewDomainErrorSimple("UNSUPPORTED_OPERATION", "Operation not supported by this payment provider", http.StatusUnprocessableEntity)
	case errors.Is(err, entities.ErrUpstreamGateway):
		return pkg.NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider request failed", err, http.StatusBadGateway)
	case errors.Is(err, entities.ErrConfiguration):
		return pkg.NewDomainError("PROVIDER_MISCONFIGURED", "Payment provider is misconfigured", err, http.StatusInternalServerError)
	case errors.Is(err, entities.ErrNoProviderConfigured):
		return pkg.NewDomainErrorSimple("NO_PROVIDER_CONFIGURED", "No payment provider is available", http.StatusServiceUnavailable)
	case errors.Is(err, usecase.ErrPersistenceNotConfigured):
		return pkg.NewDomainErrorSimple("STORAGE_NOT_CONFIGURED", "Billing storage is not configured", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
