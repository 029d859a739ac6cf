package handlers

import (
	"errors"
	"net/http"
	"strings"

	response "saas_billing/internal/adapter/http/dto/response"
	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

// signatureHeaders maps each provider to the header carrying its signature.
// Transbank posts are unsigned.
var signatureHeaders = map[entities.ProviderName]string{
	entities.ProviderStripe:      "Stripe-Signature",
	entities.ProviderMercadoPago: "x-signature",
	entities.ProviderFlow:        "X-Flow-Signature",
}

type WebhookHandler struct {
	usecase usecase.IWebhookUseCase
	logger  *zap.Logger
}

func NewWebhookHandler(uc usecase.IWebhookUseCase, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{usecase: uc, logger: logger.Named("http.webhook")}
}

// HandleWebhook godoc
// @Summary  Gateway notification endpoint
// @Tags     webhooks
// @Accept   json
// @Produce  json
// @Param    provider path string true "stripe, transbank, mercadopago or flow"
// @Success  200 {object} response.WebhookResponse
// @Failure  400 {object} response.WebhookResponse
// @Failure  401 {object} response.WebhookResponse
// @Failure  404 {object} response.WebhookResponse
// @Failure  500 {object} response.WebhookResponse
// @Router   /webhooks/{provider} [post]
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	provider := c.Param("provider")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.WebhookResponse{Error: "unreadable body"})
		return
	}
	raw = withQueryFields(c.Request, raw)

	var signature string
	if name, ok := entities.ParseProviderName(provider); ok {
		signature = c.GetHeader(signatureHeaders[name])
	}

	result, err := h.usecase.HandleWebhook(c.Request.Context(), provider, raw, signature)
	status := webhookStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("webhook failed", zap.String("provider", provider), zap.Error(err))
	}
	c.JSON(status, response.FromWebhookResult(result))
}

// withQueryFields appends the URL query to form-encoded or empty bodies.
// Gateways that redirect the browser back put part of their fields there, and
// return URLs carry our own parameters.
func withQueryFields(r *http.Request, raw []byte) []byte {
	query := r.URL.RawQuery
	if query == "" {
		return raw
	}
	body := strings.TrimSpace(string(raw))
	if body == "" {
		return []byte(query)
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		return raw
	}
	return []byte(body + "&" + query)
}

func webhookStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, usecase.ErrWebhookSignatureInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, entities.ErrInvalidWebhookPayload):
		return http.StatusBadRequest
	case errors.Is(err, entities.ErrUnknownProvider), errors.Is(err, entities.ErrNotConfigured):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
