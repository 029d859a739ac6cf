package routes

import (
	"saas_billing/internal/adapter/http/handlers"
	"saas_billing/internal/adapter/http/middleware"

	"github.com/gin-gonic/gin"
)

const (
	PathBilling        = "/billing"
	PathPaymentMethods = "/payment-methods"
	PathWebhooks       = "/webhooks"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", handlers.Ping)
}

func addBillingRoutes(rg *gin.RouterGroup, billingHandler *handlers.BillingHandler) {
	billing := rg.Group(PathBilling)
	{
		billing.GET("/plans", billingHandler.ListPlans)
		billing.GET("/providers", billingHandler.ListProviders)
	}

	tenantScoped := billing.Group("", middleware.Tenant())
	{
		tenantScoped.POST("/checkout", billingHandler.CreateCheckout)
		tenantScoped.GET("/checkout/:session_id", billingHandler.GetCheckoutSession)
		tenantScoped.GET("/subscription", billingHandler.GetSubscription)
		tenantScoped.DELETE("/subscription", billingHandler.CancelSubscription)
		tenantScoped.GET("/payments", billingHandler.ListPayments)
		tenantScoped.GET("/portal", billingHandler.GetPortalURL)
	}

	methods := tenantScoped.Group(PathPaymentMethods)
	{
		methods.GET("", billingHandler.ListPaymentMethods)
		methods.POST("/oneclick", billingHandler.StartOneclickInscription)
		methods.DELETE("/:id", billingHandler.RemovePaymentMethod)
		methods.POST("/:id/charge", billingHandler.ChargePaymentMethod)
	}
}

func addWebhookRoutes(rg *gin.RouterGroup, webhookHandler *handlers.WebhookHandler) {
	webhooks := rg.Group(PathWebhooks)
	{
		webhooks.POST("/:provider", webhookHandler.HandleWebhook)
		// Transbank sends the browser back with a GET when the buyer aborts.
		webhooks.GET("/:provider", webhookHandler.HandleWebhook)
	}
}
