package main

import (
	_ "saas_billing/docs"
	"saas_billing/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           SaaS Billing API
// @version         1.0
// @description     Multi-tenant subscription billing over Stripe, Transbank, MercadoPago and Flow.

// @contact.name   API Support

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Tenant
// @in header
// @name X-Tenant-ID
// @description Tenant identifier for billing routes.

func main() {
	routes.Run()
}
