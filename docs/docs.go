// Package docs registers the OpenAPI document served at /swagger. It is
// maintained by hand in swag's output layout and must follow the handler
// annotations in internal/adapter/http/handlers and cmd/api/main.go.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/ping": {
            "get": {
                "produces": ["application/json"],
                "tags": ["ops"],
                "summary": "Liveness check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/billing/plans": {
            "get": {
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Plan catalog",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/response.PlanResponse"}}
                    }
                }
            }
        },
        "/billing/providers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Configured payment providers and the preferred one for a region",
                "parameters": [
                    {"type": "string", "description": "ISO country code", "name": "region", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.ProvidersResponse"}}
                }
            }
        },
        "/billing/checkout": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Start a hosted checkout",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"description": "Checkout", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.CheckoutRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.CheckoutSessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/pkg.HTTPError"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/pkg.HTTPError"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/pkg.HTTPError"}}
                }
            }
        },
        "/billing/subscription": {
            "get": {
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Current subscription of the tenant",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.SubscriptionResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/pkg.HTTPError"}}
                }
            }
        },
        "/billing/payment-methods/oneclick": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Enroll a card with Transbank Oneclick",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"description": "Inscription", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.OneclickInscriptionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.InscriptionResponse"}}
                }
            }
        },
        "/billing/payment-methods/{id}/charge": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["billing"],
                "summary": "Charge a stored Oneclick card for a plan",
                "parameters": [
                    {"type": "string", "description": "Tenant", "name": "X-Tenant-ID", "in": "header", "required": true},
                    {"type": "string", "description": "Payment method", "name": "id", "in": "path", "required": true},
                    {"description": "Charge", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/request.ChargeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.PaymentResponse"}}
                }
            }
        },
        "/webhooks/{provider}": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Gateway notification endpoint",
                "parameters": [
                    {"type": "string", "description": "stripe, transbank, mercadopago or flow", "name": "provider", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.WebhookResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.WebhookResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.WebhookResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.WebhookResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.WebhookResponse"}}
                }
            }
        }
    },
    "definitions": {
        "pkg.HTTPError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "request.CheckoutRequest": {
            "type": "object",
            "required": ["cancelUrl", "planId", "successUrl"],
            "properties": {
                "cancelUrl": {"type": "string"},
                "customerEmail": {"type": "string"},
                "metadata": {"type": "object", "additionalProperties": {"type": "string"}},
                "planId": {"type": "string"},
                "provider": {"type": "string"},
                "region": {"type": "string"},
                "successUrl": {"type": "string"}
            }
        },
        "request.ChargeRequest": {
            "type": "object",
            "required": ["planId"],
            "properties": {
                "planId": {"type": "string"}
            }
        },
        "request.OneclickInscriptionRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"}
            }
        },
        "response.CheckoutSessionResponse": {
            "type": "object",
            "properties": {
                "checkoutUrl": {"type": "string"},
                "createdAt": {"type": "string"},
                "planId": {"type": "string"},
                "provider": {"type": "string"},
                "sessionId": {"type": "string"}
            }
        },
        "response.InscriptionResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "response.PaymentResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer"},
                "createdAt": {"type": "string"},
                "currency": {"type": "string"},
                "id": {"type": "string"},
                "paidAt": {"type": "string"},
                "planId": {"type": "string"},
                "provider": {"type": "string"},
                "providerPaymentId": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "response.PlanResponse": {
            "type": "object",
            "properties": {
                "contactSales": {"type": "boolean"},
                "currency": {"type": "string"},
                "features": {"type": "array", "items": {"type": "string"}},
                "id": {"type": "string"},
                "interval": {"type": "string"},
                "maxRecords": {"type": "integer"},
                "maxUsers": {"type": "integer"},
                "name": {"type": "string"},
                "price": {"type": "integer"}
            }
        },
        "response.ProvidersResponse": {
            "type": "object",
            "properties": {
                "available": {"type": "array", "items": {"type": "string"}},
                "preferred": {"type": "string"},
                "region": {"type": "string"}
            }
        },
        "response.SubscriptionResponse": {
            "type": "object",
            "properties": {
                "cancelAtPeriodEnd": {"type": "boolean"},
                "currentPeriodEnd": {"type": "string"},
                "currentPeriodStart": {"type": "string"},
                "id": {"type": "string"},
                "planId": {"type": "string"},
                "provider": {"type": "string"},
                "providerSubscriptionId": {"type": "string"},
                "status": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "response.WebhookResponse": {
            "type": "object",
            "properties": {
                "duplicate": {"type": "boolean"},
                "error": {"type": "string"},
                "processed": {"type": "boolean"},
                "success": {"type": "boolean"}
            }
        }
    },
    "securityDefinitions": {
        "Tenant": {
            "type": "apiKey",
            "name": "X-Tenant-ID",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "SaaS Billing API",
	Description:      "Multi-tenant subscription billing over Stripe, Transbank, MercadoPago and Flow.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
