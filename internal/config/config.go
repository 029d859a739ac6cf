package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvironmentTest = "TEST"
	EnvironmentLive = "LIVE"
)

// Config holds all configuration for the service.
type Config struct {
	Port          string `mapstructure:"PORT"`
	GinMode       string `mapstructure:"GIN_MODE"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`
	DefaultRegion string `mapstructure:"DEFAULT_REGION"`

	GatewayTimeout    time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
	GatewayMaxRetries int           `mapstructure:"GATEWAY_MAX_RETRIES"`

	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	RedisPassword      string        `mapstructure:"REDIS_PASSWORD"`
	CheckoutSessionTTL time.Duration `mapstructure:"CHECKOUT_SESSION_TTL"`

	AWSRegion            string `mapstructure:"AWS_REGION"`
	DynamoDBEndpoint     string `mapstructure:"DYNAMODB_ENDPOINT"`
	WebhookEventsTable   string `mapstructure:"WEBHOOK_EVENTS_TABLE"`
	WebhookLedgerEnabled bool   `mapstructure:"WEBHOOK_LEDGER_ENABLED"`

	Stripe      StripeConfig      `mapstructure:",squash"`
	Transbank   TransbankConfig   `mapstructure:",squash"`
	MercadoPago MercadoPagoConfig `mapstructure:",squash"`
	Flow        FlowConfig        `mapstructure:",squash"`
}

type StripeConfig struct {
	SecretKey       string `mapstructure:"STRIPE_SECRET_KEY"`
	WebhookSecret   string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	PriceIDPro      string `mapstructure:"STRIPE_PRICE_ID_PRO"`
	PriceIDBusiness string `mapstructure:"STRIPE_PRICE_ID_BUSINESS"`
	PortalReturnURL string `mapstructure:"STRIPE_PORTAL_RETURN_URL"`
}

func (c StripeConfig) Enabled() bool { return c.SecretKey != "" }

type TransbankConfig struct {
	CommerceCode         string `mapstructure:"TBK_COMMERCE_CODE"`
	APIKey               string `mapstructure:"TBK_API_KEY"`
	IntegrationType      string `mapstructure:"TBK_INTEGRATION_TYPE"`
	OneclickCommerceCode string `mapstructure:"TBK_ONECLICK_COMMERCE_CODE"`
	OneclickAPIKey       string `mapstructure:"TBK_ONECLICK_API_KEY"`
	// OneclickChildCommerceCode is the store that receives Oneclick Mall
	// charges. Defaults to OneclickCommerceCode.
	OneclickChildCommerceCode string `mapstructure:"TBK_ONECLICK_CHILD_COMMERCE_CODE"`
}

func (c TransbankConfig) Enabled() bool { return c.CommerceCode != "" && c.APIKey != "" }

// OneclickEnabled reports whether Oneclick Mall credentials are present.
func (c TransbankConfig) OneclickEnabled() bool {
	return c.OneclickCommerceCode != "" && c.OneclickAPIKey != ""
}

func (c TransbankConfig) ChildCommerceCode() string {
	if c.OneclickChildCommerceCode != "" {
		return c.OneclickChildCommerceCode
	}
	return c.OneclickCommerceCode
}

func (c TransbankConfig) Live() bool { return strings.EqualFold(c.IntegrationType, EnvironmentLive) }

type MercadoPagoConfig struct {
	AccessToken   string `mapstructure:"MERCADOPAGO_ACCESS_TOKEN"`
	WebhookSecret string `mapstructure:"MERCADOPAGO_WEBHOOK_SECRET"`
	PublicKey     string `mapstructure:"MERCADOPAGO_PUBLIC_KEY"`
}

func (c MercadoPagoConfig) Enabled() bool { return c.AccessToken != "" }

type FlowConfig struct {
	APIKey      string `mapstructure:"FLOW_API_KEY"`
	Secret      string `mapstructure:"FLOW_SECRET"`
	Environment string `mapstructure:"FLOW_ENVIRONMENT"`
}

func (c FlowConfig) Enabled() bool { return c.APIKey != "" && c.Secret != "" }

func (c FlowConfig) Live() bool { return strings.EqualFold(c.Environment, EnvironmentLive) }

var keys = []string{
	"PORT", "GIN_MODE", "LOG_LEVEL", "PUBLIC_BASE_URL", "DEFAULT_REGION",
	"GATEWAY_TIMEOUT", "GATEWAY_MAX_RETRIES",
	"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD", "CHECKOUT_SESSION_TTL",
	"AWS_REGION", "DYNAMODB_ENDPOINT", "WEBHOOK_EVENTS_TABLE", "WEBHOOK_LEDGER_ENABLED",
	"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_PRICE_ID_PRO", "STRIPE_PRICE_ID_BUSINESS", "STRIPE_PORTAL_RETURN_URL",
	"TBK_COMMERCE_CODE", "TBK_API_KEY", "TBK_INTEGRATION_TYPE", "TBK_ONECLICK_COMMERCE_CODE", "TBK_ONECLICK_API_KEY", "TBK_ONECLICK_CHILD_COMMERCE_CODE",
	"MERCADOPAGO_ACCESS_TOKEN", "MERCADOPAGO_WEBHOOK_SECRET", "MERCADOPAGO_PUBLIC_KEY",
	"FLOW_API_KEY", "FLOW_SECRET", "FLOW_ENVIRONMENT",
}

// Load reads configuration from the environment using Viper.
//
// Missing provider credentials are not an error: the provider is simply not
// registered. Only malformed values fail.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("DEFAULT_REGION", "CL")
	v.SetDefault("GATEWAY_TIMEOUT", "15s")
	v.SetDefault("GATEWAY_MAX_RETRIES", 2)
	v.SetDefault("CHECKOUT_SESSION_TTL", "30m")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("WEBHOOK_EVENTS_TABLE", "webhook_events")
	v.SetDefault("WEBHOOK_LEDGER_ENABLED", false)
	v.SetDefault("TBK_INTEGRATION_TYPE", EnvironmentTest)
	v.SetDefault("FLOW_ENVIRONMENT", EnvironmentTest)

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.GatewayTimeout <= 0 {
		return Config{}, errors.New("GATEWAY_TIMEOUT must be positive")
	}
	if cfg.GatewayMaxRetries < 0 {
		return Config{}, errors.New("GATEWAY_MAX_RETRIES must not be negative")
	}
	if cfg.CheckoutSessionTTL <= 0 {
		return Config{}, errors.New("CHECKOUT_SESSION_TTL must be positive")
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	return cfg, nil
}
