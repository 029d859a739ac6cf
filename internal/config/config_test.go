package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, 15*time.Second, cfg.GatewayTimeout)
	require.Equal(t, 2, cfg.GatewayMaxRetries)
	require.Equal(t, 30*time.Minute, cfg.CheckoutSessionTTL)
	require.Equal(t, "webhook_events", cfg.WebhookEventsTable)
	require.False(t, cfg.Transbank.Live())
	require.False(t, cfg.Flow.Live())
}

func TestLoadProviderBlocks(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_PRICE_ID_PRO", "price_pro")
	t.Setenv("TBK_COMMERCE_CODE", "597055555532")
	t.Setenv("FLOW_API_KEY", "flow-key")
	t.Setenv("FLOW_SECRET", "flow-secret")
	t.Setenv("FLOW_ENVIRONMENT", "live")
	t.Setenv("PUBLIC_BASE_URL", "https://billing.example.com/")
	t.Setenv("WEBHOOK_LEDGER_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	require.True(t, cfg.Stripe.Enabled())
	require.Equal(t, "price_pro", cfg.Stripe.PriceIDPro)
	// commerce code without api key leaves transbank disabled
	require.False(t, cfg.Transbank.Enabled())
	require.False(t, cfg.MercadoPago.Enabled())
	require.True(t, cfg.Flow.Enabled())
	require.True(t, cfg.Flow.Live())
	require.Equal(t, "https://billing.example.com", cfg.PublicBaseURL)
	require.True(t, cfg.WebhookLedgerEnabled)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("GATEWAY_TIMEOUT", "0s")
	_, err := Load()
	require.Error(t, err)
}

func TestTransbankOneclickEnabled(t *testing.T) {
	c := TransbankConfig{CommerceCode: "1", APIKey: "k", OneclickCommerceCode: "2"}
	require.True(t, c.Enabled())
	require.False(t, c.OneclickEnabled())
	c.OneclickAPIKey = "k2"
	require.True(t, c.OneclickEnabled())
}
