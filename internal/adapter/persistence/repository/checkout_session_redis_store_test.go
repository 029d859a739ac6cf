package repository

import (
	"context"
	"testing"
	"time"

	"saas_billing/internal/domain/entities"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCheckoutStore(t *testing.T) (*CheckoutSessionRedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCheckoutSessionRedisStore(client, 30*time.Minute), mr
}

func TestCheckoutSessionRedisStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestCheckoutStore(t)

	session := entities.CheckoutSession{
		SessionID:   "cs_test_1",
		CheckoutURL: "https://checkout.stripe.com/c/pay/cs_test_1",
		PlanID:      entities.PlanPro,
		Provider:    entities.ProviderStripe,
		TenantID:    "tenant-1",
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, session))
	require.Equal(t, 30*time.Minute, mr.TTL(checkoutSessionKeyPrefix+"cs_test_1"))

	got, err := store.Get(ctx, "cs_test_1")
	require.NoError(t, err)
	require.Equal(t, session, got)
}

func TestCheckoutSessionRedisStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestCheckoutStore(t)

	require.NoError(t, store.Save(ctx, entities.CheckoutSession{SessionID: "tok", TenantID: "tenant-1"}))
	mr.FastForward(31 * time.Minute)

	_, err := store.Get(ctx, "tok")
	require.ErrorIs(t, err, entities.ErrCheckoutSessionNotFound)
}
