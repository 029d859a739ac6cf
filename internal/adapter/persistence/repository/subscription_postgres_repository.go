package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const subscriptionColumns = `id, tenant_id, provider, provider_subscription_id, plan_id, status,
	current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at`

// SubscriptionPostgresRepository stores subscriptions in the RLS-protected
// subscriptions table.
type SubscriptionPostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.ISubscriptionRepository = (*SubscriptionPostgresRepository)(nil)

func NewSubscriptionPostgresRepository(pool *pgxpool.Pool) *SubscriptionPostgresRepository {
	return &SubscriptionPostgresRepository{pool: pool}
}

func (r *SubscriptionPostgresRepository) Upsert(ctx context.Context, sub entities.Subscription) (entities.Subscription, error) {
	var out entities.Subscription
	err := withTenant(ctx, r.pool, sub.TenantID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO subscriptions (id, tenant_id, provider, provider_subscription_id, plan_id, status,
				current_period_start, current_period_end, cancel_at_period_end, created_at, updated_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,NOW(),NOW())
			ON CONFLICT (provider, provider_subscription_id) DO UPDATE SET
				plan_id = CASE WHEN EXCLUDED.plan_id = '' THEN subscriptions.plan_id ELSE EXCLUDED.plan_id END,
				status = EXCLUDED.status,
				current_period_start = COALESCE(EXCLUDED.current_period_start, subscriptions.current_period_start),
				current_period_end = COALESCE(EXCLUDED.current_period_end, subscriptions.current_period_end),
				cancel_at_period_end = EXCLUDED.cancel_at_period_end,
				updated_at = NOW()
			RETURNING `+subscriptionColumns,
			uuid.NewString(), sub.TenantID, string(sub.Provider), sub.ProviderSubscriptionID, string(sub.PlanID),
			string(sub.Status), sub.CurrentPeriodStart, sub.CurrentPeriodEnd, sub.CancelAtPeriodEnd)
		var err error
		out, err = scanSubscription(row)
		return err
	})
	if err != nil {
		return entities.Subscription{}, fmt.Errorf("upsert subscription: %w", err)
	}
	return out, nil
}

// GetCurrent returns the tenant's live subscription, or its most recently
// updated one when none is live.
func (r *SubscriptionPostgresRepository) GetCurrent(ctx context.Context, tenantID string) (entities.Subscription, error) {
	var out entities.Subscription
	err := withTenant(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT `+subscriptionColumns+`
			FROM subscriptions
			WHERE tenant_id = $1
			ORDER BY (status IN ('active', 'trialing', 'past_due')) DESC, updated_at DESC
			LIMIT 1`, tenantID)
		var err error
		out, err = scanSubscription(row)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.Subscription{}, entities.ErrSubscriptionNotFound
	}
	if err != nil {
		return entities.Subscription{}, fmt.Errorf("get subscription: %w", err)
	}
	return out, nil
}

func scanSubscription(row pgx.Row) (entities.Subscription, error) {
	var (
		s                        entities.Subscription
		provider, planID, status string
		periodStart, periodEnd   *time.Time
	)
	err := row.Scan(&s.ID, &s.TenantID, &provider, &s.ProviderSubscriptionID, &planID, &status,
		&periodStart, &periodEnd, &s.CancelAtPeriodEnd, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return entities.Subscription{}, err
	}
	s.Provider = entities.ProviderName(provider)
	s.PlanID = entities.PlanID(planID)
	s.Status = entities.SubscriptionStatus(status)
	s.CurrentPeriodStart = periodStart
	s.CurrentPeriodEnd = periodEnd
	return s, nil
}
