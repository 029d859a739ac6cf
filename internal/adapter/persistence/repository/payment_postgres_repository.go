package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentColumns = `id, tenant_id, provider, provider_payment_id, plan_id, amount, currency, status,
	paid_at, raw_payload, created_at`

type PaymentPostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.IPaymentRepository = (*PaymentPostgresRepository)(nil)

func NewPaymentPostgresRepository(pool *pgxpool.Pool) *PaymentPostgresRepository {
	return &PaymentPostgresRepository{pool: pool}
}

// Upsert is keyed by (provider, provider_payment_id). A re-delivered approval
// never clears paid_at.
func (r *PaymentPostgresRepository) Upsert(ctx context.Context, p entities.Payment) (entities.Payment, error) {
	var raw []byte
	if len(p.RawPayload) > 0 {
		raw = p.RawPayload
	}
	var out entities.Payment
	err := withTenant(ctx, r.pool, p.TenantID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO payments (id, tenant_id, provider, provider_payment_id, plan_id, amount, currency,
				status, paid_at, raw_payload, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,NOW())
			ON CONFLICT (provider, provider_payment_id) DO UPDATE SET
				status = EXCLUDED.status,
				amount = EXCLUDED.amount,
				paid_at = COALESCE(EXCLUDED.paid_at, payments.paid_at),
				raw_payload = COALESCE(EXCLUDED.raw_payload, payments.raw_payload)
			RETURNING `+paymentColumns,
			uuid.NewString(), p.TenantID, string(p.Provider), p.ProviderPaymentID, string(p.PlanID), p.Amount,
			p.Currency, string(p.Status), p.PaidAt, raw)
		var err error
		out, err = scanPayment(row)
		return err
	})
	if err != nil {
		return entities.Payment{}, fmt.Errorf("upsert payment: %w", err)
	}
	return out, nil
}

func (r *PaymentPostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]entities.Payment, error) {
	out := []entities.Payment{}
	err := withTenant(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT `+paymentColumns+`
			FROM payments
			WHERE tenant_id = $1
			ORDER BY created_at DESC`, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			p, err := scanPayment(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return out, nil
}

func scanPayment(row pgx.Row) (entities.Payment, error) {
	var (
		p                        entities.Payment
		provider, planID, status string
		raw                      []byte
	)
	err := row.Scan(&p.ID, &p.TenantID, &provider, &p.ProviderPaymentID, &planID, &p.Amount, &p.Currency,
		&status, &p.PaidAt, &raw, &p.CreatedAt)
	if err != nil {
		return entities.Payment{}, err
	}
	p.Provider = entities.ProviderName(provider)
	p.PlanID = entities.PlanID(planID)
	p.Status = entities.PaymentStatus(status)
	if len(raw) > 0 {
		p.RawPayload = json.RawMessage(raw)
	}
	return p, nil
}
