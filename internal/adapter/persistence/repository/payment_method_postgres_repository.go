package repository

import (
	"context"
	"errors"
	"fmt"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const paymentMethodColumns = `id, tenant_id, type, provider, provider_ref, username, last4, brand, is_default, created_at`

type PaymentMethodPostgresRepository struct {
	pool *pgxpool.Pool
}

var _ interfaces.IPaymentMethodRepository = (*PaymentMethodPostgresRepository)(nil)

func NewPaymentMethodPostgresRepository(pool *pgxpool.Pool) *PaymentMethodPostgresRepository {
	return &PaymentMethodPostgresRepository{pool: pool}
}

// Upsert is keyed by (provider, provider_ref). The tenant's first method
// becomes its default.
func (r *PaymentMethodPostgresRepository) Upsert(ctx context.Context, m entities.PaymentMethod) (entities.PaymentMethod, error) {
	var out entities.PaymentMethod
	err := withTenant(ctx, r.pool, m.TenantID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO payment_methods (id, tenant_id, type, provider, provider_ref, username, last4, brand,
				is_default, created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,
				$9 OR NOT EXISTS (SELECT 1 FROM payment_methods WHERE tenant_id = $2), NOW())
			ON CONFLICT (provider, provider_ref) DO UPDATE SET
				last4 = EXCLUDED.last4,
				brand = EXCLUDED.brand
			RETURNING `+paymentMethodColumns,
			uuid.NewString(), m.TenantID, string(m.Type), string(m.Provider), m.ProviderRef, m.Username,
			m.Last4, m.Brand, m.IsDefault)
		var err error
		out, err = scanPaymentMethod(row)
		return err
	})
	if err != nil {
		return entities.PaymentMethod{}, fmt.Errorf("upsert payment method: %w", err)
	}
	return out, nil
}

func (r *PaymentMethodPostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]entities.PaymentMethod, error) {
	out := []entities.PaymentMethod{}
	err := withTenant(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT `+paymentMethodColumns+`
			FROM payment_methods
			WHERE tenant_id = $1
			ORDER BY is_default DESC, created_at`, tenantID)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			m, err := scanPaymentMethod(rows)
			if err != nil {
				return err
			}
			out = append(out, m)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list payment methods: %w", err)
	}
	return out, nil
}

func (r *PaymentMethodPostgresRepository) GetByID(ctx context.Context, tenantID, id string) (entities.PaymentMethod, error) {
	if uuid.Validate(id) != nil {
		return entities.PaymentMethod{}, entities.ErrPaymentMethodNotFound
	}
	var out entities.PaymentMethod
	err := withTenant(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT `+paymentMethodColumns+`
			FROM payment_methods
			WHERE tenant_id = $1 AND id = $2`, tenantID, id)
		var err error
		out, err = scanPaymentMethod(row)
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.PaymentMethod{}, entities.ErrPaymentMethodNotFound
	}
	if err != nil {
		return entities.PaymentMethod{}, fmt.Errorf("get payment method: %w", err)
	}
	return out, nil
}

func (r *PaymentMethodPostgresRepository) Delete(ctx context.Context, tenantID, id string) error {
	if uuid.Validate(id) != nil {
		return entities.ErrPaymentMethodNotFound
	}
	err := withTenant(ctx, r.pool, tenantID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM payment_methods WHERE tenant_id = $1 AND id = $2`, tenantID, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return entities.ErrPaymentMethodNotFound
		}
		return nil
	})
	if errors.Is(err, entities.ErrPaymentMethodNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("delete payment method: %w", err)
	}
	return nil
}

func scanPaymentMethod(row pgx.Row) (entities.PaymentMethod, error) {
	var (
		m              entities.PaymentMethod
		kind, provider string
	)
	err := row.Scan(&m.ID, &m.TenantID, &kind, &provider, &m.ProviderRef, &m.Username, &m.Last4, &m.Brand,
		&m.IsDefault, &m.CreatedAt)
	if err != nil {
		return entities.PaymentMethod{}, err
	}
	m.Type = entities.PaymentMethodType(kind)
	m.Provider = entities.ProviderName(provider)
	return m, nil
}
