package payments

import (
	"context"
	"errors"
	"time"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/metrics"

	"go.uber.org/zap"
)

// gatewayCaller runs upstream calls under the per-call timeout, records their
// latency and hides upstream error details behind entities.GatewayError.
type gatewayCaller struct {
	provider entities.ProviderName
	timeout  time.Duration
	logger   *zap.Logger
}

func (g gatewayCaller) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	metrics.ObserveGateway(string(g.provider), op, start, err)
	if err == nil {
		return nil
	}
	if passthrough(err) {
		return err
	}

	g.logger.Error("gateway call failed",
		zap.String("op", op),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return entities.NewGatewayError(g.provider, op, err)
}

// passthrough reports domain errors that must reach the caller unwrapped.
func passthrough(err error) bool {
	return errors.Is(err, entities.ErrSubscriptionNotFound) ||
		errors.Is(err, entities.ErrPaymentMethodNotFound)
}

func ptrTime(t time.Time) *time.Time {
	t = t.UTC()
	return &t
}
