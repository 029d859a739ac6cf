package usecase

import (
	"context"
	"errors"
	"fmt"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/metrics"
	"saas_billing/internal/usecase/interfaces"

	"go.uber.org/zap"
)

var (
	ErrWebhookSignatureInvalid = errors.New("webhook signature verification failed")
	ErrWebhookProcessing       = errors.New("webhook processing failed")
)

//go:generate mockgen -source=webhook_usecase.go -destination=../adapter/http/handlers/mocks/webhook_usecase_mock.go -package=mocks

// IWebhookUseCase dispatches raw gateway notifications.
type IWebhookUseCase interface {
	HandleWebhook(ctx context.Context, provider string, rawPayload []byte, signature string) (entities.WebhookResult, error)
}

// WebhookDeps groups the stores the dispatcher writes to. Ledger may be nil,
// in which case idempotency rests on the upserts alone.
type WebhookDeps struct {
	Ledger         interfaces.IWebhookEventRepository
	Subscriptions  interfaces.ISubscriptionRepository
	Payments       interfaces.IPaymentRepository
	PaymentMethods interfaces.IPaymentMethodRepository
}

type WebhookUseCase struct {
	providers IPaymentService
	deps      WebhookDeps
	logger    *zap.Logger
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(providers IPaymentService, deps WebhookDeps, logger *zap.Logger) *WebhookUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookUseCase{providers: providers, deps: deps, logger: logger.Named("webhook")}
}

// HandleWebhook verifies, parses, claims, handles and persists one delivery.
//
// The returned error classifies failures for the transport: unknown provider,
// ErrWebhookSignatureInvalid, entities.ErrInvalidWebhookPayload or
// ErrWebhookProcessing. The result is always populated.
func (uc *WebhookUseCase) HandleWebhook(ctx context.Context, providerName string, rawPayload []byte, signature string) (result entities.WebhookResult, err error) {
	name, ok := entities.ParseProviderName(providerName)
	if !ok {
		err = fmt.Errorf("%w: %q", entities.ErrUnknownProvider, providerName)
		return entities.FailedResult(err), err
	}
	provider, err := uc.providers.GetProvider(name)
	if err != nil {
		return entities.FailedResult(err), err
	}
	log := uc.logger.With(zap.String("provider", string(name)))

	if !provider.VerifyWebhookSignature(rawPayload, signature) {
		log.Warn("webhook signature rejected")
		metrics.WebhookEvents.WithLabelValues(string(name), metrics.OutcomeRejected).Inc()
		return entities.FailedResult(ErrWebhookSignatureInvalid), ErrWebhookSignatureInvalid
	}

	event, err := provider.ParseWebhook(rawPayload)
	if err != nil {
		log.Warn("webhook payload rejected", zap.Error(err))
		metrics.WebhookEvents.WithLabelValues(string(name), metrics.OutcomeInvalid).Inc()
		if !errors.Is(err, entities.ErrInvalidWebhookPayload) {
			err = fmt.Errorf("%w: %v", entities.ErrInvalidWebhookPayload, err)
		}
		return entities.FailedResult(err), err
	}
	log = log.With(zap.String("event_id", event.EventID), zap.String("event_type", event.EventType))

	if uc.deps.Ledger != nil {
		claimed, err := uc.deps.Ledger.Claim(ctx, event)
		if err != nil {
			log.Error("webhook ledger claim failed", zap.Error(err))
			metrics.WebhookEvents.WithLabelValues(string(name), metrics.OutcomeFailed).Inc()
			err = fmt.Errorf("%w: %v", ErrWebhookProcessing, err)
			return entities.FailedResult(err), err
		}
		if !claimed {
			log.Info("webhook duplicate skipped")
			metrics.WebhookEvents.WithLabelValues(string(name), metrics.OutcomeDuplicate).Inc()
			return entities.WebhookResult{Success: true, Processed: true, Duplicate: true}, nil
		}
	}

	result = uc.process(ctx, provider, event, log)
	if !result.Success {
		metrics.WebhookEvents.WithLabelValues(string(name), metrics.OutcomeFailed).Inc()
		if uc.deps.Ledger != nil {
			if err := uc.deps.Ledger.MarkFailed(ctx, event, result.Error); err != nil {
				log.Warn("webhook ledger mark failed", zap.Error(err))
			}
		}
		return result, fmt.Errorf("%w: %s", ErrWebhookProcessing, result.Error)
	}

	metrics.WebhookEvents.WithLabelValues(string(name), metrics.OutcomeProcessed).Inc()
	if uc.deps.Ledger != nil {
		if err := uc.deps.Ledger.MarkProcessed(ctx, event); err != nil {
			log.Warn("webhook ledger mark processed failed", zap.Error(err))
		}
	}
	log.Info("webhook processed")
	return publicResult(result), nil
}

// process runs the adapter handler and applies its mutations. A panic in
// either step becomes a failed result.
func (uc *WebhookUseCase) process(ctx context.Context, provider interfaces.IPaymentProvider, event entities.WebhookEvent, log *zap.Logger) (result entities.WebhookResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("webhook handler panic", zap.Any("panic", r), zap.Stack("stack"))
			result = entities.FailedResult(fmt.Errorf("panic: %v", r))
		}
	}()

	result = provider.HandleWebhook(ctx, event)
	if !result.Success {
		log.Warn("webhook handler failed", zap.String("error", result.Error))
		return result
	}
	if err := uc.apply(ctx, result); err != nil {
		log.Error("webhook mutation failed", zap.Error(err))
		return entities.FailedResult(err)
	}
	return result
}

func (uc *WebhookUseCase) apply(ctx context.Context, result entities.WebhookResult) error {
	if result.Subscription != nil {
		if uc.deps.Subscriptions == nil {
			return ErrPersistenceNotConfigured
		}
		if _, err := uc.deps.Subscriptions.Upsert(ctx, *result.Subscription); err != nil {
			return fmt.Errorf("upsert subscription: %w", err)
		}
	}
	if result.Payment != nil {
		if uc.deps.Payments == nil {
			return ErrPersistenceNotConfigured
		}
		if _, err := uc.deps.Payments.Upsert(ctx, *result.Payment); err != nil {
			return fmt.Errorf("upsert payment: %w", err)
		}
	}
	if result.PaymentMethod != nil {
		if uc.deps.PaymentMethods == nil {
			return ErrPersistenceNotConfigured
		}
		if _, err := uc.deps.PaymentMethods.Upsert(ctx, *result.PaymentMethod); err != nil {
			return fmt.Errorf("upsert payment method: %w", err)
		}
	}
	return nil
}

func publicResult(r entities.WebhookResult) entities.WebhookResult {
	return entities.WebhookResult{Success: r.Success, Processed: r.Processed, Duplicate: r.Duplicate, Error: r.Error}
}
