package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"saas_billing/internal/domain/entities"
	"saas_billing/internal/usecase/interfaces"

	"github.com/redis/go-redis/v9"
)

const checkoutSessionKeyPrefix = "billing:checkout:"

// CheckoutSessionRedisStore caches checkout sessions as JSON with a TTL.
type CheckoutSessionRedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ interfaces.ICheckoutSessionStore = (*CheckoutSessionRedisStore)(nil)

func NewCheckoutSessionRedisStore(client redis.Cmdable, ttl time.Duration) *CheckoutSessionRedisStore {
	return &CheckoutSessionRedisStore{client: client, ttl: ttl}
}

func (s *CheckoutSessionRedisStore) Save(ctx context.Context, session entities.CheckoutSession) error {
	b, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, checkoutSessionKeyPrefix+session.SessionID, b, s.ttl).Err()
}

func (s *CheckoutSessionRedisStore) Get(ctx context.Context, sessionID string) (entities.CheckoutSession, error) {
	b, err := s.client.Get(ctx, checkoutSessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return entities.CheckoutSession{}, entities.ErrCheckoutSessionNotFound
	}
	if err != nil {
		return entities.CheckoutSession{}, err
	}
	var session entities.CheckoutSession
	if err := json.Unmarshal(b, &session); err != nil {
		return entities.CheckoutSession{}, err
	}
	return session, nil
}
