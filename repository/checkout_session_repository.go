package repository

import (
	"context"
	"encoding/json"
	"time"

	"storefront-backend/models"

	"github.com/redis/go-redis/v9"
)

// CheckoutSessionRepository persists quotes between checkout-session creation
// and confirmation. Sessions live under a short TTL; an expired or unknown
// session forces the buyer to restart checkout.
type CheckoutSessionRepository interface {
	Save(ctx context.Context, session *models.CheckoutSession) error
	Find(ctx context.Context, sessionID string) (*models.CheckoutSession, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisCheckoutSessionRepository implements CheckoutSessionRepository using
// go-redis.
type RedisCheckoutSessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCheckoutSessionRepository creates a new RedisCheckoutSessionRepository.
func NewRedisCheckoutSessionRepository(client *redis.Client, ttl time.Duration) *RedisCheckoutSessionRepository {
	return &RedisCheckoutSessionRepository{client: client, ttl: ttl}
}

func (r *RedisCheckoutSessionRepository) key(sessionID string) string {
	return "checkout:session:" + sessionID
}

func (r *RedisCheckoutSessionRepository) Save(ctx context.Context, session *models.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.key(session.SessionID), data, r.ttl).Err()
}

// Find returns the session, or nil when it is unknown or expired.
func (r *RedisCheckoutSessionRepository) Find(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	data, err := r.client.Get(ctx, r.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session models.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisCheckoutSessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, r.key(sessionID)).Err()
}
