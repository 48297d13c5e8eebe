package repository

import (
	"context"
	"encoding/json"
	"time"

	"storefront-backend/models"

	"github.com/redis/go-redis/v9"
)

// CartRepository stores carts in Redis keyed by identity, with an absolute
// idle TTL: long-lived for authenticated users, short for guests. Expiry is
// handled by Redis itself.
type CartRepository interface {
	Get(ctx context.Context, identity models.Identity) (*models.Cart, error)
	Save(ctx context.Context, identity models.Identity, cart *models.Cart) error
	Delete(ctx context.Context, identity models.Identity) error
}

// RedisCartRepository implements CartRepository using go-redis.
type RedisCartRepository struct {
	client   *redis.Client
	userTTL  time.Duration
	guestTTL time.Duration
}

// NewRedisCartRepository creates a new RedisCartRepository.
func NewRedisCartRepository(client *redis.Client, userTTL, guestTTL time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client:   client,
		userTTL:  userTTL,
		guestTTL: guestTTL,
	}
}

func (r *RedisCartRepository) key(identity models.Identity) string {
	return "cart:" + identity.Key()
}

// Get returns the cart for the identity, or nil when none exists.
func (r *RedisCartRepository) Get(ctx context.Context, identity models.Identity) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.key(identity)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// Save writes the cart and resets its TTL.
func (r *RedisCartRepository) Save(ctx context.Context, identity models.Identity, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	ttl := r.userTTL
	if identity.IsGuest() {
		ttl = r.guestTTL
	}
	return r.client.Set(ctx, r.key(identity), data, ttl).Err()
}

// Delete removes the cart entirely (used when a guest cart is merged into a
// user cart; checkout empties the cart instead of deleting it).
func (r *RedisCartRepository) Delete(ctx context.Context, identity models.Identity) error {
	return r.client.Del(ctx, r.key(identity)).Err()
}
