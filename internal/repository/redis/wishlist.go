package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

const wishlistKeyPrefix = "quickcart:wishlist:"

// WishlistRepository implements repository.WishlistRepository using Redis.
// The whole wishlist is one JSON array per user; membership records get
// sequential ids from a per-user counter.
type WishlistRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewWishlistRepository creates a Redis-backed wishlist repository.
func NewWishlistRepository(client *redis.Client, ttl time.Duration) *WishlistRepository {
	return &WishlistRepository{client: client, ttl: ttl}
}

// List retrieves the user's wishlist items.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	data, err := r.client.Get(ctx, wishlistKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get wishlist: %w", err)
	}

	var items []domain.WishlistItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal wishlist: %w", err)
	}
	return items, nil
}

// Add inserts a membership record and returns it with its id.
func (r *WishlistRepository) Add(ctx context.Context, userID string, item *domain.WishlistItem) (*domain.WishlistItem, error) {
	items, err := r.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	id, err := r.client.Incr(ctx, wishlistKeyPrefix+userID+":seq").Result()
	if err != nil {
		return nil, fmt.Errorf("redis incr wishlist seq: %w", err)
	}

	out := *item
	out.ID = int(id)
	items = append(items, out)

	if err := r.save(ctx, userID, items); err != nil {
		return nil, err
	}
	return &out, nil
}

// Remove deletes the membership record for the product.
func (r *WishlistRepository) Remove(ctx context.Context, userID string, productID int) error {
	items, err := r.List(ctx, userID)
	if err != nil {
		return err
	}

	kept := items[:0]
	found := false
	for _, item := range items {
		if item.ProductID == productID {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	if !found {
		return apperrors.NotFound("wishlist item", strconv.Itoa(productID))
	}
	return r.save(ctx, userID, kept)
}

// Clear deletes all of the user's wishlist items.
func (r *WishlistRepository) Clear(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, wishlistKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("redis del wishlist: %w", err)
	}
	return nil
}

func (r *WishlistRepository) save(ctx context.Context, userID string, items []domain.WishlistItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal wishlist: %w", err)
	}
	if err := r.client.Set(ctx, wishlistKeyPrefix+userID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set wishlist: %w", err)
	}
	return nil
}
