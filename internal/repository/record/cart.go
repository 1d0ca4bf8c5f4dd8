package record

import (
	"context"
	"fmt"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

// CartRepository persists one cart record per user in the record store,
// with the line items JSON-encoded in a single text field.
type CartRepository struct {
	store recordstore.Store
}

// NewCartRepository creates a record-store-backed cart repository.
func NewCartRepository(store recordstore.Store) *CartRepository {
	return &CartRepository{store: store}
}

// Get retrieves a cart by user ID.
func (r *CartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	rec, err := r.find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, apperrors.NotFound("cart", userID)
	}

	items, err := decodeItems(rec.String("items_c"))
	if err != nil {
		return nil, fmt.Errorf("cart for %s: %w", userID, err)
	}
	return &domain.Cart{
		UserID:    userID,
		Items:     items,
		UpdatedAt: parseTime(rec.String("updated_at_c")),
	}, nil
}

// Save persists a cart, updating the user's existing record or creating
// one on first save.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	items, err := encodeItems(cart.Items)
	if err != nil {
		return err
	}

	existing, err := r.find(ctx, cart.UserID)
	if err != nil {
		return err
	}

	fields := recordstore.Record{
		"user_id_c":    cart.UserID,
		"items_c":      items,
		"updated_at_c": formatTime(cart.UpdatedAt),
	}

	if existing == nil {
		if _, err := r.store.Create(ctx, TableCarts, []recordstore.Record{fields}); err != nil {
			return fmt.Errorf("create cart: %w", err)
		}
		return nil
	}

	fields["Id"] = existing.ID()
	if _, err := r.store.Update(ctx, TableCarts, []recordstore.Record{fields}); err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// Delete removes the user's cart record if one exists.
func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	existing, err := r.find(ctx, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := r.store.Delete(ctx, TableCarts, []int{existing.ID()}); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// find returns the user's cart record, or nil when none exists.
func (r *CartRepository) find(ctx context.Context, userID string) (recordstore.Record, error) {
	recs, err := r.store.Fetch(ctx, TableCarts, recordstore.Query{
		Where: []recordstore.Filter{{
			FieldName: "user_id_c",
			Operator:  recordstore.OpEqualTo,
			Values:    []string{userID},
		}},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}
