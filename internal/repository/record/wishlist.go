package record

import (
	"context"
	"fmt"
	"strconv"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

// WishlistRepository persists one membership record per wishlisted product.
type WishlistRepository struct {
	store recordstore.Store
}

// NewWishlistRepository creates a record-store-backed wishlist repository.
func NewWishlistRepository(store recordstore.Store) *WishlistRepository {
	return &WishlistRepository{store: store}
}

// List retrieves the user's wishlist items.
func (r *WishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	recs, err := r.store.Fetch(ctx, TableWishlistItems, recordstore.Query{
		Where: []recordstore.Filter{{
			FieldName: "user_id_c",
			Operator:  recordstore.OpEqualTo,
			Values:    []string{userID},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch wishlist: %w", err)
	}

	items := make([]domain.WishlistItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, domain.WishlistItem{
			ID:        rec.ID(),
			ProductID: rec.Int("product_id_c"),
			AddedAt:   parseTime(rec.String("added_at_c")),
		})
	}
	return items, nil
}

// Add inserts a membership record and returns it with its id.
func (r *WishlistRepository) Add(ctx context.Context, userID string, item *domain.WishlistItem) (*domain.WishlistItem, error) {
	created, err := r.store.Create(ctx, TableWishlistItems, []recordstore.Record{{
		"user_id_c":    userID,
		"product_id_c": item.ProductID,
		"added_at_c":   formatTime(item.AddedAt),
	}})
	if err != nil {
		return nil, fmt.Errorf("create wishlist item: %w", err)
	}

	out := *item
	out.ID = created[0].ID()
	return &out, nil
}

// Remove deletes the membership record for the product.
func (r *WishlistRepository) Remove(ctx context.Context, userID string, productID int) error {
	recs, err := r.store.Fetch(ctx, TableWishlistItems, recordstore.Query{
		Where: []recordstore.Filter{
			{FieldName: "user_id_c", Operator: recordstore.OpEqualTo, Values: []string{userID}},
			{FieldName: "product_id_c", Operator: recordstore.OpEqualTo, Values: []string{strconv.Itoa(productID)}},
		},
	})
	if err != nil {
		return fmt.Errorf("fetch wishlist item: %w", err)
	}
	if len(recs) == 0 {
		return apperrors.NotFound("wishlist item", strconv.Itoa(productID))
	}

	ids := make([]int, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID())
	}
	if err := r.store.Delete(ctx, TableWishlistItems, ids); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

// Clear deletes all of the user's wishlist items.
func (r *WishlistRepository) Clear(ctx context.Context, userID string) error {
	items, err := r.List(ctx, userID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	if err := r.store.Delete(ctx, TableWishlistItems, ids); err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}
	return nil
}
