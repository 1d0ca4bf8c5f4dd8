package domain

import "time"

// WishlistItem is one wishlist membership record. Product IDs are unique
// per wishlist.
type WishlistItem struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// WishlistResult reports the outcome of a wishlist mutation. Adding a
// product already present, or removing one that is absent, yields a failed
// result rather than an error.
type WishlistResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Item    *WishlistItem `json:"item,omitempty"`
}

// FindWishlistItem returns the item matching productID, or nil.
func FindWishlistItem(items []WishlistItem, productID int) *WishlistItem {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}
