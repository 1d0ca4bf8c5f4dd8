// Package repository defines the persistence interfaces of the storefront.
// Implementations translate between domain types and their backing store:
// the record subpackage speaks the record API's suffixed field convention,
// the redis subpackage keeps per-user cart and wishlist state as JSON
// under fixed keys.
package repository

import (
	"context"

	"github.com/apper-canvas/realmquickcart/internal/domain"
)

// ProductRepository reads the product catalog.
type ProductRepository interface {
	// GetAll retrieves every product.
	GetAll(ctx context.Context) ([]domain.Product, error)

	// GetByID retrieves one product, or a not-found error.
	GetByID(ctx context.Context, id int) (*domain.Product, error)
}

// ReviewRepository persists append-only product reviews.
type ReviewRepository interface {
	// ListByProduct retrieves all reviews for a product.
	ListByProduct(ctx context.Context, productID int) ([]domain.Review, error)

	// Create appends a review and returns it with its store-assigned id.
	Create(ctx context.Context, review *domain.Review) (*domain.Review, error)
}

// OrderRepository persists immutable orders.
type OrderRepository interface {
	// Create persists an order for a user and returns it with its id.
	Create(ctx context.Context, userID string, order *domain.Order) (*domain.Order, error)

	// GetByID retrieves one order, or a not-found error.
	GetByID(ctx context.Context, id int) (*domain.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// CartRepository persists one cart per user.
type CartRepository interface {
	// Get retrieves a cart by user ID, or a not-found error when the user
	// has never saved one.
	Get(ctx context.Context, userID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the user.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the user's cart.
	Delete(ctx context.Context, userID string) error
}

// WishlistRepository persists one wishlist per user with set semantics.
type WishlistRepository interface {
	// List retrieves the user's wishlist items.
	List(ctx context.Context, userID string) ([]domain.WishlistItem, error)

	// Add inserts a membership record and returns it with its id.
	Add(ctx context.Context, userID string, item *domain.WishlistItem) (*domain.WishlistItem, error)

	// Remove deletes the membership record for the product.
	Remove(ctx context.Context, userID string, productID int) error

	// Clear deletes all of the user's wishlist items.
	Clear(ctx context.Context, userID string) error
}

// CatalogCache caches the full product list between record store fetches.
type CatalogCache interface {
	// GetProducts returns the cached list and whether it was present.
	GetProducts(ctx context.Context) ([]domain.Product, bool, error)

	// SetProducts stores the list for the configured TTL.
	SetProducts(ctx context.Context, products []domain.Product) error

	// Invalidate drops the cached list.
	Invalidate(ctx context.Context) error
}
