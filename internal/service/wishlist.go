package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/event"
	"github.com/apper-canvas/realmquickcart/internal/repository"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

// WishlistService maintains the per-user wishlist with set semantics.
// Adding a present product or removing an absent one yields a failed
// result, not an error.
type WishlistService struct {
	wishlists repository.WishlistRepository
	producer  *event.Producer
	logger    *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(wishlists repository.WishlistRepository, producer *event.Producer, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		wishlists: wishlists,
		producer:  producer,
		logger:    logger,
	}
}

// List returns the user's wishlist. Unauthenticated requests and backend
// failures degrade to empty.
func (s *WishlistService) List(ctx context.Context, userID string) []domain.WishlistItem {
	if userID == "" {
		return []domain.WishlistItem{}
	}

	items, err := s.wishlists.List(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list wishlist failed, returning empty list",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return []domain.WishlistItem{}
	}
	if items == nil {
		items = []domain.WishlistItem{}
	}
	return items
}

// IsInWishlist reports whether the product is in the user's wishlist.
func (s *WishlistService) IsInWishlist(ctx context.Context, userID string, productID int) bool {
	return domain.FindWishlistItem(s.List(ctx, userID), productID) != nil
}

// Add inserts a product into the wishlist. A product already present
// yields a failed result without duplicating the entry.
func (s *WishlistService) Add(ctx context.Context, userID string, productID int) (*domain.WishlistResult, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to modify the wishlist")
	}
	if productID == 0 {
		return nil, apperrors.InvalidInput("product id is required")
	}

	if s.IsInWishlist(ctx, userID, productID) {
		return &domain.WishlistResult{Success: false, Message: "already in wishlist"}, nil
	}

	item, err := s.wishlists.Add(ctx, userID, &domain.WishlistItem{
		ProductID: productID,
		AddedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, apperrors.OperationFailed("add to wishlist", err)
	}

	s.publishUpdated(ctx, userID, productID, "added")
	return &domain.WishlistResult{Success: true, Message: "added to wishlist", Item: item}, nil
}

// Remove deletes a product from the wishlist. An absent product yields a
// failed result.
func (s *WishlistService) Remove(ctx context.Context, userID string, productID int) (*domain.WishlistResult, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to modify the wishlist")
	}

	err := s.wishlists.Remove(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.WishlistResult{Success: false, Message: "not in wishlist"}, nil
		}
		return nil, apperrors.OperationFailed("remove from wishlist", err)
	}

	s.publishUpdated(ctx, userID, productID, "removed")
	return &domain.WishlistResult{Success: true, Message: "removed from wishlist"}, nil
}

// Toggle adds the product when absent and removes it when present.
func (s *WishlistService) Toggle(ctx context.Context, userID string, productID int) (*domain.WishlistResult, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to modify the wishlist")
	}

	if s.IsInWishlist(ctx, userID, productID) {
		return s.Remove(ctx, userID, productID)
	}
	return s.Add(ctx, userID, productID)
}

// Clear empties the user's wishlist.
func (s *WishlistService) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.Unauthenticated("sign in to modify the wishlist")
	}

	if err := s.wishlists.Clear(ctx, userID); err != nil {
		return apperrors.OperationFailed("clear wishlist", err)
	}

	s.publishUpdated(ctx, userID, 0, "cleared")
	return nil
}

func (s *WishlistService) publishUpdated(ctx context.Context, userID string, productID int, action string) {
	if err := s.producer.PublishWishlistUpdated(ctx, userID, productID, action); err != nil {
		s.logger.WarnContext(ctx, "failed to publish wishlist.updated event",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
}
