package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/event"
	"github.com/apper-canvas/realmquickcart/internal/repository"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

// AddItemInput holds the parameters for adding a product to the cart.
type AddItemInput struct {
	ProductID int `json:"product_id" validate:"required"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// CartService implements cart operations. Mutations are serialized per
// user so rapid concurrent triggers cannot corrupt the stored cart: a
// single mutation is in flight at a time per logical cart.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCartService creates a new cart service.
func NewCartService(carts repository.CartRepository, products repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		producer: producer,
		logger:   logger,
		locks:    make(map[string]*sync.Mutex),
	}
}

// userLock returns the mutex serializing mutations for one user's cart.
func (s *CartService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[userID] = lock
	}
	return lock
}

// Get retrieves the user's cart. Unauthenticated requests and users
// without a saved cart get an empty one. Backend failures degrade to an
// empty cart so list views never crash.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return &domain.Cart{}, nil
	}

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Cart{UserID: userID}, nil
		}
		s.logger.ErrorContext(ctx, "get cart failed, returning empty cart",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return &domain.Cart{UserID: userID}, nil
	}
	return cart, nil
}

// AddItem adds a product to the user's cart, merging quantity into an
// existing line. Returns the updated item list.
func (s *CartService) AddItem(ctx context.Context, userID string, input AddItemInput) ([]domain.CartItem, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to modify the cart")
	}
	if input.ProductID == 0 {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if input.Quantity < 1 {
		return nil, apperrors.InvalidInput("quantity must be at least 1")
	}

	product, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, apperrors.OperationFailed("add to cart", err)
	}

	cart.AddItem(*product, input.Quantity)
	if err := s.save(ctx, cart); err != nil {
		return nil, apperrors.OperationFailed("add to cart", err)
	}

	s.publishUpdated(ctx, cart)
	return cart.Items, nil
}

// UpdateQuantity sets the quantity of a cart line. Zero or negative
// removes the line; an absent product ID is a silent no-op.
func (s *CartService) UpdateQuantity(ctx context.Context, userID string, productID, quantity int) ([]domain.CartItem, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to modify the cart")
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, apperrors.OperationFailed("update cart", err)
	}

	cart.UpdateQuantity(productID, quantity)
	if err := s.save(ctx, cart); err != nil {
		return nil, apperrors.OperationFailed("update cart", err)
	}

	s.publishUpdated(ctx, cart)
	return cart.Items, nil
}

// RemoveItem deletes a cart line. An absent product ID is a silent no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID string, productID int) ([]domain.CartItem, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to modify the cart")
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	cart, err := s.load(ctx, userID)
	if err != nil {
		return nil, apperrors.OperationFailed("remove from cart", err)
	}

	cart.RemoveItem(productID)
	if err := s.save(ctx, cart); err != nil {
		return nil, apperrors.OperationFailed("remove from cart", err)
	}

	s.publishUpdated(ctx, cart)
	return cart.Items, nil
}

// Clear empties the user's cart, used after order placement.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.Unauthenticated("sign in to modify the cart")
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.carts.Delete(ctx, userID); err != nil {
		return apperrors.OperationFailed("clear cart", err)
	}

	if err := s.producer.PublishCartCleared(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.cleared event",
			slog.String("error", err.Error()),
		)
	}
	return nil
}

// load fetches the user's cart for mutation, treating a missing cart as
// a fresh empty one.
func (s *CartService) load(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &domain.Cart{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartService) publishUpdated(ctx context.Context, cart *domain.Cart) {
	if err := s.producer.PublishCartUpdated(ctx, cart); err != nil {
		s.logger.WarnContext(ctx, "failed to publish cart.updated event",
			slog.String("user_id", cart.UserID),
			slog.String("error", err.Error()),
		)
	}
}
