package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/event"
	"github.com/apper-canvas/realmquickcart/internal/repository"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

// OrderService assembles and reads immutable orders.
type OrderService struct {
	orders   repository.OrderRepository
	cart     *CartService
	producer *event.Producer
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, cart *CartService, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		cart:     cart,
		producer: producer,
		logger:   logger,
	}
}

// GenerateOrderNumber produces a display label combining the current unix
// millisecond timestamp with a zero-padded random suffix. Unique with
// overwhelming probability across concurrent checkouts; the store id is
// the real uniqueness guarantee.
func GenerateOrderNumber() string {
	return fmt.Sprintf("QC%d%03d", time.Now().UnixMilli(), rand.IntN(1000))
}

// Create persists an order for a user, defaulting the status to confirmed
// and the order date to now. Returns the persisted order with its
// store-assigned id.
func (s *OrderService) Create(ctx context.Context, userID string, order *domain.Order) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to place an order")
	}
	if len(order.Items) == 0 {
		return nil, apperrors.InvalidInput("order has no items")
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusConfirmed
	}
	if !domain.IsValidOrderStatus(order.Status) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid order status: %q", order.Status))
	}
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now().UTC()
	}
	if order.OrderNumber == "" {
		order.OrderNumber = GenerateOrderNumber()
	}

	created, err := s.orders.Create(ctx, userID, order)
	if err != nil {
		return nil, apperrors.OperationFailed("place order", err)
	}

	if err := s.producer.PublishOrderCreated(ctx, userID, created); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order.created event",
			slog.Int("order_id", created.ID),
			slog.String("error", err.Error()),
		)
	}
	return created, nil
}

// Checkout assembles an order from the user's current cart and clears the
// cart afterwards. The order's total is the cart subtotal excluding tax.
func (s *OrderService) Checkout(ctx context.Context, userID string) (*domain.Order, error) {
	if userID == "" {
		return nil, apperrors.Unauthenticated("sign in to place an order")
	}

	cart, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	order := &domain.Order{
		OrderNumber: GenerateOrderNumber(),
		Items:       cart.Items,
		TotalAmount: cart.Total(),
	}

	created, err := s.Create(ctx, userID, order)
	if err != nil {
		return nil, err
	}

	// Cart clearing is best-effort: the order exists either way.
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "failed to clear cart after checkout",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}
	return created, nil
}

// GetByID retrieves one order, or a not-found error.
func (s *OrderService) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListByUser returns the user's order history, newest first.
// Unauthenticated requests and backend failures degrade to empty.
func (s *OrderService) ListByUser(ctx context.Context, userID string) []domain.Order {
	if userID == "" {
		return []domain.Order{}
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list orders failed, returning empty history",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return []domain.Order{}
	}
	return orders
}
