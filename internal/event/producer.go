// Package event publishes storefront domain events to Kafka. Publishing is
// best-effort: services log failures and never fail the user operation.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	pkgkafka "github.com/apper-canvas/realmquickcart/pkg/kafka"
)

// Kafka topics for storefront domain events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicCartCleared     = "storefront.cart.cleared"
	TopicOrderCreated    = "storefront.order.created"
	TopicReviewCreated   = "storefront.review.created"
	TopicWishlistUpdated = "storefront.wishlist.updated"
)

// Aggregate types carried in event envelopes.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeOrder    = "order"
	AggregateTypeReview   = "review"
	AggregateTypeWishlist = "wishlist"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	UserID    string            `json:"user_id"`
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     float64           `json:"total"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
}

// OrderCreatedData is the payload for an order.created event.
type OrderCreatedData struct {
	OrderID     int     `json:"order_id"`
	OrderNumber string  `json:"order_number"`
	UserID      string  `json:"user_id"`
	ItemCount   int     `json:"item_count"`
	TotalAmount float64 `json:"total_amount"`
}

// ReviewCreatedData is the payload for a review.created event.
type ReviewCreatedData struct {
	ReviewID  int      `json:"review_id"`
	ProductID int      `json:"product_id"`
	Rating    *float64 `json:"rating,omitempty"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	UserID    string `json:"user_id"`
	ProductID int    `json:"product_id"`
	Action    string `json:"action"` // "added", "removed", or "cleared"
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	data := CartUpdatedData{
		UserID:    cart.UserID,
		Items:     cart.Items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	}
	return p.publish(ctx, TopicCartUpdated, cart.UserID, AggregateTypeCart, data)
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, userID string) error {
	return p.publish(ctx, TopicCartCleared, userID, AggregateTypeCart, CartClearedData{UserID: userID})
}

// PublishOrderCreated publishes an order.created event.
func (p *Producer) PublishOrderCreated(ctx context.Context, userID string, order *domain.Order) error {
	data := OrderCreatedData{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      userID,
		ItemCount:   len(order.Items),
		TotalAmount: order.TotalAmount,
	}
	return p.publish(ctx, TopicOrderCreated, strconv.Itoa(order.ID), AggregateTypeOrder, data)
}

// PublishReviewCreated publishes a review.created event.
func (p *Producer) PublishReviewCreated(ctx context.Context, review *domain.Review) error {
	data := ReviewCreatedData{
		ReviewID:  review.ID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
	}
	return p.publish(ctx, TopicReviewCreated, strconv.Itoa(review.ID), AggregateTypeReview, data)
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, userID string, productID int, action string) error {
	data := WishlistUpdatedData{UserID: userID, ProductID: productID, Action: action}
	return p.publish(ctx, TopicWishlistUpdated, userID, AggregateTypeWishlist, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}
