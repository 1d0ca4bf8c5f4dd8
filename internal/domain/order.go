package domain

import "time"

// OrderStatus enumerates the lifecycle states of an order.
type OrderStatus string

const (
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an immutable record of a completed checkout. TotalAmount is the
// subtotal excluding tax; tax is recomputed wherever the order is displayed.
type Order struct {
	ID          int         `json:"id"`
	OrderNumber string      `json:"order_number"`
	Items       []CartItem  `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	OrderDate   time.Time   `json:"order_date"`
	Status      OrderStatus `json:"status"`
}
