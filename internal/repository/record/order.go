package record

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/recordstore"
)

// OrderRepository persists immutable orders in the record store. Line
// items are stored as a JSON-encoded array in a single text field.
type OrderRepository struct {
	store recordstore.Store
}

// NewOrderRepository creates a record-store-backed order repository.
func NewOrderRepository(store recordstore.Store) *OrderRepository {
	return &OrderRepository{store: store}
}

// Create persists an order for a user and returns it with its id.
func (r *OrderRepository) Create(ctx context.Context, userID string, order *domain.Order) (*domain.Order, error) {
	rec, err := orderToRecord(userID, order)
	if err != nil {
		return nil, err
	}

	created, err := r.store.Create(ctx, TableOrders, []recordstore.Record{rec})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	out, err := orderFromRecord(created[0])
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves one order.
func (r *OrderRepository) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	rec, err := r.store.GetByID(ctx, TableOrders, id)
	if err != nil {
		return nil, err
	}
	return orderFromRecord(rec)
}

// ListByUser retrieves a user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	recs, err := r.store.Fetch(ctx, TableOrders, recordstore.Query{
		Where: []recordstore.Filter{{
			FieldName: "user_id_c",
			Operator:  recordstore.OpEqualTo,
			Values:    []string{userID},
		}},
		OrderBy: []recordstore.Sort{{
			FieldName: "order_date_c",
			SortType:  recordstore.SortDesc,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(recs))
	for _, rec := range recs {
		order, err := orderFromRecord(rec)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func orderFromRecord(rec recordstore.Record) (*domain.Order, error) {
	items, err := decodeItems(rec.String("items_c"))
	if err != nil {
		return nil, fmt.Errorf("order %d: %w", rec.ID(), err)
	}
	total, _ := rec.Float("total_amount_c")

	return &domain.Order{
		ID:          rec.ID(),
		OrderNumber: rec.String("order_number_c"),
		Items:       items,
		TotalAmount: total,
		OrderDate:   parseTime(rec.String("order_date_c")),
		Status:      domain.OrderStatus(rec.String("status_c")),
	}, nil
}

func orderToRecord(userID string, order *domain.Order) (recordstore.Record, error) {
	items, err := encodeItems(order.Items)
	if err != nil {
		return nil, err
	}
	return recordstore.Record{
		"user_id_c":      userID,
		"order_number_c": order.OrderNumber,
		"items_c":        items,
		"total_amount_c": order.TotalAmount,
		"order_date_c":   formatTime(order.OrderDate),
		"status_c":       string(order.Status),
	}, nil
}

// encodeItems serializes cart lines to the backend's JSON-array text field.
func encodeItems(items []domain.CartItem) (string, error) {
	if items == nil {
		items = []domain.CartItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}
	return string(raw), nil
}

func decodeItems(raw string) ([]domain.CartItem, error) {
	if raw == "" {
		return nil, nil
	}
	var items []domain.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return items, nil
}
