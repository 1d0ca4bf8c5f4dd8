package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
)

func newOrderService(orders *mockOrderRepository, carts *mockCartRepository) *OrderService {
	cartSvc := NewCartService(carts, new(mockProductRepository), newTestProducer(), newTestLogger())
	return NewOrderService(orders, cartSvc, newTestProducer(), newTestLogger())
}

func TestGenerateOrderNumber_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^QC\d{13}\d{3}$`)
	seen := make(map[string]bool)

	for i := 0; i < 50; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	// Collisions are improbable, not impossible; most of 50 should differ.
	assert.Greater(t, len(seen), 40)
}

func TestOrderService_Create_Defaults(t *testing.T) {
	orders := new(mockOrderRepository)
	orders.On("Create", mock.Anything, "user-1", mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			o := args.Get(2).(*domain.Order)
			assert.Equal(t, domain.OrderStatusConfirmed, o.Status)
			assert.NotEmpty(t, o.OrderNumber)
			assert.WithinDuration(t, time.Now().UTC(), o.OrderDate, time.Minute)
		}).
		Return(&domain.Order{ID: 5, OrderNumber: "QC1", Status: domain.OrderStatusConfirmed}, nil)

	svc := newOrderService(orders, new(mockCartRepository))
	created, err := svc.Create(context.Background(), "user-1", &domain.Order{
		Items:       []domain.CartItem{{ProductID: 1, Price: 50, Quantity: 2}},
		TotalAmount: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created.ID)
}

func TestOrderService_Create_Unauthenticated(t *testing.T) {
	svc := newOrderService(new(mockOrderRepository), new(mockCartRepository))

	_, err := svc.Create(context.Background(), "", &domain.Order{
		Items: []domain.CartItem{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestOrderService_Create_EmptyOrder(t *testing.T) {
	svc := newOrderService(new(mockOrderRepository), new(mockCartRepository))

	_, err := svc.Create(context.Background(), "user-1", &domain.Order{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrderService_Create_InvalidStatus(t *testing.T) {
	svc := newOrderService(new(mockOrderRepository), new(mockCartRepository))

	_, err := svc.Create(context.Background(), "user-1", &domain.Order{
		Items:  []domain.CartItem{{ProductID: 1, Quantity: 1}},
		Status: "returned",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrderService_Create_BackendFailure(t *testing.T) {
	orders := new(mockOrderRepository)
	orders.On("Create", mock.Anything, "user-1", mock.AnythingOfType("*domain.Order")).
		Return(nil, assert.AnError)

	svc := newOrderService(orders, new(mockCartRepository))
	_, err := svc.Create(context.Background(), "user-1", &domain.Order{
		Items: []domain.CartItem{{ProductID: 1, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperrors.ErrOperationFailed)
}

func TestOrderService_Checkout(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	carts.On("Get", mock.Anything, "user-1").Return(&domain.Cart{
		UserID: "user-1",
		Items:  []domain.CartItem{{ProductID: 1, Price: 50, Quantity: 2}},
	}, nil)
	carts.On("Delete", mock.Anything, "user-1").Return(nil)
	orders.On("Create", mock.Anything, "user-1", mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			o := args.Get(2).(*domain.Order)
			assert.InDelta(t, 100.0, o.TotalAmount, 1e-9)
			assert.Len(t, o.Items, 1)
		}).
		Return(&domain.Order{ID: 9, TotalAmount: 100, Status: domain.OrderStatusConfirmed}, nil)

	svc := newOrderService(orders, carts)
	created, err := svc.Checkout(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 9, created.ID)
	carts.AssertCalled(t, "Delete", mock.Anything, "user-1")
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	carts := new(mockCartRepository)
	carts.On("Get", mock.Anything, "user-1").Return(&domain.Cart{UserID: "user-1"}, nil)

	svc := newOrderService(new(mockOrderRepository), carts)
	_, err := svc.Checkout(context.Background(), "user-1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOrderService_ListByUser(t *testing.T) {
	orders := new(mockOrderRepository)
	orders.On("ListByUser", mock.Anything, "user-1").Return([]domain.Order{
		{ID: 2}, {ID: 1},
	}, nil)

	svc := newOrderService(orders, new(mockCartRepository))
	got := svc.ListByUser(context.Background(), "user-1")
	assert.Len(t, got, 2)

	// Unauthenticated history is empty, not an error.
	assert.Empty(t, svc.ListByUser(context.Background(), ""))
}

func TestOrderService_ListByUser_FailureDegradesToEmpty(t *testing.T) {
	orders := new(mockOrderRepository)
	orders.On("ListByUser", mock.Anything, "user-1").Return(nil, assert.AnError)

	svc := newOrderService(orders, new(mockCartRepository))
	got := svc.ListByUser(context.Background(), "user-1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	orders := new(mockOrderRepository)
	orders.On("GetByID", mock.Anything, 77).Return(nil, apperrors.NotFound("order", "77"))

	svc := newOrderService(orders, new(mockCartRepository))
	_, err := svc.GetByID(context.Background(), 77)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
