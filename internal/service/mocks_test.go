package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/event"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
	pkgkafka "github.com/apper-canvas/realmquickcart/pkg/kafka"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestProducer returns a producer whose publishes fail silently in
// tests (no real broker behind it).
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger)
	return event.NewProducer(kafkaProducer, logger)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockProductRepository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID int) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, userID string, order *domain.Order) (*domain.Order, error) {
	args := m.Called(ctx, userID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id int) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

type mockWishlistRepository struct {
	mock.Mock
}

func (m *mockWishlistRepository) List(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WishlistItem), args.Error(1)
}

func (m *mockWishlistRepository) Add(ctx context.Context, userID string, item *domain.WishlistItem) (*domain.WishlistItem, error) {
	args := m.Called(ctx, userID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WishlistItem), args.Error(1)
}

func (m *mockWishlistRepository) Remove(ctx context.Context, userID string, productID int) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *mockWishlistRepository) Clear(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type mockCatalogCache struct {
	mock.Mock
}

func (m *mockCatalogCache) GetProducts(ctx context.Context) ([]domain.Product, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.Product), args.Bool(1), args.Error(2)
}

func (m *mockCatalogCache) SetProducts(ctx context.Context, products []domain.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *mockCatalogCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// fakeCartRepository is an unlocked map-backed cart store. It exposes the
// lost-update hazard the service's per-user lock must prevent.
type fakeCartRepository struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func newFakeCartRepository() *fakeCartRepository {
	return &fakeCartRepository{carts: make(map[string]domain.Cart)}
}

func (f *fakeCartRepository) Get(_ context.Context, userID string) (*domain.Cart, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	cart, ok := f.carts[userID]
	if !ok {
		return nil, apperrors.NotFound("cart", userID)
	}
	cp := cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cp, nil
}

func (f *fakeCartRepository) Save(_ context.Context, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	f.carts[cart.UserID] = cp
	return nil
}

func (f *fakeCartRepository) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, userID)
	return nil
}
