package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-canvas/realmquickcart/internal/event"
	"github.com/apper-canvas/realmquickcart/internal/recordstore"
	"github.com/apper-canvas/realmquickcart/internal/recordstore/memory"
	"github.com/apper-canvas/realmquickcart/internal/repository/record"
	redisrepo "github.com/apper-canvas/realmquickcart/internal/repository/redis"
	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/health"
	"github.com/apper-canvas/realmquickcart/pkg/httputil"
	pkgkafka "github.com/apper-canvas/realmquickcart/pkg/kafka"
	"github.com/apper-canvas/realmquickcart/pkg/middleware"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	cfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(cfg, logger), logger)
}

// setupRouter wires the production route layout over an in-memory record
// store seeded with two products, plus a miniredis catalog cache.
func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.New()
	store.Seed(record.TableProducts,
		recordstore.Record{
			"Id":         1,
			"name_c":     "Wireless Headphones",
			"price_c":    199.99,
			"rating_c":   4.8,
			"reviews_c":  320,
			"stock_c":    12,
			"category_c": "Electronics",
			"images_c":   "https://img.example/hp.jpg",
		},
		recordstore.Record{
			"Id":         2,
			"name_c":     "Desk Lamp",
			"price_c":    49.50,
			"rating_c":   4.2,
			"reviews_c":  88,
			"stock_c":    0,
			"category_c": "Home",
		},
	)

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := redisrepo.NewCatalogCache(client, 5*time.Minute)

	logger := testLogger()
	producer := testEventProducer()

	products := record.NewProductRepository(store)
	cartSvc := service.NewCartService(record.NewCartRepository(store), products, producer, logger)

	svcs := Services{
		Catalog:  service.NewCatalogService(products, cache, logger),
		Cart:     cartSvc,
		Reviews:  service.NewReviewService(record.NewReviewRepository(store), producer, logger),
		Orders:   service.NewOrderService(record.NewOrderRepository(store), cartSvc, producer, logger),
		Wishlist: service.NewWishlistService(record.NewWishlistRepository(store), producer, logger),
	}

	return NewRouter(svcs, health.NewHandler(), middleware.DefaultCORSConfig(), logger)
}

func doRequest(t *testing.T, h http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set(userIDHeader, user)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var resp struct {
		Data  json.RawMessage         `json:"data"`
		Error *httputil.ErrorResponse `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	require.Nil(t, resp.Error, rec.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	h := setupRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(t, h, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, h, http.MethodGet, "/health/ready", "", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(t, h, http.MethodGet, "/metrics", "", nil).Code)
}

func TestProducts_List(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []ProductResponse
	decodeData(t, rec, &products)
	require.Len(t, products, 2)
	assert.Equal(t, "Wireless Headphones", products[0].Name)
	assert.Equal(t, "$199.99", products[0].FormattedPrice)
	assert.True(t, products[0].InStock)
	assert.False(t, products[1].InStock)
}

func TestProducts_ListByCategory(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products?category=home", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []ProductResponse
	decodeData(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Desk Lamp", products[0].Name)
}

func TestProducts_Search(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/search?q=lamp", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var products []ProductResponse
	decodeData(t, rec, &products)
	require.Len(t, products, 1)
	assert.Equal(t, 2, products[0].ID)
}

func TestProducts_Get(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var product ProductResponse
	decodeData(t, rec, &product)
	assert.Equal(t, "Wireless Headphones", product.Name)
}

func TestProducts_Get_NotFound(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/99", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestProducts_Get_InvalidID(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProducts_Categories(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/products/categories", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []string
	decodeData(t, rec, &categories)
	assert.Equal(t, []string{"Electronics", "Home"}, categories)
}

func TestReviews_CreateAndList(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/products/1/reviews", "", CreateReviewRequest{
		CustomerName: "Dana",
		Rating:       5,
		Comment:      "Excellent build quality",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doRequest(t, h, http.MethodPost, "/api/v1/products/1/reviews", "", CreateReviewRequest{
		CustomerName: "Lee",
		Rating:       3,
		Comment:      "Average sound",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/products/1/reviews", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ReviewListResponse
	decodeData(t, rec, &list)
	require.Len(t, list.Reviews, 2)
	assert.Equal(t, 4.0, list.Summary.AverageRating)
	assert.Equal(t, 2, list.Summary.TotalReviews)
}

func TestReviews_Create_Validation(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/products/1/reviews", "", CreateReviewRequest{
		CustomerName: "Dana",
		Rating:       9,
		Comment:      "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestCart_Flow(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/cart/items", "user-1", AddItemRequest{ProductID: 1, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var items []map[string]any
	decodeData(t, rec, &items)
	require.Len(t, items, 1)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/cart/summary", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary CartSummary
	decodeData(t, rec, &summary)
	assert.Equal(t, 2, summary.ItemCount)
	assert.InDelta(t, 399.98, summary.Subtotal, 1e-9)
	assert.InDelta(t, 399.98*0.08, summary.Tax, 1e-9)
	assert.InDelta(t, 399.98*1.08, summary.Total, 1e-9)

	// Quantity zero removes the line.
	rec = doRequest(t, h, http.MethodPut, "/api/v1/cart/items/1", "user-1", UpdateQuantityRequest{Quantity: 0})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &items)
	assert.Empty(t, items)
}

func TestCart_AddItem_Unauthenticated(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/cart/items", "", AddItemRequest{ProductID: 1, Quantity: 1})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
}

func TestCart_Get_AnonymousIsEmpty(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/cart", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cart struct {
		Items []map[string]any `json:"items"`
	}
	decodeData(t, rec, &cart)
	assert.Empty(t, cart.Items)
}

func TestOrders_CheckoutFromCart(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/cart/items", "user-1", AddItemRequest{ProductID: 2, Quantity: 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/v1/orders", "user-1", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order OrderResponse
	decodeData(t, rec, &order)
	assert.Regexp(t, `^QC\d+$`, order.OrderNumber)
	assert.InDelta(t, 99.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 99.0*1.08, order.Total, 1e-9)

	// Checkout empties the cart.
	rec = doRequest(t, h, http.MethodGet, "/api/v1/cart/summary", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary CartSummary
	decodeData(t, rec, &summary)
	assert.Zero(t, summary.ItemCount)

	// And the order shows up in the history.
	rec = doRequest(t, h, http.MethodGet, "/api/v1/orders", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var orders []OrderResponse
	decodeData(t, rec, &orders)
	require.Len(t, orders, 1)
	assert.Len(t, orders[0].Items, 1)
}

func TestOrders_Checkout_EmptyCart(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/orders", "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrders_Get_NotFound(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/orders/42", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlist_Flow(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/wishlist/items", "user-1", AddWishlistItemRequest{ProductID: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeData(t, rec, &result)
	assert.True(t, result.Success)

	// Duplicate add reports failure without erroring.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/wishlist/items", "user-1", AddWishlistItemRequest{ProductID: 1})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &result)
	assert.False(t, result.Success)
	assert.Equal(t, "already in wishlist", result.Message)

	// Toggle removes the saved product.
	rec = doRequest(t, h, http.MethodPost, "/api/v1/wishlist/items/1/toggle", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeData(t, rec, &result)
	assert.True(t, result.Success)
	assert.Equal(t, "removed from wishlist", result.Message)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/wishlist", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []map[string]any
	decodeData(t, rec, &items)
	assert.Empty(t, items)
}

func TestWishlist_Remove_Absent(t *testing.T) {
	h := setupRouter(t)

	rec := doRequest(t, h, http.MethodDelete, "/api/v1/wishlist/items/7", "user-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeData(t, rec, &result)
	assert.False(t, result.Success)
	assert.Equal(t, "not in wishlist", result.Message)
}
