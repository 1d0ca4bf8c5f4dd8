package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/health"
	"github.com/apper-canvas/realmquickcart/pkg/middleware"
)

// Services bundles the storefront services the router exposes.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Reviews  *service.ReviewService
	Orders   *service.OrderService
	Wishlist *service.WishlistService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svcs Services,
	healthHandler *health.Handler,
	corsConfig middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(corsConfig))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)
	cartHandler := NewCartHandler(svcs.Cart, logger)
	reviewHandler := NewReviewHandler(svcs.Reviews, logger)
	orderHandler := NewOrderHandler(svcs.Orders, logger)
	wishlistHandler := NewWishlistHandler(svcs.Wishlist, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogHandler.List)
			r.Get("/search", catalogHandler.Search)
			r.Get("/categories", catalogHandler.Categories)
			r.Get("/featured", catalogHandler.Featured)
			r.Get("/{id}", catalogHandler.Get)
			r.Get("/{id}/related", catalogHandler.Related)
			r.Get("/{id}/reviews", reviewHandler.ListByProduct)
			r.Post("/{id}/reviews", reviewHandler.Create)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Delete("/", cartHandler.Clear)
			r.Get("/summary", cartHandler.Summary)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{productId}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Post("/", orderHandler.Create)
			r.Get("/{id}", orderHandler.Get)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", wishlistHandler.List)
			r.Delete("/", wishlistHandler.Clear)
			r.Post("/items", wishlistHandler.AddItem)
			r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
			r.Post("/items/{productId}/toggle", wishlistHandler.ToggleItem)
		})
	})

	return r
}
