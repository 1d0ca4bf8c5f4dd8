package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/httputil"
	"github.com/apper-canvas/realmquickcart/pkg/money"
)

// CatalogHandler handles HTTP requests for product catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ProductResponse augments a product with derived pricing fields.
type ProductResponse struct {
	ID              int      `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Price           float64  `json:"price"`
	FormattedPrice  string   `json:"formatted_price"`
	OriginalPrice   float64  `json:"original_price,omitempty"`
	DiscountPercent int      `json:"discount_percent,omitempty"`
	Rating          float64  `json:"rating"`
	Reviews         int      `json:"reviews"`
	Stock           int      `json:"stock"`
	InStock         bool     `json:"in_stock"`
	Category        string   `json:"category"`
	Images          []string `json:"images,omitempty"`
	Brand           string   `json:"brand,omitempty"`
	Material        string   `json:"material,omitempty"`
	Colors          []string `json:"colors,omitempty"`
	Warranty        string   `json:"warranty,omitempty"`
	Dimensions      string   `json:"dimensions,omitempty"`
}

func toProductResponse(p domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		FormattedPrice: money.Format(p.Price),
		OriginalPrice:  p.OriginalPrice,
		Rating:         p.Rating,
		Reviews:        p.Reviews,
		Stock:          p.Stock,
		InStock:        p.InStock(),
		Category:       p.Category,
		Images:         p.Images,
		Brand:          p.Brand,
		Material:       p.Material,
		Colors:         p.Colors,
		Warranty:       p.Warranty,
		Dimensions:     p.Dimensions,
	}
	if money.HasDiscount(p.OriginalPrice, p.Price) {
		resp.DiscountPercent = money.DiscountPercent(p.OriginalPrice, p.Price)
	}
	return resp
}

func toProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// List handles GET /api/v1/products with an optional category filter.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if category := r.URL.Query().Get("category"); category != "" {
		products = h.service.GetByCategory(r.Context(), category)
	} else {
		products = h.service.GetAll(r.Context())
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductResponses(products)})
}

// Search handles GET /api/v1/products/search?q=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	products := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductResponses(products)})
}

// Categories handles GET /api/v1/products/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories := h.service.Categories(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: categories})
}

// Featured handles GET /api/v1/products/featured
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	products := h.service.GetFeatured(r.Context())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductResponses(products)})
}

// Get handles GET /api/v1/products/{id}
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseIntID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductResponse(*product)})
}

// Related handles GET /api/v1/products/{id}/related?limit=
func (h *CatalogHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseIntID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	limit := service.DefaultRelatedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	related := h.service.GetRelated(r.Context(), product.ID, product.Category, limit)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toProductResponses(related)})
}
