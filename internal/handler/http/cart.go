package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/httputil"
	"github.com/apper-canvas/realmquickcart/pkg/money"
	"github.com/apper-canvas/realmquickcart/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding a product to the cart.
type AddItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for updating a line quantity.
// Zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartSummary is the checkout-time display breakdown of the cart.
type CartSummary struct {
	ItemCount      int     `json:"item_count"`
	Subtotal       float64 `json:"subtotal"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	FormattedTotal string  `json:"formatted_total"`
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), userID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// Summary handles GET /api/v1/cart/summary
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	cart, err := h.service.Get(r.Context(), userID(r))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	subtotal := cart.Total()
	total := money.TotalWithTax(subtotal)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: CartSummary{
		ItemCount:      cart.ItemCount(),
		Subtotal:       subtotal,
		Tax:            money.Tax(subtotal),
		Total:          total,
		FormattedTotal: money.Format(total),
	}})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items, err := h.service.AddItem(r.Context(), userID(r), service.AddItemInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseIntID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	items, err := h.service.UpdateQuantity(r.Context(), userID(r), productID, req.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseIntID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	items, err := h.service.RemoveItem(r.Context(), userID(r), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), userID(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"cleared": true}})
}
