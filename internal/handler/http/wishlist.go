package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/httputil"
	"github.com/apper-canvas/realmquickcart/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	service *service.WishlistService
	logger  *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(svc *service.WishlistService, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		service: svc,
		logger:  logger,
	}
}

// AddWishlistItemRequest is the JSON request body for saving a product.
type AddWishlistItemRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
}

// List handles GET /api/v1/wishlist
func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.service.List(r.Context(), userID(r))
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: items})
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddWishlistItemRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Add(r.Context(), userID(r), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{productId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseIntID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	result, err := h.service.Remove(r.Context(), userID(r), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ToggleItem handles POST /api/v1/wishlist/items/{productId}/toggle
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseIntID(w, chi.URLParam(r, "productId"))
	if !ok {
		return
	}

	result, err := h.service.Toggle(r.Context(), userID(r), productID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// Clear handles DELETE /api/v1/wishlist
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), userID(r)); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"cleared": true}})
}
