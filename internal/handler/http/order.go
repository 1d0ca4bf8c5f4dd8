package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/httputil"
	"github.com/apper-canvas/realmquickcart/pkg/money"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	service *service.OrderService
	logger  *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(svc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateOrderRequest is the JSON request body for placing an order. An empty
// body (or empty items) places the order from the user's current cart.
type CreateOrderRequest struct {
	Items  []domain.CartItem `json:"items"`
	Status string            `json:"status"`
}

// OrderResponse augments an order with the display price breakdown.
type OrderResponse struct {
	domain.Order
	Subtotal       float64 `json:"subtotal"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	FormattedTotal string  `json:"formatted_total"`
}

func toOrderResponse(o domain.Order) OrderResponse {
	total := money.TotalWithTax(o.TotalAmount)
	return OrderResponse{
		Order:          o,
		Subtotal:       o.TotalAmount,
		Tax:            money.Tax(o.TotalAmount),
		Total:          total,
		FormattedTotal: money.Format(total),
	}
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	var (
		order *domain.Order
		err   error
	)
	if len(req.Items) == 0 {
		order, err = h.service.Checkout(r.Context(), userID(r))
	} else {
		var subtotal float64
		for _, item := range req.Items {
			subtotal += item.Price * float64(item.Quantity)
		}
		order, err = h.service.Create(r.Context(), userID(r), &domain.Order{
			Items:       req.Items,
			TotalAmount: subtotal,
			Status:      domain.OrderStatus(req.Status),
		})
	}
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: toOrderResponse(*order)})
}

// List handles GET /api/v1/orders
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders := h.service.ListByUser(r.Context(), userID(r))
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: out})
}

// Get handles GET /api/v1/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseIntID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: toOrderResponse(*order)})
}
