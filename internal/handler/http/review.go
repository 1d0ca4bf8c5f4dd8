package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/service"
	"github.com/apper-canvas/realmquickcart/pkg/httputil"
	"github.com/apper-canvas/realmquickcart/pkg/validator"
)

// ReviewHandler handles HTTP requests for product review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateReviewRequest is the JSON request body for submitting a review.
type CreateReviewRequest struct {
	CustomerName string `json:"customer_name" validate:"required,min=1,max=200"`
	Rating       int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title        string `json:"title" validate:"max=300"`
	Comment      string `json:"comment" validate:"required"`
}

// ReviewListResponse carries a product's reviews newest first together with
// the aggregate summary shown next to them.
type ReviewListResponse struct {
	Reviews []domain.Review       `json:"reviews"`
	Summary service.ReviewSummary `json:"summary"`
}

// ListByProduct handles GET /api/v1/products/{id}/reviews
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseIntID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	reviews := h.service.ListByProduct(r.Context(), productID)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: ReviewListResponse{
		Reviews: reviews,
		Summary: service.SummarizeReviews(reviews),
	}})
}

// Create handles POST /api/v1/products/{id}/reviews
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, ok := httputil.ParseIntID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.Create(r.Context(), service.CreateReviewInput{
		ProductID:    productID,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Title:        req.Title,
		Comment:      req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: review})
}
