package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/event"
	"github.com/apper-canvas/realmquickcart/internal/repository"
	apperrors "github.com/apper-canvas/realmquickcart/pkg/errors"
	"github.com/apper-canvas/realmquickcart/pkg/validator"
)

// CreateReviewInput holds the parameters for submitting a review.
type CreateReviewInput struct {
	ProductID    int    `json:"product_id" validate:"required"`
	CustomerName string `json:"customer_name" validate:"required"`
	Rating       int    `json:"rating" validate:"required,gte=1,lte=5"`
	Title        string `json:"title"`
	Comment      string `json:"comment" validate:"required"`
}

// ReviewSummary aggregates the reviews of one product.
type ReviewSummary struct {
	AverageRating float64             `json:"average_rating"`
	TotalReviews  int                 `json:"total_reviews"`
	Distribution  []domain.StarBucket `json:"distribution"`
}

// ReviewService lists and appends product reviews.
type ReviewService struct {
	reviews  repository.ReviewRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviews repository.ReviewRepository, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		reviews:  reviews,
		producer: producer,
		logger:   logger,
	}
}

// ListByProduct returns a product's reviews, newest first. Backend
// failures degrade to an empty list.
func (s *ReviewService) ListByProduct(ctx context.Context, productID int) []domain.Review {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		s.logger.ErrorContext(ctx, "list reviews failed, returning empty list",
			slog.Int("product_id", productID),
			slog.String("error", err.Error()),
		)
		return []domain.Review{}
	}
	domain.SortReviewsByDateDesc(reviews)
	return reviews
}

// Summarize computes the average rating and star distribution for a
// product's reviews.
func (s *ReviewService) Summarize(ctx context.Context, productID int) ReviewSummary {
	return SummarizeReviews(s.ListByProduct(ctx, productID))
}

// SummarizeReviews aggregates an already-fetched review list.
func SummarizeReviews(reviews []domain.Review) ReviewSummary {
	return ReviewSummary{
		AverageRating: domain.AverageRating(reviews),
		TotalReviews:  len(reviews),
		Distribution:  domain.StarDistribution(reviews),
	}
}

// Create validates and appends a review. The server assigns the id,
// timestamp, zero helpful count, and the verified flag.
func (s *ReviewService) Create(ctx context.Context, input CreateReviewInput) (*domain.Review, error) {
	if err := validator.Validate(input); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	rating := float64(input.Rating)
	review := &domain.Review{
		ProductID:    input.ProductID,
		CustomerName: input.CustomerName,
		Rating:       &rating,
		Title:        input.Title,
		Comment:      input.Comment,
		Date:         time.Now().UTC(),
		Helpful:      0,
		Verified:     true,
	}

	created, err := s.reviews.Create(ctx, review)
	if err != nil {
		return nil, apperrors.OperationFailed("submit review", err)
	}

	if err := s.producer.PublishReviewCreated(ctx, created); err != nil {
		s.logger.WarnContext(ctx, "failed to publish review.created event",
			slog.Int("review_id", created.ID),
			slog.String("error", err.Error()),
		)
	}
	return created, nil
}
