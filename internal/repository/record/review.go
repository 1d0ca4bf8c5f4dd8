package record

import (
	"context"
	"fmt"
	"strconv"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/recordstore"
)

// ReviewRepository persists reviews in the record store.
type ReviewRepository struct {
	store recordstore.Store
}

// NewReviewRepository creates a record-store-backed review repository.
func NewReviewRepository(store recordstore.Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

// ListByProduct retrieves all reviews for a product.
func (r *ReviewRepository) ListByProduct(ctx context.Context, productID int) ([]domain.Review, error) {
	recs, err := r.store.Fetch(ctx, TableReviews, recordstore.Query{
		Where: []recordstore.Filter{{
			FieldName: "product_id_c",
			Operator:  recordstore.OpEqualTo,
			Values:    []string{strconv.Itoa(productID)},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	reviews := make([]domain.Review, 0, len(recs))
	for _, rec := range recs {
		reviews = append(reviews, reviewFromRecord(rec))
	}
	return reviews, nil
}

// Create appends a review and returns it with its store-assigned id.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	created, err := r.store.Create(ctx, TableReviews, []recordstore.Record{
		reviewToRecord(review),
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	out := reviewFromRecord(created[0])
	return &out, nil
}

func reviewFromRecord(rec recordstore.Record) domain.Review {
	review := domain.Review{
		ID:           rec.ID(),
		ProductID:    rec.Int("product_id_c"),
		CustomerName: rec.String("customer_name_c"),
		Title:        rec.String("title_c"),
		Comment:      rec.String("comment_c"),
		Date:         parseTime(rec.String("date_c")),
		Helpful:      rec.Int("helpful_c"),
	}
	if rating, ok := rec.Float("rating_c"); ok {
		review.Rating = &rating
	}
	if v, ok := rec["verified_c"].(bool); ok {
		review.Verified = v
	}
	return review
}

func reviewToRecord(review *domain.Review) recordstore.Record {
	rec := recordstore.Record{
		"product_id_c":    review.ProductID,
		"customer_name_c": review.CustomerName,
		"title_c":         review.Title,
		"comment_c":       review.Comment,
		"date_c":          formatTime(review.Date),
		"helpful_c":       review.Helpful,
		"verified_c":      review.Verified,
	}
	if review.Rating != nil {
		rec["rating_c"] = *review.Rating
	}
	return rec
}
