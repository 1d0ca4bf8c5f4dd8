package record

import (
	"context"
	"fmt"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/recordstore"
)

// ProductRepository reads the catalog from the record store.
type ProductRepository struct {
	store recordstore.Store
}

// NewProductRepository creates a record-store-backed product repository.
func NewProductRepository(store recordstore.Store) *ProductRepository {
	return &ProductRepository{store: store}
}

// GetAll retrieves every product.
func (r *ProductRepository) GetAll(ctx context.Context) ([]domain.Product, error) {
	recs, err := r.store.Fetch(ctx, TableProducts, recordstore.Query{})
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}

	products := make([]domain.Product, 0, len(recs))
	for _, rec := range recs {
		products = append(products, productFromRecord(rec))
	}
	return products, nil
}

// GetByID retrieves one product.
func (r *ProductRepository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	rec, err := r.store.GetByID(ctx, TableProducts, id)
	if err != nil {
		return nil, err
	}
	p := productFromRecord(rec)
	return &p, nil
}

func productFromRecord(rec recordstore.Record) domain.Product {
	price, _ := rec.Float("price_c")
	originalPrice, _ := rec.Float("original_price_c")
	rating, _ := rec.Float("rating_c")

	return domain.Product{
		ID:            rec.ID(),
		Name:          rec.String("name_c"),
		Description:   rec.String("description_c"),
		Price:         price,
		OriginalPrice: originalPrice,
		Rating:        rating,
		Reviews:       rec.Int("reviews_c"),
		Stock:         rec.Int("stock_c"),
		Category:      rec.String("category_c"),
		Images:        splitMultiValue(rec.String("images_c")),
		Brand:         rec.String("brand_c"),
		Material:      rec.String("material_c"),
		Colors:        splitMultiValue(rec.String("colors_c")),
		Warranty:      rec.String("warranty_c"),
		Dimensions:    rec.String("dimensions_c"),
	}
}
