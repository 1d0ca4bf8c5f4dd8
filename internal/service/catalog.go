package service

import (
	"context"
	"log/slog"

	"github.com/apper-canvas/realmquickcart/internal/domain"
	"github.com/apper-canvas/realmquickcart/internal/repository"
)

// DefaultRelatedLimit is the number of related products returned when the
// caller does not specify one.
const DefaultRelatedLimit = 4

// CatalogService answers product catalog queries. Every query is an
// in-memory filter over the full product list, which is cached between
// record store fetches. List reads degrade to empty results on backend
// failure; lookups by id propagate their error.
type CatalogService struct {
	products repository.ProductRepository
	cache    repository.CatalogCache
	logger   *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(products repository.ProductRepository, cache repository.CatalogCache, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		logger:   logger,
	}
}

// GetAll returns every product.
func (s *CatalogService) GetAll(ctx context.Context) []domain.Product {
	return s.list(ctx)
}

// GetByID returns one product, or a not-found error.
func (s *CatalogService) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}

// GetByCategory returns products matching the category, case-insensitively.
func (s *CatalogService) GetByCategory(ctx context.Context, category string) []domain.Product {
	return domain.FilterByCategory(s.list(ctx), category)
}

// Search returns products whose name, category, or description contains
// the query, case-insensitively.
func (s *CatalogService) Search(ctx context.Context, query string) []domain.Product {
	return domain.SearchProducts(s.list(ctx), query)
}

// GetRelated returns products sharing the category, excluding the product
// itself, ranked by rating then review count.
func (s *CatalogService) GetRelated(ctx context.Context, productID int, category string, limit int) []domain.Product {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	return domain.RelatedProducts(s.list(ctx), productID, category, limit)
}

// Categories returns the distinct category values.
func (s *CatalogService) Categories(ctx context.Context) []string {
	return domain.Categories(s.list(ctx))
}

// GetFeatured returns the highest rated products by review count.
func (s *CatalogService) GetFeatured(ctx context.Context) []domain.Product {
	return domain.FeaturedProducts(s.list(ctx))
}

// list returns the full product list, cache-aside. Cache failures fall
// through to the record store; record store failures degrade to empty.
func (s *CatalogService) list(ctx context.Context) []domain.Product {
	cached, hit, err := s.cache.GetProducts(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "catalog cache read failed",
			slog.String("error", err.Error()),
		)
	} else if hit {
		return cached
	}

	products, err := s.products.GetAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "fetch products failed, returning empty catalog",
			slog.String("error", err.Error()),
		)
		return []domain.Product{}
	}

	if err := s.cache.SetProducts(ctx, products); err != nil {
		s.logger.WarnContext(ctx, "catalog cache write failed",
			slog.String("error", err.Error()),
		)
	}
	return products
}
