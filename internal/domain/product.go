package domain

import (
	"sort"
	"strings"
)

// Product represents a catalog product as exposed to the storefront.
type Product struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Stock         int      `json:"stock"`
	Category      string   `json:"category"`
	Images        []string `json:"images"`
	Brand         string   `json:"brand,omitempty"`
	Material      string   `json:"material,omitempty"`
	Colors        []string `json:"colors,omitempty"`
	Warranty      string   `json:"warranty,omitempty"`
	Dimensions    string   `json:"dimensions,omitempty"`
}

// InStock reports whether the product has remaining stock.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// FilterByCategory returns products whose category matches, case-insensitively.
func FilterByCategory(products []Product, category string) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// SearchProducts returns products whose name, category, or description
// contains the query, case-insensitively.
func SearchProducts(products []Product, query string) []Product {
	q := strings.ToLower(query)
	out := make([]Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// RelatedProducts returns up to limit products sharing the given category,
// excluding productID itself, ordered by rating descending with ties broken
// by review count descending.
func RelatedProducts(products []Product, productID int, category string, limit int) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.ID == productID {
			continue
		}
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].Reviews > out[j].Reviews
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Categories returns the distinct category values, each exactly once,
// in first-seen order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0)
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

const (
	featuredMinRating = 4.7
	featuredLimit     = 6
)

// FeaturedProducts returns products rated at or above 4.7, ordered by
// review count descending, limited to 6.
func FeaturedProducts(products []Product) []Product {
	out := make([]Product, 0)
	for _, p := range products {
		if p.Rating >= featuredMinRating {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Reviews > out[j].Reviews
	})
	if len(out) > featuredLimit {
		out = out[:featuredLimit]
	}
	return out
}
