// Package record implements the repository interfaces on the generic
// record store. Backend field names carry a _c suffix (price_c); this
// package owns the translation to domain fields, including splitting
// multi-valued text fields on line breaks or commas and JSON-encoding
// nested item arrays. Nothing above this layer sees a suffixed name.
package record

import (
	"strings"
	"time"
)

// Backend table names.
const (
	TableProducts      = "product_c"
	TableReviews       = "review_c"
	TableOrders        = "order_c"
	TableCarts         = "cart_c"
	TableWishlistItems = "wishlist_item_c"
)

// splitMultiValue parses a backend text field holding several values,
// one per line or comma-separated. Blank entries are dropped.
func splitMultiValue(s string) []string {
	if s == "" {
		return nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if v := strings.TrimSpace(f); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// joinMultiValue is the inverse of splitMultiValue, newline-separated.
func joinMultiValue(values []string) string {
	return strings.Join(values, "\n")
}

// parseTime decodes a backend timestamp field. Returns the zero time on
// malformed input rather than failing the whole record.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
