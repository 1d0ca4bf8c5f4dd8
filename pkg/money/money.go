// Package money holds the storefront's display-price arithmetic: USD
// formatting, discount percentages, and the checkout tax computation.
package money

import (
	"fmt"
	"math"
	"strings"
)

// TaxRate is the flat sales tax applied to order subtotals at display time.
// Order records store the subtotal only; tax is always recomputed from the
// current rate wherever a total is shown.
const TaxRate = 0.08

// Format renders a price as an en-US USD currency string, e.g. 1234.5 ->
// "$1,234.50".
func Format(price float64) string {
	neg := price < 0 || math.Signbit(price)
	abs := math.Abs(price)

	// Round to cents first so 9.999 renders as $10.00, not $9.100.
	cents := int64(math.Round(abs * 100))
	dollars := cents / 100
	remainder := cents % 100

	grouped := groupThousands(dollars)
	s := fmt.Sprintf("$%s.%02d", grouped, remainder)
	if neg && cents != 0 {
		s = "-" + s
	}
	return s
}

// groupThousands inserts commas into a non-negative integer, e.g. 1234567 ->
// "1,234,567".
func groupThousands(n int64) string {
	digits := fmt.Sprintf("%d", n)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// HasDiscount reports whether a product carries a valid strike-through price.
func HasDiscount(originalPrice, price float64) bool {
	return originalPrice > 0 && originalPrice > price
}

// DiscountPercent returns the discount as a percentage of the original price,
// rounded to the nearest integer. This is the product-card computation.
// Returns 0 when there is no valid discount.
func DiscountPercent(originalPrice, price float64) int {
	if !HasDiscount(originalPrice, price) {
		return 0
	}
	return int(math.Round((originalPrice - price) / originalPrice * 100))
}

// DiscountPercentOfPrice returns the discount as a percentage of the current
// price, rounded to the nearest integer. The wishlist page computes its badge
// this way; the two computations are deliberately kept separate rather than
// unified.
func DiscountPercentOfPrice(originalPrice, price float64) int {
	if !HasDiscount(originalPrice, price) || price == 0 {
		return 0
	}
	return int(math.Round((originalPrice - price) / price * 100))
}

// Tax returns the sales tax owed on a subtotal.
func Tax(subtotal float64) float64 {
	return subtotal * TaxRate
}

// TotalWithTax returns the display total for a subtotal: subtotal plus tax.
func TotalWithTax(subtotal float64) float64 {
	return subtotal + Tax(subtotal)
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(rating float64) float64 {
	return math.Round(rating*10) / 10
}
