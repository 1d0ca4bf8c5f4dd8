package domain

import "time"

// Cart represents a user's shopping cart.
type Cart struct {
	UserID    string     `json:"user_id"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem is one cart line keyed by product ID. Price, name, and image are
// snapshots taken at add time, not live-linked to the product record.
type CartItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Total returns the sum of price times quantity across all items.
// An empty cart totals 0.
func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount returns the sum of quantities, not the line count.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// FindItemIndex returns the index of the line matching productID, or -1.
func (c *Cart) FindItemIndex(productID int) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem merges quantity into an existing line for the product, or appends
// a new line snapshotting the product's price, name, and first image.
func (c *Cart) AddItem(product Product, quantity int) {
	if idx := c.FindItemIndex(product.ID); idx >= 0 {
		c.Items[idx].Quantity += quantity
		return
	}
	item := CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity for the product's line. Zero or negative
// removes the line. Absent product IDs are left untouched.
func (c *Cart) UpdateQuantity(productID, quantity int) {
	idx := c.FindItemIndex(productID)
	if idx < 0 {
		return
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		return
	}
	c.Items[idx].Quantity = quantity
}

// RemoveItem deletes the line matching productID if present.
func (c *Cart) RemoveItem(productID int) {
	if idx := c.FindItemIndex(productID); idx >= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}
