package client

import (
	"errors"

	"storefront/internal/models"
)

// Line is one cart entry. Price is a snapshot taken when the product was
// added, not re-read from the catalog.
type Line struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

var ErrLineNotFound = errors.New("cart line not found")

// Cart is the client-resident cart. Every mutation persists the whole cart
// so it survives restarts.
type Cart struct {
	lines   []Line
	storage *Storage
}

// NewCart loads any previously persisted cart from storage.
func NewCart(storage *Storage) (*Cart, error) {
	c := &Cart{storage: storage}
	err := storage.Get(KeyCart, &c.lines)
	if err != nil && !errors.Is(err, ErrNoValue) {
		return nil, err
	}
	return c, nil
}

func (c *Cart) save() error {
	return c.storage.Set(KeyCart, c.lines)
}

// Add merges qty into an existing line for the product or appends a new
// line. qty below 1 is treated as 1.
func (c *Cart) Add(product *models.Product, qty int) error {
	if qty < 1 {
		qty = 1
	}

	for i := range c.lines {
		if c.lines[i].ProductID == product.ID {
			c.lines[i].Quantity += qty
			return c.save()
		}
	}

	c.lines = append(c.lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  qty,
	})
	return c.save()
}

// SetQuantity updates a line's quantity, clamped to a minimum of 1.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			if qty < 1 {
				qty = 1
			}
			c.lines[i].Quantity = qty
			return c.save()
		}
	}
	return ErrLineNotFound
}

// Remove drops a line entirely.
func (c *Cart) Remove(productID int64) error {
	kept := c.lines[:0]
	for _, line := range c.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	c.lines = kept
	return c.save()
}

// Clear empties the cart and persists the empty state.
func (c *Cart) Clear() error {
	c.lines = nil
	return c.save()
}

// Lines returns a copy of the cart's lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Subtotal is the sum of price times quantity across all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, line := range c.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}
