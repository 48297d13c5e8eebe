package models

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is a pre-purchase line item. UnitPrice is snapshotted when the
// item is added; Subtotal is always Quantity * UnitPrice, recomputed by the
// server and never trusted from client input.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	Subtotal  float64   `json:"subtotal"`
}

// Cart is the mutable pre-purchase aggregate. Ownership lives in the storage
// key (see Identity.Key), not in the payload.
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Recalculate recomputes every subtotal and the cart total from quantities
// and unit prices.
func (c *Cart) Recalculate() {
	total := 0.0
	for i := range c.Items {
		c.Items[i].Subtotal = float64(c.Items[i].Quantity) * c.Items[i].UnitPrice
		total += c.Items[i].Subtotal
	}
	c.Total = total
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
