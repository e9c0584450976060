package orderitem

import (
	"time"
)

// OrderItem represents an item within an order. The price is a snapshot
// taken at order time, not a live catalog lookup.
type OrderItem struct {
	ID         int64     `json:"id"`
	OrderID    string    `json:"orderId"`
	ProductID  int64     `json:"productId"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"priceCents"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
