// Package orders handles order placement: the CSRF-protected place-order
// submission and the record of placed orders.
package orders

import "time"

// Order is a placed order. Product name and price are copied at placement
// time so the record stays meaningful if the catalog changes.
type Order struct {
	ID          string
	UserID      string
	ProductID   int
	ProductName string
	PriceCents  int64
	PlacedAt    time.Time
}

// PlaceOrderRequest holds the place-order form submission. product_id is
// bound as a string so a malformed value can be reported as a bad request
// rather than a bind failure.
type PlaceOrderRequest struct {
	ProductID string `form:"product_id"`
}
