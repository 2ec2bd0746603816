// Package products serves the product catalog: a read-only product
// repository and the product listing page, where each product carries its
// own CSRF-protected order form.
package products

import (
	"fmt"
)

// Product is an item in the catalog.
type Product struct {
	ID         int
	Name       string
	PriceCents int64
	// Image is a file name under the images directory. It is echoed back by
	// clients as a query parameter and is untrusted from then on.
	Image string
}

// Price formats the price in dollars, dropping zero cents: "50", "5.25".
func (p Product) Price() string {
	dollars, cents := p.PriceCents/100, p.PriceCents%100
	if cents == 0 {
		return fmt.Sprintf("%d", dollars)
	}
	return fmt.Sprintf("%d.%02d", dollars, cents)
}

// DefaultProducts returns the built-in catalog.
func DefaultProducts() []Product {
	return []Product{
		{ID: 1, Name: "Shoes", PriceCents: 5000, Image: "shoes.jpg"},
		{ID: 2, Name: "Apple", PriceCents: 500, Image: "apple.png"},
		{ID: 3, Name: "Hat", PriceCents: 1500, Image: "hat.jpg"},
	}
}
