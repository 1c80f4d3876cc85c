package domain

import "github.com/shopspring/decimal"

// Product is the catalog entry handed to the cart when the user adds an item.
// The catalog itself is owned by the backend; only the fields the cart
// snapshots are carried here.
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// CartItem is one line of the cart. At most one CartItem exists per product id.
type CartItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// LineTotal is the item contribution to the cart total.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
