package types

import "github.com/shopspring/decimal"

// CartItem references a product by id. The cart is keyed by productId: at
// most one entry per product, quantity always >= 1.
type CartItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CartSummary is the computed total the cart page consumes.
type CartSummary struct {
	ItemCount    int             `json:"itemCount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	FreeShipping bool            `json:"freeShipping"`
}
