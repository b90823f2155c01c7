package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a single cart line. TotalPrice is derived: UnitPrice x Quantity.
// Optimistic lines carry a negative client-generated ID until the next
// authoritative refetch replaces them.
type CartItem struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductSlug  string          `json:"product_slug"`
	ProductImage string          `json:"product_image,omitempty"`
	VariantID    *int64          `json:"variant_id,omitempty"`
	VariantName  string          `json:"variant_name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	IsAvailable  bool            `json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Cart is the authoritative cart snapshot. Subtotal and ItemCount are always
// recomputed from the lines, never trusted incrementally.
type Cart struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Items     []CartItem      `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Recompute rebuilds Subtotal and ItemCount from the line items.
func (c *Cart) Recompute() {
	subtotal := decimal.Zero
	count := 0
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.TotalPrice)
		count += item.Quantity
	}
	c.Subtotal = subtotal
	c.ItemCount = count
}

// Clone returns a deep copy safe to mutate without touching the receiver.
func (c Cart) Clone() Cart {
	out := c
	out.Items = make([]CartItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}

// CartItemAdd is the add-to-cart payload.
type CartItemAdd struct {
	ProductID int64  `json:"product_id" validate:"required"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CartItemUpdate changes a line quantity; zero removes the line.
type CartItemUpdate struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// CartCount is the lightweight badge payload.
type CartCount struct {
	ItemCount  int `json:"item_count"`
	TotalItems int `json:"total_items"`
}

// CartValidation is the pre-checkout validity report.
type CartValidation struct {
	IsValid     bool            `json:"is_valid"`
	Errors      []string        `json:"errors"`
	Warnings    []string        `json:"warnings"`
	CartSummary CheckoutSummary `json:"cart_summary"`
}

// CartSyncResult reports server-side re-pricing of the cart lines.
type CartSyncResult struct {
	Message      string `json:"message"`
	UpdatedItems int    `json:"updated_items"`
	Success      bool   `json:"success"`
}

// Address is a shipping or billing address.
type Address struct {
	Line1      string `json:"line_1" validate:"required"`
	Line2      string `json:"line_2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// ShippingRate is one delivery option with cost and lead time.
type ShippingRate struct {
	Method        string          `json:"method"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Cost          decimal.Decimal `json:"cost"`
	EstimatedDays int             `json:"estimated_days"`
}

// CheckoutSummary is the priced view of the cart used at checkout.
type CheckoutSummary struct {
	Items                    []CartItem      `json:"items"`
	Subtotal                 decimal.Decimal `json:"subtotal"`
	TaxAmount                decimal.Decimal `json:"tax_amount"`
	ShippingAmount           decimal.Decimal `json:"shipping_amount"`
	DiscountAmount           decimal.Decimal `json:"discount_amount"`
	PointsDiscount           decimal.Decimal `json:"points_discount"`
	TotalAmount              decimal.Decimal `json:"total_amount"`
	AvailableShippingMethods []ShippingRate  `json:"available_shipping_methods"`
	PointsAvailable          int             `json:"points_available"`
	PointsValue              decimal.Decimal `json:"points_value"`
}
