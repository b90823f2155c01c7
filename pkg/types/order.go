package types

import (
	"time"

	"github.com/corepath-impact/storefront-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderItem is an immutable snapshot of a purchased line.
type OrderItem struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku,omitempty"`
	VariantID   *int64          `json:"variant_id,omitempty"`
	VariantName string          `json:"variant_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderItemCreate references a product when placing an order.
type OrderItemCreate struct {
	ProductID int64  `json:"product_id" validate:"required"`
	VariantID *int64 `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// Order is the list shape for order history.
type Order struct {
	ID            int64               `json:"id"`
	OrderNumber   string              `json:"order_number"`
	Status        enums.OrderStatus   `json:"status"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	ItemCount     int                 `json:"item_count"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Currency      string              `json:"currency"`
	IsPaid        bool                `json:"is_paid"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderDetail is the full order record.
type OrderDetail struct {
	Order

	Items           []OrderItem     `json:"items"`
	ShippingAddress Address         `json:"shipping_address"`
	BillingAddress  Address         `json:"billing_address"`
	ShippingMethod  string          `json:"shipping_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	ShippingAmount  decimal.Decimal `json:"shipping_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	PointsDiscount  decimal.Decimal `json:"points_discount"`
	Notes           string          `json:"notes,omitempty"`
	IsGift          bool            `json:"is_gift"`
	GiftMessage     string          `json:"gift_message,omitempty"`
	TrackingNumber  string          `json:"tracking_number,omitempty"`
}

// OrderCreate places an order from the current cart contents.
type OrderCreate struct {
	Items           []OrderItemCreate `json:"items" validate:"required,min=1,dive"`
	ShippingAddress Address           `json:"shipping_address" validate:"required"`
	BillingAddress  *Address          `json:"billing_address,omitempty"`
	ShippingMethod  string            `json:"shipping_method" validate:"required"`
	PaymentMethod   string            `json:"payment_method" validate:"required"`
	UsePoints       int               `json:"use_points,omitempty"`
	CouponCode      string            `json:"coupon_code,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	IsGift          bool              `json:"is_gift,omitempty"`
	GiftMessage     string            `json:"gift_message,omitempty"`
}

// PaymentCreate records a payment attempt against an order.
type PaymentCreate struct {
	OrderID       int64            `json:"order_id" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
}

// PaymentIntent is the client-side handle for completing payment.
type PaymentIntent struct {
	ClientSecret       string          `json:"client_secret"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	PaymentMethodTypes []string        `json:"payment_method_types"`
}
