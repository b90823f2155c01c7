package types

import (
	"time"

	"github.com/corepath-impact/storefront-client/pkg/enums"
	"github.com/shopspring/decimal"
)

// Category is a catalog grouping; Children is populated only when the
// caller asks for the tree.
type Category struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	ParentID    *int64     `json:"parent_id,omitempty"`
	Icon        string     `json:"icon,omitempty"`
	SortOrder   int        `json:"sort_order"`
	IsActive    bool       `json:"is_active"`
	Children    []Category `json:"children,omitempty"`
}

// Product is the catalog list shape.
type Product struct {
	ID                 int64               `json:"id"`
	Name               string              `json:"name"`
	Slug               string              `json:"slug"`
	ShortDescription   string              `json:"short_description,omitempty"`
	Description        string              `json:"description,omitempty"`
	Price              decimal.Decimal     `json:"price"`
	CompareAtPrice     *decimal.Decimal    `json:"compare_at_price,omitempty"`
	DiscountPercentage *decimal.Decimal    `json:"discount_percentage,omitempty"`
	Status             enums.ProductStatus `json:"status"`
	IsFeatured         bool                `json:"is_featured"`
	IsInStock          bool                `json:"is_in_stock"`
	PrimaryImage       string              `json:"primary_image,omitempty"`
	CategoryName       string              `json:"category_name"`
	ViewCount          int                 `json:"view_count"`
	PurchaseCount      int                 `json:"purchase_count"`
	CreatedAt          time.Time           `json:"created_at"`
}

// ProductDetail is the full product record behind the detail endpoints.
type ProductDetail struct {
	Product

	SKU             string           `json:"sku,omitempty"`
	InventoryCount  int              `json:"inventory_count"`
	TrackInventory  bool             `json:"track_inventory"`
	AllowBackorder  bool             `json:"allow_backorder"`
	IsDigital       bool             `json:"is_digital"`
	Weight          *decimal.Decimal `json:"weight,omitempty"`
	Tags            []string         `json:"tags,omitempty"`
	Images          []ProductImage   `json:"images"`
	Variants        []ProductVariant `json:"variants"`
	Category        Category         `json:"category"`
	MetaTitle       string           `json:"meta_title,omitempty"`
	MetaDescription string           `json:"meta_description,omitempty"`
}

// ProductImage is a gallery entry for a product.
type ProductImage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	AltText   string `json:"alt_text,omitempty"`
	Caption   string `json:"caption,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	SortOrder int    `json:"sort_order"`
}

// ProductVariant is a purchasable variation of a product.
type ProductVariant struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	SKU            string            `json:"sku,omitempty"`
	Price          *decimal.Decimal  `json:"price,omitempty"`
	InventoryCount int               `json:"inventory_count"`
	IsActive       bool              `json:"is_active"`
	IsInStock      bool              `json:"is_in_stock"`
	Attributes     map[string]string `json:"attributes,omitempty"`
}

// ProductAvailability summarizes purchasability for a product or variant.
type ProductAvailability struct {
	InStock           bool `json:"in_stock"`
	QuantityAvailable int  `json:"quantity_available"`
	CanBackorder      bool `json:"can_backorder"`
}
