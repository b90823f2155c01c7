package products

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/corepath-impact/storefront-client/pkg/pagination"
)

// ListOptions are the browse/search parameters for product listings.
type ListOptions struct {
	Page       int
	PerPage    int
	Query      string
	CategoryID *int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	IsFeatured *bool
	IsDigital  *bool
	InStock    *bool
	SortBy     string
	SortOrder  string
	Tags       []string
}

// normalize fills paging and sort defaults without touching set values.
func (o ListOptions) normalize() ListOptions {
	params := pagination.Params{Page: o.Page, PerPage: o.PerPage}.Normalize()
	o.Page = params.Page
	o.PerPage = params.PerPage
	if o.SortBy == "" {
		o.SortBy = "created_at"
	}
	if o.SortOrder == "" {
		o.SortOrder = "desc"
	}
	return o
}

// values encodes the options as query parameters. The encoding doubles as
// the cache key: identical parameter sets share one entry.
func (o ListOptions) values() url.Values {
	o = o.normalize()
	query := url.Values{}
	query.Set("page", strconv.Itoa(o.Page))
	query.Set("per_page", strconv.Itoa(o.PerPage))
	if o.Query != "" {
		query.Set("q", o.Query)
	}
	if o.CategoryID != nil {
		query.Set("category_id", strconv.FormatInt(*o.CategoryID, 10))
	}
	if o.MinPrice != nil {
		query.Set("min_price", o.MinPrice.String())
	}
	if o.MaxPrice != nil {
		query.Set("max_price", o.MaxPrice.String())
	}
	if o.IsFeatured != nil {
		query.Set("is_featured", strconv.FormatBool(*o.IsFeatured))
	}
	if o.IsDigital != nil {
		query.Set("is_digital", strconv.FormatBool(*o.IsDigital))
	}
	if o.InStock != nil {
		query.Set("in_stock", strconv.FormatBool(*o.InStock))
	}
	query.Set("sort_by", o.SortBy)
	query.Set("sort_order", o.SortOrder)
	if len(o.Tags) > 0 {
		query.Set("tags", strings.Join(o.Tags, ","))
	}
	return query
}

// CategoryOptions tune the category tree listing.
type CategoryOptions struct {
	ParentID        *int64
	IsActive        *bool
	IncludeChildren bool
}

func (o CategoryOptions) values() url.Values {
	query := url.Values{}
	if o.ParentID != nil {
		query.Set("parent_id", strconv.FormatInt(*o.ParentID, 10))
	}
	active := true
	if o.IsActive != nil {
		active = *o.IsActive
	}
	query.Set("is_active", strconv.FormatBool(active))
	query.Set("include_children", strconv.FormatBool(o.IncludeChildren))
	return query
}
