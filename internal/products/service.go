package products

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/corepath-impact/storefront-client/internal/api"
	"github.com/corepath-impact/storefront-client/internal/notify"
	"github.com/corepath-impact/storefront-client/internal/storage"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/metrics"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

// Search queries shorter than this never reach the backend.
const minSearchLength = 2

// How many of the recently viewed IDs get resolved to products.
const maxResolvedRecentlyViewed = 10

// Default recommendation list size.
const defaultRecommendationLimit = 8

// Shopper-facing messages for the local toggles.
const (
	msgLoginForFavorites  = "Please login to add favorites"
	msgLoginManageFavs    = "Please login to manage favorites"
	msgAddedToFavorites   = "Added to favorites"
	msgRemovedFromFavs    = "Removed from favorites"
	msgCompareLimit       = "You can compare up to 4 products only"
	msgAddedToComparison  = "Added to comparison"
	msgRemovedFromCompare = "Removed from comparison"
	msgComparisonCleared  = "Comparison cleared"
)

const notifyTitle = "Products"

type client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
}

type sessionReader interface {
	IsAuthenticated() bool
}

// Service is the read-side product catalog plus shopper-local toggles.
type Service interface {
	List(ctx context.Context, opts ListOptions) (*types.PaginatedResponse[types.Product], error)
	Detail(ctx context.Context, productID int64) (*types.ProductDetail, error)
	BySlug(ctx context.Context, slug string) (*types.ProductDetail, error)
	Featured(ctx context.Context, limit int) ([]types.Product, error)
	ByCategory(ctx context.Context, categoryID int64, opts ListOptions) (*types.PaginatedResponse[types.Product], error)
	Categories(ctx context.Context, opts CategoryOptions) ([]types.Category, error)
	Category(ctx context.Context, categoryID int64) (*types.Category, error)
	Search(ctx context.Context, query string, opts ListOptions) (*types.PaginatedResponse[types.Product], error)
	Recommendations(ctx context.Context, productID int64, limit int) ([]types.Product, error)
	RecentlyViewed(ctx context.Context) ([]types.Product, error)
	Favorites(ctx context.Context) ([]types.Product, error)
	CompareList(ctx context.Context) ([]types.Product, error)
	Availability(ctx context.Context, productID int64, variantID *int64) (*types.ProductAvailability, error)

	ToggleFavorite(ctx context.Context, productID int64) error
	AddFavorite(ctx context.Context, productID int64) error
	RemoveFavorite(ctx context.Context, productID int64)
	ToggleCompare(ctx context.Context, productID int64) error
	ClearCompare(ctx context.Context)
}

type service struct {
	api      client
	store    *storage.ProductsStore
	session  sessionReader
	notifier notify.Notifier
	cache    *queryCache
	log      *logger.Logger
}

type Params struct {
	API      client
	Store    *storage.ProductsStore
	Session  sessionReader
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.ClientMetrics
}

func NewService(params Params) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("products store required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		api:      params.API,
		store:    params.Store,
		session:  params.Session,
		notifier: params.Notifier,
		cache:    newQueryCache(params.Logger, params.Metrics),
		log:      params.Logger,
	}, nil
}

func (s *service) List(ctx context.Context, opts ListOptions) (*types.PaginatedResponse[types.Product], error) {
	query := opts.values()
	key := "products:list:" + query.Encode()
	return cached(ctx, s.cache, key, ttlList, func(ctx context.Context) (*types.PaginatedResponse[types.Product], error) {
		return s.fetchPage(ctx, api.EndpointProducts, query)
	})
}

func (s *service) Detail(ctx context.Context, productID int64) (*types.ProductDetail, error) {
	key := "products:detail:" + strconv.FormatInt(productID, 10)
	return cached(ctx, s.cache, key, ttlDetail, func(ctx context.Context) (*types.ProductDetail, error) {
		return s.fetchDetail(ctx, api.EndpointProductDetail(productID))
	})
}

// BySlug loads a product detail page and records the visit in the
// recently-viewed history.
func (s *service) BySlug(ctx context.Context, slug string) (*types.ProductDetail, error) {
	key := "products:slug:" + slug
	detail, err := cached(ctx, s.cache, key, ttlDetail, func(ctx context.Context) (*types.ProductDetail, error) {
		return s.fetchDetail(ctx, api.EndpointProductBySlug(slug))
	})
	if err != nil {
		return nil, err
	}
	s.store.AddRecentlyViewed(ctx, detail.ID)
	return detail, nil
}

func (s *service) Featured(ctx context.Context, limit int) ([]types.Product, error) {
	if limit <= 0 {
		limit = 8
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	key := "products:featured:" + query.Encode()
	return cached(ctx, s.cache, key, ttlFeatured, func(ctx context.Context) ([]types.Product, error) {
		var products []types.Product
		if err := s.api.Get(ctx, api.EndpointProductsFeatured, query, &products); err != nil {
			return nil, err
		}
		return products, nil
	})
}

func (s *service) ByCategory(ctx context.Context, categoryID int64, opts ListOptions) (*types.PaginatedResponse[types.Product], error) {
	query := opts.values()
	key := fmt.Sprintf("products:category:%d:%s", categoryID, query.Encode())
	return cached(ctx, s.cache, key, ttlList, func(ctx context.Context) (*types.PaginatedResponse[types.Product], error) {
		return s.fetchPage(ctx, api.EndpointProductsByCategory(categoryID), query)
	})
}

func (s *service) Categories(ctx context.Context, opts CategoryOptions) ([]types.Category, error) {
	query := opts.values()
	key := "categories:" + query.Encode()
	return cached(ctx, s.cache, key, ttlCategories, func(ctx context.Context) ([]types.Category, error) {
		var categories []types.Category
		if err := s.api.Get(ctx, api.EndpointProductsCategories, query, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	})
}

func (s *service) Category(ctx context.Context, categoryID int64) (*types.Category, error) {
	key := "categories:detail:" + strconv.FormatInt(categoryID, 10)
	return cached(ctx, s.cache, key, ttlCategories, func(ctx context.Context) (*types.Category, error) {
		var category types.Category
		if err := s.api.Get(ctx, api.EndpointProductCategory(categoryID), nil, &category); err != nil {
			return nil, err
		}
		return &category, nil
	})
}

// Search runs a product text search. Queries below the minimum length short
// circuit to an empty page without a request.
func (s *service) Search(ctx context.Context, query string, opts ListOptions) (*types.PaginatedResponse[types.Product], error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchLength {
		return emptyPage(opts), nil
	}
	opts.Query = query
	params := opts.values()
	key := "products:search:" + params.Encode()
	return cached(ctx, s.cache, key, ttlSearch, func(ctx context.Context) (*types.PaginatedResponse[types.Product], error) {
		return s.fetchPage(ctx, api.EndpointProducts, params)
	})
}

// Recommendations composes same-category products around a product, always
// excluding the product itself. The backend has no dedicated endpoint.
func (s *service) Recommendations(ctx context.Context, productID int64, limit int) ([]types.Product, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	key := fmt.Sprintf("products:recommendations:%d:%d", productID, limit)
	return cached(ctx, s.cache, key, ttlRecommendations, func(ctx context.Context) ([]types.Product, error) {
		detail, err := s.Detail(ctx, productID)
		if err != nil {
			return nil, err
		}
		if detail.Category.ID == 0 {
			return []types.Product{}, nil
		}

		// One extra so the product itself can be dropped without shrinking
		// the result.
		page, err := s.ByCategory(ctx, detail.Category.ID, ListOptions{
			PerPage:   limit + 1,
			SortBy:    "purchase_count",
			SortOrder: "desc",
		})
		if err != nil {
			return nil, err
		}

		recommendations := make([]types.Product, 0, limit)
		for _, product := range page.Items {
			if product.ID == productID {
				continue
			}
			recommendations = append(recommendations, product)
			if len(recommendations) == limit {
				break
			}
		}
		return recommendations, nil
	})
}

// RecentlyViewed resolves the locally held history to products, newest
// first. Individual lookup failures drop the entry, never the whole list.
func (s *service) RecentlyViewed(ctx context.Context) ([]types.Product, error) {
	ids := s.store.RecentlyViewed()
	if len(ids) > maxResolvedRecentlyViewed {
		ids = ids[:maxResolvedRecentlyViewed]
	}
	return s.resolveIDs(ctx, "recently-viewed", ids)
}

// Favorites resolves the favorite set. Unauthenticated sessions get an empty
// list; favorites are an account feature.
func (s *service) Favorites(ctx context.Context) ([]types.Product, error) {
	if !s.session.IsAuthenticated() {
		return []types.Product{}, nil
	}
	return s.resolveIDs(ctx, "favorites", s.store.Favorites())
}

func (s *service) CompareList(ctx context.Context) ([]types.Product, error) {
	return s.resolveIDs(ctx, "compare", s.store.Compare())
}

// Availability derives purchasability from the product detail, preferring
// variant-level stock when a variant is selected.
func (s *service) Availability(ctx context.Context, productID int64, variantID *int64) (*types.ProductAvailability, error) {
	key := fmt.Sprintf("products:availability:%d", productID)
	if variantID != nil {
		key += ":" + strconv.FormatInt(*variantID, 10)
	}
	return cached(ctx, s.cache, key, ttlAvailability, func(ctx context.Context) (*types.ProductAvailability, error) {
		detail, err := s.fetchDetail(ctx, api.EndpointProductDetail(productID))
		if err != nil {
			return nil, err
		}
		if variantID != nil {
			for _, variant := range detail.Variants {
				if variant.ID == *variantID {
					return &types.ProductAvailability{
						InStock:           variant.IsInStock,
						QuantityAvailable: variant.InventoryCount,
						CanBackorder:      detail.AllowBackorder,
					}, nil
				}
			}
		}
		return &types.ProductAvailability{
			InStock:           detail.IsInStock,
			QuantityAvailable: detail.InventoryCount,
			CanBackorder:      detail.AllowBackorder,
		}, nil
	})
}

// resolveIDs looks up each product individually, tolerating per-ID failures.
// The aggregated lookup errors are logged, not surfaced.
func (s *service) resolveIDs(ctx context.Context, set string, ids []int64) ([]types.Product, error) {
	key := fmt.Sprintf("products:set:%s:%s", set, joinIDs(ids))
	return cached(ctx, s.cache, key, ttlResolvedSets, func(ctx context.Context) ([]types.Product, error) {
		products := make([]types.Product, 0, len(ids))
		var errs error
		for _, id := range ids {
			detail, err := s.Detail(ctx, id)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("product %d: %w", id, err))
				continue
			}
			products = append(products, detail.Product)
		}
		if errs != nil && s.log != nil {
			s.log.WarnErr(ctx, fmt.Sprintf("some %s products failed to resolve", set), errs)
		}
		return products, nil
	})
}

func (s *service) fetchPage(ctx context.Context, path string, query url.Values) (*types.PaginatedResponse[types.Product], error) {
	var envelope types.APIResponse[types.PaginatedResponse[types.Product]]
	if err := s.api.Get(ctx, path, query, &envelope); err != nil {
		return nil, err
	}
	page := envelope.Data
	return &page, nil
}

func (s *service) fetchDetail(ctx context.Context, path string) (*types.ProductDetail, error) {
	var detail types.ProductDetail
	if err := s.api.Get(ctx, path, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func emptyPage(opts ListOptions) *types.PaginatedResponse[types.Product] {
	opts = opts.normalize()
	return &types.PaginatedResponse[types.Product]{
		Items:   []types.Product{},
		Page:    opts.Page,
		PerPage: opts.PerPage,
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// ToggleFavorite flips favorite membership for an authenticated shopper.
func (s *service) ToggleFavorite(ctx context.Context, productID int64) error {
	if !s.session.IsAuthenticated() {
		s.notifier.Error(ctx, notifyTitle, msgLoginManageFavs)
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msgLoginManageFavs)
	}
	if s.store.ToggleFavorite(ctx, productID) {
		s.notifier.Success(ctx, notifyTitle, msgAddedToFavorites)
	} else {
		s.notifier.Success(ctx, notifyTitle, msgRemovedFromFavs)
	}
	return nil
}

// AddFavorite is an idempotent add; toggling an existing favorite off by
// accident is not possible through it.
func (s *service) AddFavorite(ctx context.Context, productID int64) error {
	if !s.session.IsAuthenticated() {
		s.notifier.Error(ctx, notifyTitle, msgLoginForFavorites)
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msgLoginForFavorites)
	}
	if s.store.IsFavorite(productID) {
		return nil
	}
	s.store.ToggleFavorite(ctx, productID)
	s.notifier.Success(ctx, notifyTitle, msgAddedToFavorites)
	return nil
}

func (s *service) RemoveFavorite(ctx context.Context, productID int64) {
	if !s.store.IsFavorite(productID) {
		return
	}
	s.store.ToggleFavorite(ctx, productID)
	s.notifier.Success(ctx, notifyTitle, msgRemovedFromFavs)
}

// ToggleCompare adds or removes a product from the comparison set, rejecting
// a fifth member.
func (s *service) ToggleCompare(ctx context.Context, productID int64) error {
	added, err := s.store.ToggleCompare(ctx, productID)
	if errors.Is(err, storage.ErrCompareFull) {
		s.notifier.Error(ctx, notifyTitle, msgCompareLimit)
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgCompareLimit)
	}
	if err != nil {
		return err
	}
	if added {
		s.notifier.Success(ctx, notifyTitle, msgAddedToComparison)
	} else {
		s.notifier.Success(ctx, notifyTitle, msgRemovedFromCompare)
	}
	return nil
}

func (s *service) ClearCompare(ctx context.Context) {
	s.store.ClearCompare(ctx)
	s.notifier.Success(ctx, notifyTitle, msgComparisonCleared)
}
