package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/corepath-impact/storefront-client/pkg/logger"
)

const (
	maxRecentlyViewed  = 20
	maxCompareProducts = 4
)

// ErrCompareFull is returned when the comparison set already holds four
// products.
var ErrCompareFull = errors.New("storage: compare set is full")

// ProductFilters is the volatile browse filter state.
type ProductFilters struct {
	CategoryID *int64          `json:"category_id,omitempty"`
	PriceMin   decimal.Decimal `json:"price_min"`
	PriceMax   decimal.Decimal `json:"price_max"`
	Brands     []string        `json:"brands,omitempty"`
	Tags       []string        `json:"tags,omitempty"`
	SortBy     string          `json:"sort_by"`
	SortOrder  string          `json:"sort_order"`
}

func defaultFilters() ProductFilters {
	return ProductFilters{
		PriceMax:  decimal.NewFromInt(10000),
		SortBy:    "created_at",
		SortOrder: "desc",
	}
}

type productsSnapshot struct {
	Favorites      []int64 `json:"favorites"`
	RecentlyViewed []int64 `json:"recently_viewed"`
	Compare        []int64 `json:"compare"`
}

// ProductsStore keeps shopper-local product sets. Favorites, recently viewed
// and the compare set are durable; browse filters reset on restart.
type ProductsStore struct {
	mu     sync.RWMutex
	medium Medium
	log    *logger.Logger

	filters        ProductFilters
	favorites      []int64
	recentlyViewed []int64
	compare        []int64
}

func NewProductsStore(ctx context.Context, medium Medium, log *logger.Logger) (*ProductsStore, error) {
	s := &ProductsStore{medium: medium, log: log, filters: defaultFilters()}
	var snap productsSnapshot
	found, err := load(ctx, medium, log, productsKey, &snap)
	if found {
		s.favorites = snap.Favorites
		if len(snap.RecentlyViewed) > maxRecentlyViewed {
			snap.RecentlyViewed = snap.RecentlyViewed[:maxRecentlyViewed]
		}
		s.recentlyViewed = snap.RecentlyViewed
		if len(snap.Compare) > maxCompareProducts {
			snap.Compare = snap.Compare[:maxCompareProducts]
		}
		s.compare = snap.Compare
	}
	return s, err
}

func (s *ProductsStore) Filters() ProductFilters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *ProductsStore) SetFilters(apply func(*ProductFilters)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.filters)
}

func (s *ProductsStore) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = defaultFilters()
}

func (s *ProductsStore) IsFavorite(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.favorites, productID)
}

// ToggleFavorite flips membership and reports whether the product is now a
// favorite.
func (s *ProductsStore) ToggleFavorite(ctx context.Context, productID int64) bool {
	s.mu.Lock()
	var nowFavorite bool
	if contains(s.favorites, productID) {
		s.favorites = without(s.favorites, productID)
	} else {
		s.favorites = append(s.favorites, productID)
		nowFavorite = true
	}
	s.mu.Unlock()
	s.persistProducts(ctx)
	return nowFavorite
}

func (s *ProductsStore) Favorites() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.favorites...)
}

// AddRecentlyViewed moves the product to the front of the history, keeping at
// most the twenty most recent.
func (s *ProductsStore) AddRecentlyViewed(ctx context.Context, productID int64) {
	s.mu.Lock()
	next := make([]int64, 0, len(s.recentlyViewed)+1)
	next = append(next, productID)
	for _, id := range s.recentlyViewed {
		if id != productID {
			next = append(next, id)
		}
	}
	if len(next) > maxRecentlyViewed {
		next = next[:maxRecentlyViewed]
	}
	s.recentlyViewed = next
	s.mu.Unlock()
	s.persistProducts(ctx)
}

func (s *ProductsStore) RecentlyViewed() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.recentlyViewed...)
}

func (s *ProductsStore) IsComparing(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return contains(s.compare, productID)
}

// ToggleCompare adds or removes a product from the comparison set. Adding a
// fifth product fails with ErrCompareFull; the reported bool is true when the
// product is in the set afterwards.
func (s *ProductsStore) ToggleCompare(ctx context.Context, productID int64) (bool, error) {
	s.mu.Lock()
	if contains(s.compare, productID) {
		s.compare = without(s.compare, productID)
		s.mu.Unlock()
		s.persistProducts(ctx)
		return false, nil
	}
	if len(s.compare) >= maxCompareProducts {
		s.mu.Unlock()
		return false, ErrCompareFull
	}
	s.compare = append(s.compare, productID)
	s.mu.Unlock()
	s.persistProducts(ctx)
	return true, nil
}

func (s *ProductsStore) Compare() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]int64(nil), s.compare...)
}

func (s *ProductsStore) ClearCompare(ctx context.Context) {
	s.mu.Lock()
	s.compare = nil
	s.mu.Unlock()
	s.persistProducts(ctx)
}

func (s *ProductsStore) persistProducts(ctx context.Context) {
	s.mu.RLock()
	snap := productsSnapshot{
		Favorites:      append([]int64(nil), s.favorites...),
		RecentlyViewed: append([]int64(nil), s.recentlyViewed...),
		Compare:        append([]int64(nil), s.compare...),
	}
	s.mu.RUnlock()
	persist(ctx, s.medium, s.log, productsKey, snap)
}

func contains(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func without(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
