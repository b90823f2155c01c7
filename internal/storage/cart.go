package storage

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

type cartSnapshot struct {
	Cart *types.Cart `json:"cart"`
}

// CartStore caches the authoritative cart plus the transient panel-open flag.
// Optimistic mutations rewrite the cached cart immediately; the owning service
// later commits a refetched cart or restores a snapshot on failure.
type CartStore struct {
	mu     sync.RWMutex
	medium Medium
	log    *logger.Logger

	cart   *types.Cart
	isOpen bool
}

func NewCartStore(ctx context.Context, medium Medium, log *logger.Logger) (*CartStore, error) {
	s := &CartStore{medium: medium, log: log}
	var snap cartSnapshot
	found, err := load(ctx, medium, log, cartKey, &snap)
	if found && snap.Cart != nil {
		cart := snap.Cart.Clone()
		cart.Recompute()
		s.cart = &cart
	}
	return s, err
}

// Cart returns a deep copy, or nil when no cart is cached.
func (s *CartStore) Cart() *types.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	cart := s.cart.Clone()
	return &cart
}

func (s *CartStore) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return 0
	}
	return s.cart.ItemCount
}

// SetCart replaces the cached cart with an authoritative snapshot.
func (s *CartStore) SetCart(ctx context.Context, cart types.Cart) {
	stored := cart.Clone()
	stored.Recompute()
	s.mu.Lock()
	s.cart = &stored
	s.mu.Unlock()
	s.persistCart(ctx)
}

// Clear drops the cached cart, for logout and order completion.
func (s *CartStore) Clear(ctx context.Context) {
	s.mu.Lock()
	s.cart = nil
	s.mu.Unlock()
	remove(ctx, s.medium, s.log, cartKey)
}

// AddOptimisticItem appends a speculative line built from local product data.
// The line carries a negative client-generated ID so it can never collide with
// a server-issued one; the next authoritative refetch replaces it. Returns the
// updated item count.
func (s *CartStore) AddOptimisticItem(ctx context.Context, product types.Product, quantity int, variantID *int64) int {
	item := types.CartItem{
		ID:           -time.Now().UnixMilli(),
		ProductID:    product.ID,
		ProductName:  product.Name,
		ProductSlug:  product.Slug,
		ProductImage: product.PrimaryImage,
		VariantID:    variantID,
		Quantity:     quantity,
		UnitPrice:    product.Price,
		TotalPrice:   product.Price.Mul(decimal.NewFromInt(int64(quantity))),
		IsAvailable:  product.IsInStock,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	if s.cart == nil {
		s.cart = &types.Cart{}
	}
	s.cart.Items = append(s.cart.Items, item)
	s.cart.Recompute()
	count := s.cart.ItemCount
	s.mu.Unlock()
	s.persistCart(ctx)
	return count
}

// SetItemQuantity rewrites one line's quantity and derived total. A zero
// quantity removes the line. Unknown IDs are a no-op.
func (s *CartStore) SetItemQuantity(ctx context.Context, itemID int64, quantity int) {
	s.mu.Lock()
	if s.cart == nil {
		s.mu.Unlock()
		return
	}
	if quantity <= 0 {
		s.removeLocked(itemID)
	} else {
		for i := range s.cart.Items {
			if s.cart.Items[i].ID != itemID {
				continue
			}
			s.cart.Items[i].Quantity = quantity
			s.cart.Items[i].TotalPrice = s.cart.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
			break
		}
	}
	s.cart.Recompute()
	s.mu.Unlock()
	s.persistCart(ctx)
}

// RemoveItem drops a line by ID.
func (s *CartStore) RemoveItem(ctx context.Context, itemID int64) {
	s.mu.Lock()
	if s.cart == nil {
		s.mu.Unlock()
		return
	}
	s.removeLocked(itemID)
	s.cart.Recompute()
	s.mu.Unlock()
	s.persistCart(ctx)
}

func (s *CartStore) removeLocked(itemID int64) {
	items := s.cart.Items[:0]
	for _, item := range s.cart.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	s.cart.Items = items
}

func (s *CartStore) SetOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isOpen = open
}

func (s *CartStore) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isOpen
}

func (s *CartStore) persistCart(ctx context.Context) {
	s.mu.RLock()
	snap := cartSnapshot{}
	if s.cart != nil {
		cart := s.cart.Clone()
		snap.Cart = &cart
	}
	s.mu.RUnlock()
	persist(ctx, s.medium, s.log, cartKey, snap)
}
