package cart

import (
	"context"
	"fmt"
	"net/url"

	"github.com/corepath-impact/storefront-client/internal/api"
	"github.com/corepath-impact/storefront-client/internal/notify"
	"github.com/corepath-impact/storefront-client/internal/storage"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/metrics"
	"github.com/corepath-impact/storefront-client/pkg/types"
	"github.com/corepath-impact/storefront-client/pkg/validate"
)

// Outcome messages shown to the shopper.
const (
	msgItemAdded    = "Item added to cart!"
	msgItemUpdated  = "Cart updated!"
	msgItemRemoved  = "Item removed from cart!"
	msgCartCleared  = "Cart cleared"
	msgLoginToAdd   = "Please login to add items to cart"
	msgAddFailed    = "Failed to add item to cart"
	msgUpdateFailed = "Failed to update cart"
	msgSyncFailed   = "Failed to sync cart"
)

const notifyTitle = "Cart"

type client interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// Service exposes the cart operations. Mutations apply optimistically to the
// cached cart and settle against the server: a success commits by refetching
// the authoritative cart, a failure restores the pre-mutation snapshot.
type Service interface {
	Fetch(ctx context.Context) (*types.Cart, error)
	Add(ctx context.Context, product types.Product, quantity int, variantID *int64) error
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) error
	Remove(ctx context.Context, itemID int64) error
	Clear(ctx context.Context) error
	Validate(ctx context.Context) (*types.CartValidation, error)
	Count(ctx context.Context) (*types.CartCount, error)
	Summary(ctx context.Context) (*types.CheckoutSummary, error)
	ShippingRates(ctx context.Context, address types.Address) ([]types.ShippingRate, error)
	SyncPrices(ctx context.Context) (*types.CartSyncResult, error)
}

type sessionReader interface {
	IsAuthenticated() bool
}

type service struct {
	api      client
	cart     *storage.CartStore
	session  sessionReader
	notifier notify.Notifier
	log      *logger.Logger
	metrics  *metrics.ClientMetrics
}

type Params struct {
	API      client
	Cart     *storage.CartStore
	Session  sessionReader
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.ClientMetrics
}

func NewService(params Params) (Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Session == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &service{
		api:      params.API,
		cart:     params.Cart,
		session:  params.Session,
		notifier: params.Notifier,
		log:      params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// Fetch loads the authoritative cart and replaces the cached snapshot.
func (s *service) Fetch(ctx context.Context) (*types.Cart, error) {
	var cart types.Cart
	if err := s.api.Get(ctx, api.EndpointCart, nil, &cart); err != nil {
		return nil, err
	}
	s.cart.SetCart(ctx, cart)
	return s.cart.Cart(), nil
}

// Add pushes a new line to the server. Unauthenticated adds abort before any
// request or cache change. The provisional line shows up immediately; the
// server's cart replaces it on success, and the cart panel opens exactly once.
func (s *service) Add(ctx context.Context, product types.Product, quantity int, variantID *int64) error {
	if !s.session.IsAuthenticated() {
		s.notifier.Error(ctx, notifyTitle, msgLoginToAdd)
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msgLoginToAdd)
	}
	if quantity < 1 {
		quantity = 1
	}
	payload := types.CartItemAdd{ProductID: product.ID, VariantID: variantID, Quantity: quantity}
	if err := validate.Struct(payload); err != nil {
		s.notifier.Error(ctx, notifyTitle, pkgerrors.UserMessage(err))
		return err
	}

	// Phase 1: capture. Phase 2: speculative apply.
	snapshot := s.cart.Cart()
	s.cart.AddOptimisticItem(ctx, product, quantity, variantID)

	if err := s.api.Post(ctx, api.EndpointCartAdd, payload, nil); err != nil {
		// Phase 3b: restore.
		s.restore(ctx, snapshot, "add")
		s.notifier.Error(ctx, notifyTitle, userMessageOr(err, msgAddFailed))
		return err
	}

	// Phase 3a: commit via refetch of the authoritative cart.
	s.commit(ctx, "add")
	s.notifier.Success(ctx, notifyTitle, msgItemAdded)
	s.cart.SetOpen(true)
	return nil
}

// UpdateQuantity rewrites a line quantity; zero removes the line. Aggregates
// are always recomputed from the lines. On failure the exact pre-mutation
// snapshot is restored, not a recomputed approximation.
func (s *service) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "Quantity cannot be negative")
	}

	snapshot := s.cart.Cart()
	s.cart.SetItemQuantity(ctx, itemID, quantity)

	if err := s.api.Put(ctx, api.EndpointCartItem(itemID), types.CartItemUpdate{Quantity: quantity}, nil); err != nil {
		s.restore(ctx, snapshot, "update")
		s.notifier.Error(ctx, notifyTitle, userMessageOr(err, msgUpdateFailed))
		return err
	}

	s.commit(ctx, "update")
	s.notifier.Success(ctx, notifyTitle, msgItemUpdated)
	return nil
}

// Remove drops a line optimistically and settles with the server.
func (s *service) Remove(ctx context.Context, itemID int64) error {
	snapshot := s.cart.Cart()
	s.cart.RemoveItem(ctx, itemID)

	if err := s.api.Delete(ctx, api.EndpointCartItem(itemID), nil); err != nil {
		s.restore(ctx, snapshot, "remove")
		s.notifier.Error(ctx, notifyTitle, userMessageOr(err, msgUpdateFailed))
		return err
	}

	s.commit(ctx, "remove")
	s.notifier.Success(ctx, notifyTitle, msgItemRemoved)
	return nil
}

// Clear empties the cart server-first; the cache is only dropped once the
// server confirms.
func (s *service) Clear(ctx context.Context) error {
	if err := s.api.Delete(ctx, api.EndpointCartClear, nil); err != nil {
		s.notifier.Error(ctx, notifyTitle, userMessageOr(err, msgUpdateFailed))
		return err
	}
	s.cart.Clear(ctx)
	s.notifier.Success(ctx, notifyTitle, msgCartCleared)
	return nil
}

// Validate asks the server for a pre-checkout validity report. Non-mutating.
func (s *service) Validate(ctx context.Context) (*types.CartValidation, error) {
	var result types.CartValidation
	if err := s.api.Post(ctx, api.EndpointCartValidate, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) Count(ctx context.Context) (*types.CartCount, error) {
	var count types.CartCount
	if err := s.api.Get(ctx, api.EndpointCartCount, nil, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

func (s *service) Summary(ctx context.Context) (*types.CheckoutSummary, error) {
	var summary types.CheckoutSummary
	if err := s.api.Get(ctx, api.EndpointCartSummary, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *service) ShippingRates(ctx context.Context, address types.Address) ([]types.ShippingRate, error) {
	if err := validate.Struct(address); err != nil {
		return nil, err
	}
	var rates []types.ShippingRate
	body := map[string]types.Address{"shipping_address": address}
	if err := s.api.Post(ctx, api.EndpointCartShippingRates, body, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// SyncPrices re-prices the cart lines server-side and refetches. The shopper
// is only notified when lines actually changed.
func (s *service) SyncPrices(ctx context.Context) (*types.CartSyncResult, error) {
	var result types.CartSyncResult
	if err := s.api.Post(ctx, api.EndpointCartSyncPrices, nil, &result); err != nil {
		s.notifier.Error(ctx, notifyTitle, userMessageOr(err, msgSyncFailed))
		return nil, err
	}
	s.commit(ctx, "sync")
	if result.UpdatedItems > 0 {
		s.notifier.Success(ctx, notifyTitle,
			fmt.Sprintf("Cart updated - %d items had price changes", result.UpdatedItems))
	}
	return &result, nil
}

// commit refetches the authoritative cart after a successful mutation. A
// failed refetch keeps the speculative state; the next fetch reconciles it.
func (s *service) commit(ctx context.Context, operation string) {
	var cart types.Cart
	if err := s.api.Get(ctx, api.EndpointCart, nil, &cart); err != nil {
		if s.log != nil {
			s.log.WarnErr(s.log.WithOperation(ctx, operation), "cart refetch after mutation failed", err)
		}
		return
	}
	s.cart.SetCart(ctx, cart)
}

func (s *service) restore(ctx context.Context, snapshot *types.Cart, operation string) {
	if snapshot == nil {
		s.cart.Clear(ctx)
	} else {
		s.cart.SetCart(ctx, *snapshot)
	}
	if s.metrics != nil {
		s.metrics.IncRollback(operation)
	}
}

// userMessageOr prefers the server's message and falls back to the
// operation-specific text.
func userMessageOr(err error, fallback string) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return fallback
}
