package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corepath-impact/storefront-client/pkg/types"
)

type failingMedium struct{}

func (failingMedium) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("medium down")
}
func (failingMedium) Set(context.Context, string, []byte) error { return errors.New("medium down") }
func (failingMedium) Delete(context.Context, string) error      { return errors.New("medium down") }

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	medium := NewMemory()

	first, err := NewSessionStore(ctx, medium, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.SetSession(ctx, types.User{ID: 7, Email: "jane@example.com"}, "access-1", "refresh-1")

	second, err := NewSessionStore(ctx, medium, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.IsAuthenticated() {
		t.Fatalf("expected rehydrated session to be authenticated")
	}
	if got := second.AccessToken(); got != "access-1" {
		t.Fatalf("unexpected access token %q", got)
	}
	if user := second.User(); user == nil || user.ID != 7 {
		t.Fatalf("unexpected rehydrated user %+v", user)
	}
}

func TestSessionStoreMalformedSnapshotFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	medium := NewMemory()
	if err := medium.Set(ctx, sessionKey, []byte("{not json")); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	store, err := NewSessionStore(ctx, medium, nil)
	if err != nil {
		t.Fatalf("malformed snapshot must not error: %v", err)
	}
	if store.IsAuthenticated() || store.AccessToken() != "" {
		t.Fatalf("expected default state after malformed snapshot")
	}
}

func TestSessionStoreClearIsAtomic(t *testing.T) {
	ctx := context.Background()
	medium := NewMemory()
	store, _ := NewSessionStore(ctx, medium, nil)
	store.SetSession(ctx, types.User{ID: 1}, "access", "refresh")

	store.Clear(ctx)

	if store.IsAuthenticated() || store.User() != nil || store.AccessToken() != "" || store.RefreshToken() != "" {
		t.Fatalf("expected fully cleared session")
	}
	if _, err := medium.Get(ctx, sessionKey); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected durable snapshot removed, got %v", err)
	}
}

func TestSessionStoreSetTokensKeepsRefreshWhenOmitted(t *testing.T) {
	ctx := context.Background()
	store, _ := NewSessionStore(ctx, NewMemory(), nil)
	store.SetSession(ctx, types.User{ID: 1}, "access-1", "refresh-1")

	store.SetTokens(ctx, "access-2", "")

	if got := store.AccessToken(); got != "access-2" {
		t.Fatalf("unexpected access token %q", got)
	}
	if got := store.RefreshToken(); got != "refresh-1" {
		t.Fatalf("refresh token should survive, got %q", got)
	}
}

func TestCartStoreOptimisticLinesUseNegativeIDs(t *testing.T) {
	ctx := context.Background()
	store, _ := NewCartStore(ctx, NewMemory(), nil)

	product := types.Product{ID: 10, Name: "Wooden Blocks", Price: decimal.NewFromInt(500), IsInStock: true}
	count := store.AddOptimisticItem(ctx, product, 2, nil)
	if count != 2 {
		t.Fatalf("expected item count 2 got %d", count)
	}

	cart := store.Cart()
	if cart == nil || len(cart.Items) != 1 {
		t.Fatalf("expected one cart line, got %+v", cart)
	}
	line := cart.Items[0]
	if line.ID >= 0 {
		t.Fatalf("optimistic line must carry a negative id, got %d", line.ID)
	}
	if !line.TotalPrice.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected line total %s", line.TotalPrice)
	}
	if !cart.Subtotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected subtotal %s", cart.Subtotal)
	}
}

func TestCartStoreZeroQuantityRemovesLine(t *testing.T) {
	ctx := context.Background()
	store, _ := NewCartStore(ctx, NewMemory(), nil)
	store.SetCart(ctx, types.Cart{Items: []types.CartItem{
		{ID: 5, Quantity: 3, UnitPrice: decimal.NewFromInt(100), TotalPrice: decimal.NewFromInt(300)},
	}})

	store.SetItemQuantity(ctx, 5, 0)

	cart := store.Cart()
	if len(cart.Items) != 0 || cart.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}

func TestCartStoreRehydratesAcrossInstances(t *testing.T) {
	ctx := context.Background()
	medium := NewMemory()
	first, _ := NewCartStore(ctx, medium, nil)
	first.SetCart(ctx, types.Cart{ID: 3, Items: []types.CartItem{
		{ID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(250), TotalPrice: decimal.NewFromInt(250)},
	}})

	second, _ := NewCartStore(ctx, medium, nil)
	cart := second.Cart()
	if cart == nil || cart.ID != 3 || cart.ItemCount != 1 {
		t.Fatalf("unexpected rehydrated cart %+v", cart)
	}
}

func TestUIStoreRecentSearchesDedupAndCap(t *testing.T) {
	ctx := context.Background()
	store, _ := NewUIStore(ctx, NewMemory(), nil)

	for i := 0; i < 12; i++ {
		store.AddRecentSearch(ctx, fmt.Sprintf("query-%d", i))
	}
	store.AddRecentSearch(ctx, "query-5")
	store.AddRecentSearch(ctx, "   ")

	searches := store.RecentSearches()
	if len(searches) != maxRecentSearches {
		t.Fatalf("expected %d searches got %d", maxRecentSearches, len(searches))
	}
	if searches[0] != "query-5" {
		t.Fatalf("repeated query should move to front, got %q", searches[0])
	}
	seen := map[string]bool{}
	for _, q := range searches {
		if seen[q] {
			t.Fatalf("duplicate search %q", q)
		}
		seen[q] = true
	}
}

func TestProductsStoreCompareCap(t *testing.T) {
	ctx := context.Background()
	store, _ := NewProductsStore(ctx, NewMemory(), nil)

	for id := int64(1); id <= 4; id++ {
		added, err := store.ToggleCompare(ctx, id)
		if err != nil || !added {
			t.Fatalf("adding product %d: added=%v err=%v", id, added, err)
		}
	}
	if _, err := store.ToggleCompare(ctx, 5); !errors.Is(err, ErrCompareFull) {
		t.Fatalf("expected ErrCompareFull, got %v", err)
	}

	// Removing an existing member still works at the cap.
	added, err := store.ToggleCompare(ctx, 2)
	if err != nil || added {
		t.Fatalf("expected removal, added=%v err=%v", added, err)
	}
	if len(store.Compare()) != 3 {
		t.Fatalf("expected 3 compared products got %d", len(store.Compare()))
	}
}

func TestProductsStoreRecentlyViewedOrderAndCap(t *testing.T) {
	ctx := context.Background()
	store, _ := NewProductsStore(ctx, NewMemory(), nil)

	for id := int64(1); id <= 25; id++ {
		store.AddRecentlyViewed(ctx, id)
	}
	store.AddRecentlyViewed(ctx, 10)

	viewed := store.RecentlyViewed()
	if len(viewed) != maxRecentlyViewed {
		t.Fatalf("expected %d entries got %d", maxRecentlyViewed, len(viewed))
	}
	if viewed[0] != 10 {
		t.Fatalf("revisited product should lead, got %d", viewed[0])
	}
}

func TestProductsStoreToggleFavoritePersists(t *testing.T) {
	ctx := context.Background()
	medium := NewMemory()
	first, _ := NewProductsStore(ctx, medium, nil)

	if now := first.ToggleFavorite(ctx, 42); !now {
		t.Fatalf("expected product to become a favorite")
	}

	second, _ := NewProductsStore(ctx, medium, nil)
	if !second.IsFavorite(42) {
		t.Fatalf("favorite should survive rehydration")
	}
}

func TestNotificationStoreBoundedNewestFirst(t *testing.T) {
	store := NewNotificationStore()

	var lastID string
	for i := 0; i < maxNotifications+5; i++ {
		lastID = store.Add(Notification{Title: fmt.Sprintf("n-%d", i)})
	}

	list := store.List()
	if len(list) != maxNotifications {
		t.Fatalf("expected %d notifications got %d", maxNotifications, len(list))
	}
	if list[0].ID != lastID {
		t.Fatalf("newest notification should lead")
	}
	if store.UnreadCount() != maxNotifications {
		t.Fatalf("expected all unread")
	}

	store.MarkRead(lastID)
	if store.UnreadCount() != maxNotifications-1 {
		t.Fatalf("expected one read")
	}
	store.MarkAllRead()
	if store.UnreadCount() != 0 {
		t.Fatalf("expected none unread")
	}
}

func TestPreferencesStoreDefaultsAndUpdate(t *testing.T) {
	ctx := context.Background()
	medium := NewMemory()
	store, _ := NewPreferencesStore(ctx, medium, nil)

	prefs := store.Preferences()
	if prefs.Currency != "KES" || prefs.ItemsPerPage != 12 || !prefs.EmailNotifications {
		t.Fatalf("unexpected defaults %+v", prefs)
	}

	store.Update(ctx, func(p *Preferences) {
		p.Currency = "USD"
		p.MarketingEmails = true
	})

	reloaded, _ := NewPreferencesStore(ctx, medium, nil)
	prefs = reloaded.Preferences()
	if prefs.Currency != "USD" || !prefs.MarketingEmails {
		t.Fatalf("update should persist, got %+v", prefs)
	}

	reloaded.Reset(ctx)
	if reloaded.Preferences().Currency != "KES" {
		t.Fatalf("reset should restore defaults")
	}
}

func TestFormStoreTakeReturnToClears(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFormStore(ctx, NewMemory(), nil)

	store.SetReturnTo(ctx, "/checkout")
	if got := store.TakeReturnTo(ctx); got != "/checkout" {
		t.Fatalf("unexpected destination %q", got)
	}
	if got := store.TakeReturnTo(ctx); got != "" {
		t.Fatalf("destination should clear after first take, got %q", got)
	}
}

func TestFormStoreClearCheckoutResetsStep(t *testing.T) {
	ctx := context.Background()
	store, _ := NewFormStore(ctx, NewMemory(), nil)

	store.SetCheckoutStep(ctx, 3)
	store.UpdateCheckout(ctx, func(d *CheckoutDraft) { d.CouponCode = "WELCOME10" })

	store.ClearCheckout(ctx)

	if store.CheckoutStep() != 1 {
		t.Fatalf("expected step 1 got %d", store.CheckoutStep())
	}
	if store.Checkout().CouponCode != "" {
		t.Fatalf("expected empty draft")
	}
}

func TestPerformanceStoreExpiry(t *testing.T) {
	store := NewPerformanceStore()
	current := time.Unix(1000, 0)
	store.now = func() time.Time { return current }

	if !store.IsExpired("products", time.Minute) {
		t.Fatalf("untouched resource must be expired")
	}
	store.Touch("products")
	if store.IsExpired("products", time.Minute) {
		t.Fatalf("fresh resource must not be expired")
	}
	current = current.Add(2 * time.Minute)
	if !store.IsExpired("products", time.Minute) {
		t.Fatalf("stale resource must be expired")
	}
}

func TestNewStoresSurvivesMediumFailure(t *testing.T) {
	ctx := context.Background()
	stores := NewStores(ctx, failingMedium{}, nil)

	if stores.Session == nil || stores.Cart == nil || stores.Preferences == nil {
		t.Fatalf("all stores must be constructed despite medium failure")
	}
	// Writes keep working in memory even though persistence fails.
	stores.Session.SetSession(ctx, types.User{ID: 9}, "access", "refresh")
	if !stores.Session.IsAuthenticated() {
		t.Fatalf("in-memory state must keep serving")
	}
}
