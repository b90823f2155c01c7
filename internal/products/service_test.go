package products

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/corepath-impact/storefront-client/internal/api"
	"github.com/corepath-impact/storefront-client/internal/notify"
	"github.com/corepath-impact/storefront-client/internal/storage"
	"github.com/corepath-impact/storefront-client/pkg/enums"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

type stubSession struct{ authenticated bool }

func (s stubSession) IsAuthenticated() bool { return s.authenticated }

// stubClient answers canned JSON per path and records calls.
type stubClient struct {
	responses map[string]any
	failures  map[string]error
	calls     []string
}

func newStubClient() *stubClient {
	return &stubClient{responses: map[string]any{}, failures: map[string]error{}}
}

func (c *stubClient) Get(_ context.Context, path string, _ url.Values, out any) error {
	c.calls = append(c.calls, path)
	if err, ok := c.failures[path]; ok {
		return err
	}
	resp, ok := c.responses[path]
	if !ok || out == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *stubClient) countCalls(path string) int {
	count := 0
	for _, call := range c.calls {
		if call == path {
			count++
		}
	}
	return count
}

type fixture struct {
	service  Service
	client   *stubClient
	store    *storage.ProductsStore
	notifier *notify.Recorder
}

func newFixture(t *testing.T, authenticated bool) *fixture {
	t.Helper()
	store, _ := storage.NewProductsStore(context.Background(), storage.NewMemory(), nil)
	client := newStubClient()
	notifier := notify.NewRecorder()
	service, err := NewService(Params{
		API:      client,
		Store:    store,
		Session:  stubSession{authenticated: authenticated},
		Notifier: notifier,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return &fixture{service: service, client: client, store: store, notifier: notifier}
}

func pageOf(products ...types.Product) types.APIResponse[types.PaginatedResponse[types.Product]] {
	return types.APIResponse[types.PaginatedResponse[types.Product]]{
		Data: types.PaginatedResponse[types.Product]{
			Items: products, Total: len(products), Page: 1, PerPage: 12, Pages: 1,
		},
		Success: true,
	}
}

func TestSearchBelowMinimumNeverFires(t *testing.T) {
	f := newFixture(t, false)

	for _, query := range []string{"", "a", " b "} {
		page, err := f.service.Search(context.Background(), query, ListOptions{})
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", query, err)
		}
		if len(page.Items) != 0 {
			t.Fatalf("expected empty page for %q", query)
		}
	}
	if len(f.client.calls) != 0 {
		t.Fatalf("no request may fire below the minimum, got %v", f.client.calls)
	}

	f.client.responses[api.EndpointProducts] = pageOf(types.Product{ID: 1, Name: "Values Cards"})
	page, err := f.service.Search(context.Background(), "va", ListOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("two characters should search, got %+v", page)
	}
}

func TestListIsCachedByParameterSet(t *testing.T) {
	f := newFixture(t, false)
	f.client.responses[api.EndpointProducts] = pageOf(types.Product{ID: 1})

	ctx := context.Background()
	if _, err := f.service.List(ctx, ListOptions{Page: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.List(ctx, ListOptions{Page: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.client.countCalls(api.EndpointProducts); got != 1 {
		t.Fatalf("identical parameter sets must share one fetch, got %d", got)
	}

	// A different page is a different key.
	if _, err := f.service.List(ctx, ListOptions{Page: 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.client.countCalls(api.EndpointProducts); got != 2 {
		t.Fatalf("expected a second fetch for page 2, got %d", got)
	}
}

func TestRecommendationsExcludeSelfAndCap(t *testing.T) {
	f := newFixture(t, false)
	f.client.responses[api.EndpointProductDetail(5)] = types.ProductDetail{
		Product:  types.Product{ID: 5, Name: "Deck A"},
		Category: types.Category{ID: 3, Name: "Card Decks"},
	}
	f.client.responses[api.EndpointProductsByCategory(3)] = pageOf(
		types.Product{ID: 5},
		types.Product{ID: 6},
		types.Product{ID: 7},
		types.Product{ID: 8},
	)

	recommendations, err := f.service.Recommendations(context.Background(), 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recommendations))
	}
	for _, product := range recommendations {
		if product.ID == 5 {
			t.Fatalf("the product itself must never be recommended")
		}
	}
}

func TestRecentlyViewedToleratesFailedLookups(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)
	f.store.AddRecentlyViewed(ctx, 1)
	f.store.AddRecentlyViewed(ctx, 2)
	f.store.AddRecentlyViewed(ctx, 3)

	f.client.responses[api.EndpointProductDetail(3)] = types.ProductDetail{Product: types.Product{ID: 3}}
	f.client.failures[api.EndpointProductDetail(2)] = pkgerrors.New(pkgerrors.CodeNotFound, "")
	f.client.responses[api.EndpointProductDetail(1)] = types.ProductDetail{Product: types.Product{ID: 1}}

	products, err := f.service.RecentlyViewed(ctx)
	if err != nil {
		t.Fatalf("per-id failures must not be fatal: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected the two resolvable products, got %d", len(products))
	}
	// Newest first, the failed ID simply missing.
	if products[0].ID != 3 || products[1].ID != 1 {
		t.Fatalf("unexpected order %+v", products)
	}
}

func TestBySlugRecordsRecentlyViewed(t *testing.T) {
	f := newFixture(t, false)
	f.client.responses[api.EndpointProductBySlug("values-cards")] = types.ProductDetail{
		Product: types.Product{ID: 42, Slug: "values-cards"},
	}

	if _, err := f.service.BySlug(context.Background(), "values-cards"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	viewed := f.store.RecentlyViewed()
	if len(viewed) != 1 || viewed[0] != 42 {
		t.Fatalf("visit should be recorded, got %v", viewed)
	}
}

func TestFavoritesRequireAuthentication(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, false)

	err := f.service.ToggleFavorite(ctx, 1)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if f.store.IsFavorite(1) {
		t.Fatalf("favorite must not be recorded")
	}
	last, _ := f.notifier.Last()
	if last.Type != enums.NotificationError {
		t.Fatalf("expected error notification, got %+v", last)
	}
}

func TestToggleFavoriteAuthenticated(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	if err := f.service.ToggleFavorite(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !f.store.IsFavorite(1) {
		t.Fatalf("expected favorite recorded")
	}
	last, _ := f.notifier.Last()
	if last.Message != "Added to favorites" {
		t.Fatalf("unexpected message %q", last.Message)
	}

	if err := f.service.ToggleFavorite(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last, _ = f.notifier.Last()
	if last.Message != "Removed from favorites" {
		t.Fatalf("unexpected message %q", last.Message)
	}
}

func TestFifthCompareRejectedWithNotification(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	for id := int64(1); id <= 4; id++ {
		if err := f.service.ToggleCompare(ctx, id); err != nil {
			t.Fatalf("unexpected error for %d: %v", id, err)
		}
	}
	err := f.service.ToggleCompare(ctx, 5)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	last, _ := f.notifier.Last()
	if last.Message != "You can compare up to 4 products only" {
		t.Fatalf("unexpected message %q", last.Message)
	}
	if len(f.store.Compare()) != 4 {
		t.Fatalf("compare set must stay at 4")
	}
}

func TestAvailabilityPrefersVariant(t *testing.T) {
	f := newFixture(t, false)
	variantID := int64(77)
	f.client.responses[api.EndpointProductDetail(9)] = types.ProductDetail{
		Product:        types.Product{ID: 9, IsInStock: true},
		InventoryCount: 12,
		AllowBackorder: true,
		Variants: []types.ProductVariant{
			{ID: 77, IsInStock: false, InventoryCount: 0},
		},
	}

	availability, err := f.service.Availability(context.Background(), 9, &variantID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if availability.InStock || availability.QuantityAvailable != 0 || !availability.CanBackorder {
		t.Fatalf("unexpected availability %+v", availability)
	}

	availability, err = f.service.Availability(context.Background(), 9, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !availability.InStock || availability.QuantityAvailable != 12 {
		t.Fatalf("unexpected product-level availability %+v", availability)
	}
}
