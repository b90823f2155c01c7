package cart

import (
	"context"
	"encoding/json"
	"net/url"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/corepath-impact/storefront-client/internal/api"
	"github.com/corepath-impact/storefront-client/internal/notify"
	"github.com/corepath-impact/storefront-client/internal/storage"
	"github.com/corepath-impact/storefront-client/pkg/enums"
	pkgerrors "github.com/corepath-impact/storefront-client/pkg/errors"
	"github.com/corepath-impact/storefront-client/pkg/types"
)

type stubSession struct{ authenticated bool }

func (s stubSession) IsAuthenticated() bool { return s.authenticated }

// stubClient answers canned JSON per method+path and records calls.
type stubClient struct {
	responses map[string]any
	failures  map[string]error
	calls     []string
}

func newStubClient() *stubClient {
	return &stubClient{responses: map[string]any{}, failures: map[string]error{}}
}

func (c *stubClient) handle(key string, out any) error {
	c.calls = append(c.calls, key)
	if err, ok := c.failures[key]; ok {
		return err
	}
	resp, ok := c.responses[key]
	if !ok || out == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *stubClient) Get(_ context.Context, path string, _ url.Values, out any) error {
	return c.handle("GET "+path, out)
}
func (c *stubClient) Post(_ context.Context, path string, _ any, out any) error {
	return c.handle("POST "+path, out)
}
func (c *stubClient) Put(_ context.Context, path string, _ any, out any) error {
	return c.handle("PUT "+path, out)
}
func (c *stubClient) Delete(_ context.Context, path string, out any) error {
	return c.handle("DELETE "+path, out)
}

type fixture struct {
	service  Service
	client   *stubClient
	store    *storage.CartStore
	notifier *notify.Recorder
}

func newFixture(t *testing.T, authenticated bool) *fixture {
	t.Helper()
	store, _ := storage.NewCartStore(context.Background(), storage.NewMemory(), nil)
	client := newStubClient()
	notifier := notify.NewRecorder()
	service, err := NewService(Params{
		API:      client,
		Cart:     store,
		Session:  stubSession{authenticated: authenticated},
		Notifier: notifier,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return &fixture{service: service, client: client, store: store, notifier: notifier}
}

func seededCart() types.Cart {
	return types.Cart{
		ID: 1, UserID: 4,
		Items: []types.CartItem{
			{ID: 11, ProductID: 100, Quantity: 2, UnitPrice: decimal.NewFromInt(500), TotalPrice: decimal.NewFromInt(1000)},
			{ID: 12, ProductID: 101, Quantity: 1, UnitPrice: decimal.NewFromInt(250), TotalPrice: decimal.NewFromInt(250)},
		},
	}
}

func assertAggregates(t *testing.T, cart *types.Cart) {
	t.Helper()
	subtotal := decimal.Zero
	count := 0
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.TotalPrice)
		count += item.Quantity
	}
	if !cart.Subtotal.Equal(subtotal) {
		t.Fatalf("subtotal %s does not match line sum %s", cart.Subtotal, subtotal)
	}
	if cart.ItemCount != count {
		t.Fatalf("item count %d does not match quantity sum %d", cart.ItemCount, count)
	}
}

func TestAddUnauthenticatedAbortsBeforeRequest(t *testing.T) {
	f := newFixture(t, false)

	err := f.service.Add(context.Background(), types.Product{ID: 1, Price: decimal.NewFromInt(100)}, 1, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if len(f.client.calls) != 0 {
		t.Fatalf("no request may fire, got %v", f.client.calls)
	}
	if f.store.Cart() != nil {
		t.Fatalf("cache must stay untouched")
	}
	last, _ := f.notifier.Last()
	if last.Message != "Please login to add items to cart" {
		t.Fatalf("unexpected message %q", last.Message)
	}
}

func TestAddCommitsViaRefetchAndOpensPanelOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)

	server := seededCart()
	server.Items = append(server.Items, types.CartItem{
		ID: 13, ProductID: 102, Quantity: 1, UnitPrice: decimal.NewFromInt(300), TotalPrice: decimal.NewFromInt(300),
	})
	f.client.responses["GET "+api.EndpointCart] = server

	product := types.Product{ID: 102, Name: "Values Cards", Price: decimal.NewFromInt(300), IsInStock: true}
	if err := f.service.Add(ctx, product, 1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cart := f.store.Cart()
	assertAggregates(t, cart)
	for _, item := range cart.Items {
		if item.ID < 0 {
			t.Fatalf("provisional line must be replaced by the refetch: %+v", item)
		}
	}
	if !f.store.IsOpen() {
		t.Fatalf("cart panel should open after a successful add")
	}
	if got := f.notifier.CountOf(enums.NotificationSuccess); got != 1 {
		t.Fatalf("expected one success notification, got %d", got)
	}
}

func TestAddFailureRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.store.SetCart(ctx, seededCart())
	before := f.store.Cart()
	f.client.failures["POST "+api.EndpointCartAdd] = pkgerrors.New(pkgerrors.CodeConflict, "Product is out of stock")

	err := f.service.Add(ctx, types.Product{ID: 102, Price: decimal.NewFromInt(300)}, 1, nil)
	if err == nil {
		t.Fatalf("expected error")
	}

	after := f.store.Cart()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected exact snapshot restore\nbefore %+v\nafter  %+v", before, after)
	}
	if f.store.IsOpen() {
		t.Fatalf("panel must not open on failure")
	}
	last, _ := f.notifier.Last()
	if last.Message != "Product is out of stock" {
		t.Fatalf("unexpected message %q", last.Message)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.store.SetCart(ctx, seededCart())

	// Server refetch returns the cart without the removed line.
	server := seededCart()
	server.Items = server.Items[:1]
	f.client.responses["GET "+api.EndpointCart] = server

	if err := f.service.UpdateQuantity(ctx, 12, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart := f.store.Cart()
	assertAggregates(t, cart)
	for _, item := range cart.Items {
		if item.ID == 12 {
			t.Fatalf("line 12 should be gone")
		}
	}
}

func TestUpdateQuantityFailureRestoresExactSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.store.SetCart(ctx, seededCart())
	before := f.store.Cart()
	f.client.failures["PUT "+api.EndpointCartItem(11)] = pkgerrors.New(pkgerrors.CodeServer, "")

	if err := f.service.UpdateQuantity(ctx, 11, 5); err == nil {
		t.Fatalf("expected error")
	}
	after := f.store.Cart()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("expected exact snapshot restore")
	}
	assertAggregates(t, after)
}

func TestUpdateQuantityIsIdempotentLocally(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.store.SetCart(ctx, seededCart())
	f.client.responses["GET "+api.EndpointCart] = seededCart()

	if err := f.service.UpdateQuantity(ctx, 11, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart := f.store.Cart()
	assertAggregates(t, cart)
	if cart.Items[0].Quantity != 2 {
		t.Fatalf("quantity should remain 2, got %d", cart.Items[0].Quantity)
	}
}

func TestRemoveSettlesWithServer(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.store.SetCart(ctx, seededCart())
	server := seededCart()
	server.Items = server.Items[1:]
	f.client.responses["GET "+api.EndpointCart] = server

	if err := f.service.Remove(ctx, 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cart := f.store.Cart()
	assertAggregates(t, cart)
	if len(cart.Items) != 1 || cart.Items[0].ID != 12 {
		t.Fatalf("unexpected cart %+v", cart)
	}
}

func TestClearIsNotOptimistic(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.store.SetCart(ctx, seededCart())
	f.client.failures["DELETE "+api.EndpointCartClear] = pkgerrors.New(pkgerrors.CodeServer, "")

	if err := f.service.Clear(ctx); err == nil {
		t.Fatalf("expected error")
	}
	// The cache keeps the cart because the server never confirmed.
	if cart := f.store.Cart(); cart == nil || len(cart.Items) != 2 {
		t.Fatalf("cart must survive a failed clear, got %+v", cart)
	}
}

func TestSyncPricesNotifiesOnlyWhenLinesChanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, true)
	f.client.responses["GET "+api.EndpointCart] = seededCart()

	f.client.responses["POST "+api.EndpointCartSyncPrices] = types.CartSyncResult{UpdatedItems: 0, Success: true}
	if _, err := f.service.SyncPrices(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.notifier.CountOf(enums.NotificationSuccess) != 0 {
		t.Fatalf("no notification when nothing changed")
	}

	f.client.responses["POST "+api.EndpointCartSyncPrices] = types.CartSyncResult{UpdatedItems: 3, Success: true}
	if _, err := f.service.SyncPrices(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last, _ := f.notifier.Last()
	if last.Message != "Cart updated - 3 items had price changes" {
		t.Fatalf("unexpected message %q", last.Message)
	}
}
