package notify

import (
	"context"
	"testing"

	"github.com/corepath-impact/storefront-client/internal/storage"
	"github.com/corepath-impact/storefront-client/pkg/enums"
)

func TestStoreNotifierAppendsToFeed(t *testing.T) {
	store := storage.NewNotificationStore()
	notifier := NewStoreNotifier(store, nil)

	notifier.Success(context.Background(), "Cart", "Item added to cart!")
	notifier.Error(context.Background(), "Cart", "Something went wrong. Please try again.")

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications got %d", len(list))
	}
	// Newest first.
	if list[0].Type != enums.NotificationError || list[1].Type != enums.NotificationSuccess {
		t.Fatalf("unexpected feed order %+v", list)
	}
	if list[1].Message != "Item added to cart!" {
		t.Fatalf("unexpected message %q", list[1].Message)
	}
	if list[0].ID == "" {
		t.Fatalf("expected generated id")
	}
}
