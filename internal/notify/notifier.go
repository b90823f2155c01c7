package notify

import (
	"context"

	"github.com/corepath-impact/storefront-client/internal/storage"
	"github.com/corepath-impact/storefront-client/pkg/enums"
	"github.com/corepath-impact/storefront-client/pkg/logger"
)

// Notifier is how services surface user-visible outcome messages.
type Notifier interface {
	Success(ctx context.Context, title, message string)
	Error(ctx context.Context, title, message string)
	Warning(ctx context.Context, title, message string)
	Info(ctx context.Context, title, message string)
}

// StoreNotifier appends notifications to the notification feed.
type StoreNotifier struct {
	store *storage.NotificationStore
	log   *logger.Logger
}

func NewStoreNotifier(store *storage.NotificationStore, log *logger.Logger) *StoreNotifier {
	return &StoreNotifier{store: store, log: log}
}

func (n *StoreNotifier) Success(ctx context.Context, title, message string) {
	n.add(ctx, enums.NotificationSuccess, title, message)
}

func (n *StoreNotifier) Error(ctx context.Context, title, message string) {
	n.add(ctx, enums.NotificationError, title, message)
}

func (n *StoreNotifier) Warning(ctx context.Context, title, message string) {
	n.add(ctx, enums.NotificationWarning, title, message)
}

func (n *StoreNotifier) Info(ctx context.Context, title, message string) {
	n.add(ctx, enums.NotificationInfo, title, message)
}

func (n *StoreNotifier) add(ctx context.Context, kind enums.NotificationType, title, message string) {
	n.store.Add(storage.Notification{Type: kind, Title: title, Message: message})
	if n.log != nil {
		n.log.Debug(n.log.WithFields(ctx, map[string]any{
			"type":  kind.String(),
			"title": title,
		}), "notification added")
	}
}
