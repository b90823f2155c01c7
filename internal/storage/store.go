package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/corepath-impact/storefront-client/pkg/logger"
)

// Snapshot keys, one namespace per concern.
const (
	sessionKey     = "cp:session"
	cartKey        = "cp:cart"
	uiKey          = "cp:ui"
	preferencesKey = "cp:preferences"
	productsKey    = "cp:products"
	formsKey       = "cp:forms"
)

// load rehydrates a durable snapshot into dest. A missing key or a snapshot
// that no longer parses both leave dest untouched so the caller's default
// state stands; only a medium failure surfaces as an error.
func load(ctx context.Context, medium Medium, log *logger.Logger, key string, dest any) (bool, error) {
	raw, err := medium.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("rehydrating %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		if log != nil {
			log.WarnErr(ctx, fmt.Sprintf("discarding malformed snapshot for %s", key), err)
		}
		return false, nil
	}
	return true, nil
}

// persist writes a snapshot through to the medium. Persistence is best effort;
// the in-memory state is already updated and a failed write must not undo it.
func persist(ctx context.Context, medium Medium, log *logger.Logger, key string, snapshot any) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		if log != nil {
			log.WarnErr(ctx, fmt.Sprintf("encoding snapshot for %s", key), err)
		}
		return
	}
	if err := medium.Set(ctx, key, raw); err != nil {
		if log != nil {
			log.WarnErr(ctx, fmt.Sprintf("persisting snapshot for %s", key), err)
		}
	}
}

func remove(ctx context.Context, medium Medium, log *logger.Logger, key string) {
	if err := medium.Delete(ctx, key); err != nil {
		if log != nil {
			log.WarnErr(ctx, fmt.Sprintf("clearing snapshot for %s", key), err)
		}
	}
}

// Stores bundles every concern store over a shared medium.
type Stores struct {
	Session       *SessionStore
	Cart          *CartStore
	UI            *UIStore
	Preferences   *PreferencesStore
	Products      *ProductsStore
	Notifications *NotificationStore
	Forms         *FormStore
	Performance   *PerformanceStore
}

// NewStores rehydrates every store from the medium. Rehydration failures are
// aggregated and logged but never fatal: each affected store starts from its
// default state and keeps serving in memory.
func NewStores(ctx context.Context, medium Medium, log *logger.Logger) *Stores {
	stores := &Stores{}

	var errs error
	var err error
	stores.Session, err = NewSessionStore(ctx, medium, log)
	errs = multierr.Append(errs, err)
	stores.Cart, err = NewCartStore(ctx, medium, log)
	errs = multierr.Append(errs, err)
	stores.UI, err = NewUIStore(ctx, medium, log)
	errs = multierr.Append(errs, err)
	stores.Preferences, err = NewPreferencesStore(ctx, medium, log)
	errs = multierr.Append(errs, err)
	stores.Products, err = NewProductsStore(ctx, medium, log)
	errs = multierr.Append(errs, err)
	stores.Forms, err = NewFormStore(ctx, medium, log)
	errs = multierr.Append(errs, err)
	stores.Notifications = NewNotificationStore()
	stores.Performance = NewPerformanceStore()

	if errs != nil && log != nil {
		log.WarnErr(ctx, "some stores rehydrated from defaults", errs)
	}
	return stores
}
