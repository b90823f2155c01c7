package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/corepath-impact/storefront-client/internal/api"
	"github.com/corepath-impact/storefront-client/internal/auth"
	"github.com/corepath-impact/storefront-client/internal/cart"
	"github.com/corepath-impact/storefront-client/internal/content"
	"github.com/corepath-impact/storefront-client/internal/notify"
	"github.com/corepath-impact/storefront-client/internal/orders"
	"github.com/corepath-impact/storefront-client/internal/products"
	"github.com/corepath-impact/storefront-client/internal/storage"
	"github.com/corepath-impact/storefront-client/pkg/config"
	"github.com/corepath-impact/storefront-client/pkg/logger"
	"github.com/corepath-impact/storefront-client/pkg/metrics"
)

// Smoke entrypoint: wires the full client stack against the configured
// backend and exercises a read path so a deploy can be sanity checked from
// the command line. The SDK itself is consumed as a library.
func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	medium, err := storage.NewMedium(ctx, cfg.Storage, logg)
	if err != nil {
		logg.Error(ctx, "failed to open storage medium", err)
		os.Exit(1)
	}
	stores := storage.NewStores(ctx, medium, logg)
	notifier := notify.NewStoreNotifier(stores.Notifications, logg)
	clientMetrics := metrics.NewClientMetrics(prometheus.DefaultRegisterer)

	apiClient, err := api.FromConfig(cfg.API, stores.Session, logg, clientMetrics, func(ctx context.Context) {
		notifier.Warning(ctx, "Account", "Session expired. Please login again.")
		stores.UI.SetLoginModalOpen(true)
	})
	if err != nil {
		logg.Error(ctx, "failed to build api client", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.Params{
		API:      apiClient,
		Session:  stores.Session,
		Cart:     stores.Cart,
		Forms:    stores.Forms,
		Notifier: notifier,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to build auth service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.Params{
		API:      apiClient,
		Cart:     stores.Cart,
		Session:  stores.Session,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  clientMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to build cart service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.Params{
		API:      apiClient,
		Store:    stores.Products,
		Session:  stores.Session,
		Notifier: notifier,
		Logger:   logg,
		Metrics:  clientMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to build product service", err)
		os.Exit(1)
	}

	if _, err := orders.NewService(orders.Params{
		API:      apiClient,
		Cart:     stores.Cart,
		Forms:    stores.Forms,
		Notifier: notifier,
		Logger:   logg,
	}); err != nil {
		logg.Error(ctx, "failed to build order service", err)
		os.Exit(1)
	}

	contentClient, err := content.FromConfig(cfg.ContentAPI, logg)
	if err != nil {
		logg.Error(ctx, "failed to build content client", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"api":           cfg.API.BaseURL,
		"storage":       cfg.Storage.Driver,
		"authenticated": authService.IsAuthenticated(),
	})
	logg.Info(ctx, "storefront client ready")

	featured, err := productService.Featured(ctx, 8)
	if err != nil {
		logg.Error(ctx, "featured products fetch failed", err)
		os.Exit(1)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{"count": len(featured)}),
		"featured products fetched")

	if count, err := cartService.Count(ctx); err != nil {
		logg.WarnErr(ctx, "cart count fetch failed", err)
	} else {
		logg.Info(logg.WithFields(ctx, map[string]any{"count": count.TotalItems}), "cart counted")
	}

	if posts, err := contentClient.Posts(ctx, content.PostListOptions{PerPage: 3}); err != nil {
		logg.WarnErr(ctx, "blog fetch failed", err)
	} else {
		logg.Info(logg.WithFields(ctx, map[string]any{"count": len(posts)}), "blog posts fetched")
	}
}
