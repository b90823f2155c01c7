package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/corepath-impact/storefront-client/pkg/config"
	"github.com/corepath-impact/storefront-client/pkg/logger"
)

// ErrNotFound is returned by a Medium when a key has no stored value.
var ErrNotFound = errors.New("storage: key not found")

// Medium is a durable key/value backend for store snapshots. Values are
// opaque byte slices; every store serializes its own snapshot as JSON.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// NewMedium builds the Medium selected by configuration.
func NewMedium(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (Medium, error) {
	switch cfg.Driver {
	case config.StorageDriverMemory:
		return NewMemory(), nil
	case config.StorageDriverSQLite:
		return NewSQLite(cfg.SQLitePath)
	case config.StorageDriverRedis:
		return NewRedis(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
