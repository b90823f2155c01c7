package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "COREPATH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config is the explicit configuration struct handed to the SDK at startup.
// Feature behavior is driven by these fields, never by ambient environment
// lookups inside the packages that consume them.
type Config struct {
	App        AppConfig
	API        APIConfig
	ContentAPI ContentAPIConfig
	Storage    StorageConfig
	Features   FeaturesConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"COREPATH_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"COREPATH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"COREPATH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the client at the REST backend.
type APIConfig struct {
	BaseURL string        `envconfig:"COREPATH_API_URL" default:"http://localhost:8000/api/v1"`
	Timeout time.Duration `envconfig:"COREPATH_API_TIMEOUT" default:"10s"`
}

// ContentAPIConfig points the blog client at the content platform.
type ContentAPIConfig struct {
	BaseURL string        `envconfig:"COREPATH_CONTENT_API_URL" default:"https://content.corepathimpact.com/wp-json/wp/v2"`
	Timeout time.Duration `envconfig:"COREPATH_CONTENT_API_TIMEOUT" default:"10s"`
}

// Storage drivers for the durable client-state medium.
const (
	StorageDriverMemory = "memory"
	StorageDriverSQLite = "sqlite"
	StorageDriverRedis  = "redis"
)

// StorageConfig selects and tunes the durable medium backing the persisted
// stores. SQLite is the default: a local file that survives restarts the way
// browser storage survives reloads.
type StorageConfig struct {
	Driver     string `envconfig:"COREPATH_STORAGE_DRIVER" default:"sqlite"`
	SQLitePath string `envconfig:"COREPATH_STORAGE_SQLITE_PATH" default:"storefront.db"`

	RedisURL          string        `envconfig:"COREPATH_STORAGE_REDIS_URL"`
	RedisAddress      string        `envconfig:"COREPATH_STORAGE_REDIS_ADDR"`
	RedisPassword     string        `envconfig:"COREPATH_STORAGE_REDIS_PASSWORD"`
	RedisDB           int           `envconfig:"COREPATH_STORAGE_REDIS_DB" default:"0"`
	RedisDialTimeout  time.Duration `envconfig:"COREPATH_STORAGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	RedisReadTimeout  time.Duration `envconfig:"COREPATH_STORAGE_REDIS_READ_TIMEOUT" default:"5s"`
	RedisWriteTimeout time.Duration `envconfig:"COREPATH_STORAGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (s StorageConfig) validate() error {
	switch s.Driver {
	case StorageDriverMemory:
		return nil
	case StorageDriverSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return fmt.Errorf("sqlite storage requires COREPATH_STORAGE_SQLITE_PATH")
		}
		return nil
	case StorageDriverRedis:
		if s.RedisURL == "" && s.RedisAddress == "" {
			return fmt.Errorf("redis storage requires COREPATH_STORAGE_REDIS_URL or COREPATH_STORAGE_REDIS_ADDR")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}
}

// FeaturesConfig gates the optional storefront surfaces.
type FeaturesConfig struct {
	Courses  bool `envconfig:"COREPATH_ENABLE_COURSES" default:"false"`
	Merchant bool `envconfig:"COREPATH_ENABLE_MERCHANT" default:"false"`
}
