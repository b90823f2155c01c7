package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.False(t, cfg.Features.Courses)
	assert.False(t, cfg.Features.Merchant)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("COREPATH_APP_ENV", "prod")
	t.Setenv("COREPATH_API_URL", "https://api.corepathimpact.com/api/v1")
	t.Setenv("COREPATH_API_TIMEOUT", "3s")
	t.Setenv("COREPATH_STORAGE_DRIVER", "redis")
	t.Setenv("COREPATH_STORAGE_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("COREPATH_ENABLE_COURSES", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProd())
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Storage.RedisURL)
	assert.True(t, cfg.Features.Courses)
}

func TestLoad_StorageValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"redis driver without target", map[string]string{
			"COREPATH_STORAGE_DRIVER": "redis",
		}},
		{"sqlite driver without path", map[string]string{
			"COREPATH_STORAGE_DRIVER":      "sqlite",
			"COREPATH_STORAGE_SQLITE_PATH": "  ",
		}},
		{"unknown driver", map[string]string{
			"COREPATH_STORAGE_DRIVER": "cookies",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}
