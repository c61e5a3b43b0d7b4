package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "/metrics", cfg.Server.MetricsPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "scene-mirror", cfg.Storage.Bucket)
	assert.Equal(t, "scene.yaml", cfg.Mirror.DocumentPath)
	assert.Equal(t, 50, cfg.Mirror.MaxDepth)
	assert.Equal(t, 30*time.Second, cfg.Mirror.CacheTTL)
	assert.Empty(t, cfg.Mirror.Filter.ExcludeTypes)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("MIRROR_MAX_DEPTH", "20")
	t.Setenv("MIRROR_CACHE_TTL", "2m")
	t.Setenv("MIRROR_FILTER_EXCLUDE_TYPES", "RenderSettings,World")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Mirror.MaxDepth)
	assert.Equal(t, 2*time.Minute, cfg.Mirror.CacheTTL)
	assert.Equal(t, []string{"RenderSettings", "World"}, cfg.Mirror.Filter.ExcludeTypes)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	// registered first so the value set by the .env file is restored afterwards
	t.Setenv("MIRROR_SESSION", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MIRROR_SESSION=shot-010\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "shot-010", cfg.Mirror.Session)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Unknown log level", "LOG_LEVEL", "verbose"},
		{"Unknown database driver", "DATABASE_DRIVER", "postgres"},
		{"Zero depth", "MIRROR_MAX_DEPTH", "0"},
		{"Non numeric port", "SERVER_PORT", "http"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := LoadConfig(t.TempDir())
			assert.ErrorContains(t, err, "invalid configuration")
		})
	}
}
