package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.Storage.Retention)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
	assert.Equal(t, 20.0, cfg.Security.RateLimit.RPS)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AGGREGATOR_SERVER_ADDR", ":9090")
	t.Setenv("AGGREGATOR_STORAGE_RETENTION", "2h")
	t.Setenv("AGGREGATOR_SECURITY_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Storage.Retention)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Security.AllowedOrigins)
}

func TestLoadFileOverridesEnv(t *testing.T) {
	t.Setenv("AGGREGATOR_LOGGING_LEVEL", "warn")
	t.Setenv("AGGREGATOR_SERVER_ADDR", ":9090")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
storage:
  cleanup_interval: 5m
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5*time.Minute, cfg.Storage.CleanupInterval)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("AGGREGATOR_LOGGING_FORMAT", "xml")

	_, err := LoadFile("")
	assert.ErrorContains(t, err, "config validation failed")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}
