package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_PATH", "/tmp/ledger.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ledger.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.HTTPServer.Address)
	assert.Equal(t, 12*time.Hour, cfg.JWT.TokenTTL)
	assert.False(t, cfg.CacheEnabled())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
db_path: /var/lib/agua/ledger.db
http_server:
  address: ":9090"
jwt:
  secret: from-file
  token_ttl: 30m
redis:
  address: localhost:6379
  receipt_ttl: 1h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/agua/ledger.db", cfg.DBPath)
	assert.Equal(t, ":9090", cfg.HTTPServer.Address)
	assert.Equal(t, "from-file", cfg.JWT.Secret)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TokenTTL)
	assert.True(t, cfg.CacheEnabled())
	assert.Equal(t, time.Hour, cfg.Redis.ReceiptTTL)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
