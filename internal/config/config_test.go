package config_test

import (
	"bytes"
	"encoding/base64"
	"log/slog"
	"testing"
	"time"

	"github.com/aretw0/savestate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ".savestate/saves", cfg.StoreDir)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 30*time.Second, cfg.LockTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.UsesRedis())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SAVESTATE_CATALOG_DIR", "/data/catalog")
	t.Setenv("SAVESTATE_REDIS_ADDR", "localhost:6379")
	t.Setenv("SAVESTATE_REDIS_TTL", "1h")
	t.Setenv("SAVESTATE_LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/catalog", cfg.CatalogDir)
	assert.True(t, cfg.UsesRedis())
	assert.Equal(t, time.Hour, cfg.RedisTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SAVESTATE_LOCK_TTL", "soon")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_EncryptionKeys(t *testing.T) {
	key := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{7}, 32))
	old := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{3}, 32))
	t.Setenv("SAVESTATE_ENCRYPTION_KEY", key)
	t.Setenv("SAVESTATE_ENCRYPTION_FALLBACK_KEYS", old)
	t.Setenv("SAVESTATE_REDACT_KEYS", "password,current_player")

	cfg, err := config.Load()
	require.NoError(t, err)

	active, fallback, err := cfg.Keys()
	require.NoError(t, err)
	assert.Len(t, active, 32)
	assert.Len(t, fallback, 1)
	assert.Equal(t, []string{"password", "current_player"}, cfg.RedactKeys)
}

func TestLoad_ShortEncryptionKey(t *testing.T) {
	t.Setenv("SAVESTATE_ENCRYPTION_KEY", base64.StdEncoding.EncodeToString([]byte("short")))

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrInvalidKey)
}
