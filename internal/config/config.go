// Package config loads runtime settings from SAVESTATE_* environment variables.
// Command-line flags override whatever is loaded here.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name.
const Prefix = "SAVESTATE_"

// Config holds the settings shared by the CLI and the HTTP server.
type Config struct {
	CatalogDir   string `env:"CATALOG_DIR"`
	MapDir       string `env:"MAP_DIR"       envDefault:"."`
	GeneratorDir string `env:"GENERATOR_DIR" envDefault:"generators"`
	// GeneratorsFile registers external generator programs, tried before Lua scripts.
	GeneratorsFile string `env:"GENERATORS_FILE"`
	StoreDir       string `env:"STORE_DIR"     envDefault:".savestate/saves"`
	StatisticsDB   string `env:"STATISTICS_DB"`

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	RedisTTL      time.Duration `env:"REDIS_TTL"      envDefault:"0s"`

	// EncryptionKey is a base64 AES-256 key. Saves are stored encrypted when it is set.
	EncryptionKey          string   `env:"ENCRYPTION_KEY"`
	EncryptionFallbackKeys []string `env:"ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
	// RedactKeys are patterns of attribute keys masked before a save is stored.
	RedactKeys []string `env:"REDACT_KEYS" envSeparator:","`

	ListenAddr string        `env:"LISTEN_ADDR" envDefault:":8080"`
	LockTTL    time.Duration `env:"LOCK_TTL"    envDefault:"30s"`
	LogLevel   slog.Level    `env:"LOG_LEVEL"   envDefault:"info"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, _, err := cfg.Keys(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ErrInvalidKey is returned when an encryption key is not 32 bytes of base64.
var ErrInvalidKey = errors.New("encryption key must be 32 bytes, base64 encoded")

// Keys decodes the active and fallback encryption keys. active is nil when encryption is off.
func (c Config) Keys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		return nil, nil, nil
	}
	if active, err = decodeKey(c.EncryptionKey); err != nil {
		return nil, nil, err
	}
	for _, k := range c.EncryptionFallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// UsesRedis reports whether saves go to Redis instead of the file store.
func (c Config) UsesRedis() bool {
	return c.RedisAddr != ""
}
