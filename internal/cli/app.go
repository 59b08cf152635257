// Package cli wires configuration into the engine, the stores and the presentation used
// by the savestate command.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/savestate"
	"github.com/aretw0/savestate/internal/adapters/file"
	"github.com/aretw0/savestate/internal/config"
	"github.com/aretw0/savestate/pkg/adapters/lua"
	"github.com/aretw0/savestate/pkg/adapters/process"
	"github.com/aretw0/savestate/pkg/adapters/redis"
	"github.com/aretw0/savestate/pkg/adapters/sqlite"
	"github.com/aretw0/savestate/pkg/observability"
	"github.com/aretw0/savestate/pkg/persistence/middleware"
	"github.com/aretw0/savestate/pkg/ports"
	"github.com/aretw0/savestate/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
)

// App holds everything a command needs. Close releases the databases and clients it opened.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Engine   *savestate.Engine
	Sessions *session.Manager
	Registry *prometheus.Registry

	closers []func() error
}

// NewApp builds the engine and the save store described by cfg.
// Saves go to Redis (with distributed locking) when an address is configured, otherwise to
// the file store. Statistics are kept in SQLite when a database path is configured.
func NewApp(cfg config.Config, logger *slog.Logger) (*App, error) {
	app := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	metrics, err := observability.NewMetrics(app.Registry)
	if err != nil {
		return nil, err
	}

	engineOpts := []savestate.Option{
		savestate.WithLogger(logger),
		savestate.WithLifecycleHooks(metrics.Hooks().Merge(observability.LogHooks(logger))),
		savestate.WithGeneratorDir(cfg.GeneratorDir),
		savestate.WithMapDir(cfg.MapDir),
	}
	if cfg.CatalogDir != "" {
		engineOpts = append(engineOpts, savestate.WithCatalogDir(cfg.CatalogDir))
	}
	if cfg.GeneratorsFile != "" {
		registry, err := process.LoadGenerators(cfg.GeneratorsFile)
		if err != nil {
			return nil, err
		}
		scripts := lua.New(cfg.GeneratorDir, lua.WithLogger(logger))
		gen := process.New(
			process.WithRegistry(registry),
			process.WithBaseDir(cfg.GeneratorDir),
			process.WithLogger(logger),
			process.WithFallback(scripts, scripts),
		)
		engineOpts = append(engineOpts, savestate.WithScenarioGenerator(gen), savestate.WithMapGenerator(gen))
		logger.Debug("external generators registered", "count", len(registry))
	}
	if cfg.StatisticsDB != "" {
		stats, err := sqlite.Open(cfg.StatisticsDB, sqlite.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, stats.Close)
		engineOpts = append(engineOpts, savestate.WithStatistics(stats))
	}

	app.Engine, err = savestate.New(engineOpts...)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}

	sessionOpts := []session.Option{
		session.WithLogger(logger),
		session.WithLockTTL(cfg.LockTTL),
		session.WithGameOptions(app.Engine.GameOptions()...),
	}

	var store ports.SaveStore
	if cfg.UsesRedis() {
		client := backend.NewClient(&backend.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		app.closers = append(app.closers, client.Close)
		store = redis.NewFromClient(client, redis.WithTTL(cfg.RedisTTL))
		sessionOpts = append(sessionOpts, session.WithLocker(redis.NewLocker(client, redis.DefaultPrefix)))
		logger.Debug("using redis store", "addr", cfg.RedisAddr)
	} else {
		store = file.New(cfg.StoreDir)
		logger.Debug("using file store", "dir", cfg.StoreDir)
	}
	app.Sessions = session.NewManager(app.wrapStore(store), sessionOpts...)

	return app, nil
}

// wrapStore applies redaction and encryption. Redaction runs first so masked values never
// reach the ciphertext. Keys were validated when the configuration was loaded.
func (a *App) wrapStore(store ports.SaveStore) ports.SaveStore {
	var mws []middleware.Middleware
	if len(a.Config.RedactKeys) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(a.Config.RedactKeys))
	}
	if active, fallback, err := a.Config.Keys(); err == nil && active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
		a.Logger.Debug("saves are encrypted", "fallback_keys", len(fallback))
	}
	return middleware.Chain(store, mws...)
}

// Close releases what NewApp opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
