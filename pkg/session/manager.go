package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/savestate/internal/logging"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/ports"
	"github.com/aretw0/savestate/pkg/savegame"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to persisted saves, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.SaveStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker   ports.DistributedLocker // Optional distributed locker
	lockTTL  time.Duration
	gameOpts []savegame.Option // Applied to every loaded save
	logger   *slog.Logger      // Logger for internal events (like deferred errors)
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithGameOptions sets the options (collaborators, hooks, logger) every loaded save is built with.
func WithGameOptions(opts ...savegame.Option) Option {
	return func(m *Manager) {
		m.gameOpts = append(m.gameOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new save manager with the given persistence store.
func NewManager(store ports.SaveStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

// Load retrieves a save from the store and builds its state.
func (m *Manager) Load(ctx context.Context, id string) (*savegame.SavedGame, error) {
	var sg *savegame.SavedGame
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		sg, err = m.load(ctx, id)
		return err
	})
	return sg, err
}

// LoadOrNew tries to load a save. If not found, it persists and returns a fresh one.
func (m *Manager) LoadOrNew(ctx context.Context, id string) (*savegame.SavedGame, error) {
	var sg *savegame.SavedGame
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		sg, err = m.load(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSaveNotFound) {
			return fmt.Errorf("failed to check save existence: %w", err)
		}

		sg = savegame.New(m.gameOpts...)
		if err := sg.EnsureRandomSeed(); err != nil {
			return err
		}
		// Persist immediately to reserve the ID
		if err := m.store.Save(ctx, id, sg.ToDocument()); err != nil {
			return fmt.Errorf("failed to initialize save: %w", err)
		}
		return nil
	})
	return sg, err
}

// Save persists the save state.
func (m *Manager) Save(ctx context.Context, id string, sg *savegame.SavedGame) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Save(ctx, id, sg.ToDocument())
	})
}

// Update loads a save, applies fn and persists the result, all under the save's lock.
// Nothing is written when fn fails.
func (m *Manager) Update(ctx context.Context, id string, fn func(*savegame.SavedGame) error) (*savegame.SavedGame, error) {
	var sg *savegame.SavedGame
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		if sg, err = m.load(ctx, id); err != nil {
			return err
		}
		if err := fn(sg); err != nil {
			return err
		}
		return m.store.Save(ctx, id, sg.ToDocument())
	})
	if err != nil {
		return nil, err
	}
	return sg, nil
}

// Delete removes the save from the store.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		return m.store.Delete(ctx, id)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying save store.
func (m *Manager) Store() ports.SaveStore {
	return m.store
}

// WithLock executes a function while holding the lock for the save.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	// Distributed Locking
	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"save_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) load(ctx context.Context, id string) (*savegame.SavedGame, error) {
	doc, err := m.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	sg, err := savegame.FromDocument(doc, m.gameOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read save %s: %w", id, err)
	}
	return sg, nil
}
