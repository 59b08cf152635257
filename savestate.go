package savestate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/savestate/internal/logging"
	"github.com/aretw0/savestate/pkg/adapters/fs"
	loamAdapter "github.com/aretw0/savestate/pkg/adapters/loam"
	"github.com/aretw0/savestate/pkg/adapters/lua"
	"github.com/aretw0/savestate/pkg/adapters/memory"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/ports"
	"github.com/aretw0/savestate/pkg/savegame"
)

// DefaultGeneratorDir is where the Lua generators are looked up unless WithGeneratorDir says otherwise.
const DefaultGeneratorDir = "generators"

// Engine is the high-level entry point for the savestate library.
// It holds the collaborators every save is built with and drives the expansion pipeline.
type Engine struct {
	catalog      ports.Catalog
	catalogDir   string
	generatorDir string
	mapDir       string
	scenarioGen  ports.ScenarioGenerator
	mapGen       ports.MapGenerator
	mapReader    ports.MapReader
	stats        ports.Statistics
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog injects the game content catalog, bypassing the Loam catalog.
func WithCatalog(c ports.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithCatalogDir loads the catalog from a Loam content directory.
func WithCatalogDir(dir string) Option {
	return func(e *Engine) {
		e.catalogDir = dir
	}
}

// WithGeneratorDir sets the directory the default Lua generators read scripts from.
func WithGeneratorDir(dir string) Option {
	return func(e *Engine) {
		e.generatorDir = dir
	}
}

// WithMapDir sets the directory the default map reader resolves map files in.
func WithMapDir(dir string) Option {
	return func(e *Engine) {
		e.mapDir = dir
	}
}

// WithScenarioGenerator replaces the Lua scenario generator.
func WithScenarioGenerator(g ports.ScenarioGenerator) Option {
	return func(e *Engine) {
		e.scenarioGen = g
	}
}

// WithMapGenerator replaces the Lua map generator.
func WithMapGenerator(g ports.MapGenerator) Option {
	return func(e *Engine) {
		e.mapGen = g
	}
}

// WithMapReader replaces the directory map reader.
func WithMapReader(r ports.MapReader) Option {
	return func(e *Engine) {
		e.mapReader = r
	}
}

// WithStatistics sets the sink loaded [statistics] blocks go to. By default they are dropped.
func WithStatistics(s ports.Statistics) Option {
	return func(e *Engine) {
		e.stats = s
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New initializes a new Engine.
// Without WithCatalog or WithCatalogDir the catalog is empty and every lookup misses.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		generatorDir: DefaultGeneratorDir,
		mapDir:       ".",
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.catalog == nil {
		if eng.catalogDir == "" {
			eng.catalog = memory.NewCatalog()
		} else {
			absPath, err := filepath.Abs(eng.catalogDir)
			if err != nil {
				return nil, fmt.Errorf("invalid catalog path: %w", err)
			}
			cat, err := loamAdapter.Open(context.Background(), absPath)
			if err != nil {
				return nil, err
			}
			eng.catalog = cat
			eng.logger = eng.logger.With("catalog", filepath.Base(absPath))
		}
	}

	if eng.scenarioGen == nil || eng.mapGen == nil {
		gen := lua.New(eng.generatorDir, lua.WithLogger(eng.logger))
		if eng.scenarioGen == nil {
			eng.scenarioGen = gen
		}
		if eng.mapGen == nil {
			eng.mapGen = gen
		}
	}
	if eng.mapReader == nil {
		eng.mapReader = fs.NewMapReader(eng.mapDir)
	}
	if eng.stats == nil {
		eng.stats = memory.Discard{}
	}

	return eng, nil
}

// GameOptions returns the options every save of this engine is built with.
func (e *Engine) GameOptions() []savegame.Option {
	return []savegame.Option{
		savegame.WithCollaborators(savegame.Collaborators{
			Catalog:           e.catalog,
			ScenarioGenerator: e.scenarioGen,
			MapGenerator:      e.mapGen,
			MapReader:         e.mapReader,
			Statistics:        e.stats,
		}),
		savegame.WithLifecycleHooks(e.hooks),
		savegame.WithLogger(e.logger),
	}
}

// Catalog returns the content catalog.
func (e *Engine) Catalog() ports.Catalog {
	return e.catalog
}

// NewGame returns an empty save wired to the engine's collaborators.
func (e *Engine) NewGame() *savegame.SavedGame {
	return savegame.New(e.GameOptions()...)
}

// Load decodes a YAML save.
func (e *Engine) Load(r io.Reader) (*savegame.SavedGame, error) {
	return savegame.Read(r, e.GameOptions()...)
}

// FromDocument builds a save from a decoded document, consuming it.
func (e *Engine) FromDocument(doc *document.Config) (*savegame.SavedGame, error) {
	return savegame.FromDocument(doc, e.GameOptions()...)
}

// Prepare runs the expansion pipeline that makes a save ready to play: scenario
// resolution, era and modification events, random generation, options and carryover.
// Steps that already ran are skipped.
func (e *Engine) Prepare(sg *savegame.SavedGame) error {
	sg.ExpandMPEvents()
	if sg.Start().Kind() == domain.StartInvalid {
		return fmt.Errorf("%w: %s", domain.ErrScenarioNotFound, sg.ScenarioID())
	}
	if err := sg.ExpandRandomScenario(); err != nil {
		return err
	}
	sg.ExpandMPOptions()
	sg.ExpandCarryover()
	return nil
}

// StartNextScenario turns a mid-scenario snapshot into a start save for the next scenario.
func (e *Engine) StartNextScenario(sg *savegame.SavedGame) error {
	if kind := sg.Start().Kind(); kind != domain.StartSnapshot {
		return fmt.Errorf("%w: have %s", domain.ErrNotSnapshot, kind)
	}
	sg.ConvertToStartSave()
	return nil
}

// Encode writes the save as YAML.
func (e *Engine) Encode(w io.Writer, sg *savegame.SavedGame) error {
	return sg.Write(w)
}

// Watch signals whenever the catalog content changes. Catalogs that cannot be
// watched return a channel that closes with ctx.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.catalog.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	ch := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}
