package savegame

import (
	"io"
	"log/slog"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/ports"
	"github.com/aretw0/savestate/pkg/replay"
)

// Collaborators are the external services the pipeline calls into.
// Any of them may be nil: a nil catalog finds nothing, a nil statistics sink drops the block
// and a nil generator or map reader makes the step that needs it fail.
type Collaborators struct {
	Catalog           ports.Catalog
	ScenarioGenerator ports.ScenarioGenerator
	MapGenerator      ports.MapGenerator
	MapReader         ports.MapReader
	Statistics        ports.Statistics
}

// SavedGame is the state of one game session.
type SavedGame struct {
	start             domain.StartingPosition
	carryoverExpanded bool
	carryover         *document.Config
	replayStart       *document.Config
	classification    domain.Classification
	mpSettings        domain.MPSettings
	replay            *replay.Log

	collab Collaborators
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option defines a functional option for configuring a SavedGame.
type Option func(*SavedGame)

// WithCollaborators injects the catalog, generators, map reader and statistics sink.
func WithCollaborators(c Collaborators) Option {
	return func(sg *SavedGame) {
		sg.collab = c
	}
}

// WithCatalog sets only the game catalog.
func WithCatalog(c ports.Catalog) Option {
	return func(sg *SavedGame) {
		sg.collab.Catalog = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(sg *SavedGame) {
		sg.hooks = hooks
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sg *SavedGame) {
		sg.logger = logger
	}
}

// New returns the state of a freshly started campaign: no starting position and an
// empty pending carryover block. Call EnsureRandomSeed before the first expansion.
func New(opts ...Option) *SavedGame {
	sg := &SavedGame{
		start:          domain.NoStart(),
		carryover:      document.New(),
		replayStart:    document.New(),
		classification: domain.NewClassification(),
		mpSettings:     domain.NewMPSettings(),
		replay:         replay.New(),
	}
	for _, opt := range opts {
		opt(sg)
	}
	if sg.logger == nil {
		sg.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return sg
}

// Start returns the current starting position. Its document is live.
func (sg *SavedGame) Start() domain.StartingPosition {
	return sg.start
}

// StartingDocument returns the live snapshot or scenario document, or nil.
func (sg *SavedGame) StartingDocument() *document.Config {
	return sg.start.Document()
}

// CarryoverExpanded reports whether the carryover was merged into the active scenario.
func (sg *SavedGame) CarryoverExpanded() bool {
	return sg.carryoverExpanded
}

// Carryover returns the live carryover block: pending data before expansion, residual data after.
func (sg *SavedGame) Carryover() *document.Config {
	return sg.carryover
}

// SetCarryover replaces the carryover block wholesale and marks it pending.
// The save takes ownership of doc.
func (sg *SavedGame) SetCarryover(doc *document.Config) {
	if doc == nil {
		doc = document.New()
	}
	sg.carryover = doc
	sg.carryoverExpanded = false
}

// ReplayStart returns the replay origin snapshot. It is empty when the save has none.
func (sg *SavedGame) ReplayStart() *document.Config {
	return sg.replayStart
}

// SetReplayStart replaces the replay origin snapshot.
func (sg *SavedGame) SetReplayStart(doc *document.Config) {
	if doc == nil {
		doc = document.New()
	}
	sg.replayStart = doc
}

// Replay returns the live replay log.
func (sg *SavedGame) Replay() *replay.Log {
	return sg.replay
}

// Classification returns the campaign metadata for in-place edits.
func (sg *SavedGame) Classification() *domain.Classification {
	return &sg.classification
}

// MPSettings returns the multiplayer settings for in-place edits.
func (sg *SavedGame) MPSettings() *domain.MPSettings {
	return &sg.mpSettings
}

// Valid reports whether the requested scenario could be resolved.
func (sg *SavedGame) Valid() bool {
	return sg.start.Kind() != domain.StartInvalid
}

// Clone returns a deep copy sharing the collaborators, hooks and logger.
func (sg *SavedGame) Clone() *SavedGame {
	out := *sg
	out.start = sg.start.Clone()
	out.carryover = sg.carryover.Clone()
	out.replayStart = sg.replayStart.Clone()
	out.mpSettings = sg.mpSettings.Clone()
	out.replay = sg.replay.Clone()
	return &out
}

// Swap exchanges the game state of sg and other. Collaborators, hooks and loggers stay put.
func (sg *SavedGame) Swap(other *SavedGame) {
	sg.start, other.start = other.start, sg.start
	sg.carryoverExpanded, other.carryoverExpanded = other.carryoverExpanded, sg.carryoverExpanded
	sg.carryover, other.carryover = other.carryover, sg.carryover
	sg.replayStart, other.replayStart = other.replayStart, sg.replayStart
	sg.classification, other.classification = other.classification, sg.classification
	sg.mpSettings, other.mpSettings = other.mpSettings, sg.mpSettings
	sg.replay, other.replay = other.replay, sg.replay
}

// Equal compares the persisted state of two saves.
func (sg *SavedGame) Equal(other *SavedGame) bool {
	return sg.start.Equal(other.start) &&
		sg.carryoverExpanded == other.carryoverExpanded &&
		sg.carryover.Equal(other.carryover) &&
		sg.replayStart.Equal(other.replayStart) &&
		sg.classification == other.classification &&
		sg.mpSettings.ToDocument().Equal(other.mpSettings.ToDocument()) &&
		sg.replay.Equal(other.replay)
}

func (sg *SavedGame) find(tag, id string) (*document.Config, bool) {
	if sg.collab.Catalog == nil {
		return nil, false
	}
	return sg.collab.Catalog.Find(tag, id)
}
