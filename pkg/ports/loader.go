package ports

import (
	"context"

	"github.com/aretw0/savestate/pkg/document"
)

// Catalog is the game configuration lookup.
type Catalog interface {
	// Find returns the definition registered under tag (e.g. "multiplayer", "era") with the
	// given id. The returned document belongs to the catalog; callers clone before mutating.
	Find(tag, id string) (*document.Config, bool)
}

// ScenarioGenerator builds a whole scenario from a generation spec.
type ScenarioGenerator interface {
	// GenerateScenario runs the generator named by spec with the [generator] parameters.
	GenerateScenario(spec string, params *document.Config) (*document.Config, error)
}

// MapGenerator builds map data from a generation spec.
type MapGenerator interface {
	GenerateMap(spec string, params *document.Config) (string, error)
}

// MapReader reads the content of a map referenced by file name.
type MapReader interface {
	ReadMap(path string) (string, error)
}

// Statistics is the sink for a save's statistics block.
type Statistics interface {
	Reset()
	Load(block *document.Config)
}

// Watchable defines an interface for catalogs that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying catalog changes.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
