package memory

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/savestate/pkg/document"
)

// Catalog implements ports.Catalog using an in-memory map keyed by tag and id.
// Safe for concurrent use.
type Catalog struct {
	defs map[string]map[string]*document.Config
	mu   sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]map[string]*document.Config)}
}

// NewCatalogFromDocument indexes every child of a game config document by its tag and id.
// Children without an id are skipped.
func NewCatalogFromDocument(gameConfig *document.Config) *Catalog {
	c := NewCatalog()
	for _, ch := range gameConfig.Children() {
		if ch.Config.Get("id").Empty() {
			continue
		}
		_ = c.Add(ch.Tag, ch.Config.Clone())
	}
	return c
}

// Add registers def under tag, keyed by its id attribute. A later definition with the same id
// replaces the earlier one.
func (c *Catalog) Add(tag string, def *document.Config) error {
	id := def.Get("id").Str()
	if id == "" {
		return fmt.Errorf("[%s] definition missing id", tag)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	byID, ok := c.defs[tag]
	if !ok {
		byID = make(map[string]*document.Config)
		c.defs[tag] = byID
	}
	byID[id] = def
	return nil
}

// Find returns the definition registered under tag and id.
func (c *Catalog) Find(tag, id string) (*document.Config, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[tag][id]
	return def, ok
}

// IDs returns the ids registered under tag, sorted.
func (c *Catalog) IDs(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.defs[tag]))
	for id := range c.defs[tag] {
		ids = append(ids, id)
	}
	sort.Strings(ids) // Deterministic order
	return ids
}
