// Package loam serves the game catalog from a directory of definition files managed by Loam.
//
// Each file holds one definition in its front matter (Markdown) or body (JSON/YAML). The
// catalog tag comes from a "tag" key, or else from the file's top-level directory:
//
//	multiplayer/2p_Caves.md   -> [multiplayer] id=2p_Caves
//	eras/default.md (tag: era) -> [era] id=default
//
// The id comes from an "id" key, or else from the file name without extension. A Markdown
// body, when present, is kept as the definition's description.
package loam

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/adapters/fs"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/savestate/pkg/document"
)

// ErrNotWatchable is returned by Watch when the repository cannot report changes.
var ErrNotWatchable = errors.New("loam repository does not support watching")

// Catalog adapts a Loam repository to ports.Catalog.
// Definitions are indexed up front; Reload or Watch refresh the index.
type Catalog struct {
	Repo core.Repository

	mu   sync.RWMutex
	defs map[string]map[string]*document.Config
}

// Open initializes a read-only Loam repository at dir and indexes it.
func Open(ctx context.Context, dir string) (*Catalog, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps integers out of float64, and read-only mode skips Loam's dev sandbox.
	// The catalog never writes.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
		loam.WithSerializer(".json", fs.NewJSONSerializer(true)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(ctx, repo)
}

// New creates a catalog over an existing repository and indexes it.
func New(ctx context.Context, repo core.Repository) (*Catalog, error) {
	c := &Catalog{Repo: repo}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload rebuilds the index from the repository.
func (c *Catalog) Reload(ctx context.Context) error {
	docs, err := c.Repo.List(ctx)
	if err != nil {
		return fmt.Errorf("loam list failed: %w", err)
	}

	defs := make(map[string]map[string]*document.Config)
	seen := make(map[string]string)
	for _, doc := range docs {
		tag, id := locate(doc.ID, doc.Metadata)
		if tag == "" {
			continue
		}

		// Collision Detection
		key := tag + "/" + id
		if existing, ok := seen[key]; ok {
			return fmt.Errorf("collision detected: [%s] id '%s' is defined in both '%s' and '%s'", tag, id, existing, doc.ID)
		}
		seen[key] = doc.ID

		if defs[tag] == nil {
			defs[tag] = make(map[string]*document.Config)
		}
		defs[tag][id] = definition(id, doc.Metadata, doc.Content)
	}

	c.mu.Lock()
	c.defs = defs
	c.mu.Unlock()
	return nil
}

// Find implements ports.Catalog.
func (c *Catalog) Find(tag, id string) (*document.Config, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.defs[tag][id]
	return def, ok
}

// Watch implements ports.Watchable. The index is reloaded before each signal.
func (c *Catalog) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, ok := c.Repo.(core.Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	events, err := w.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				if err := c.Reload(ctx); err != nil {
					// Keep serving the previous index until the files are fixed.
					continue
				}
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

func locate(docID string, meta map[string]any) (tag, id string) {
	path := filepath.ToSlash(trimExtension(docID))
	if s, ok := meta["tag"].(string); ok {
		tag = s
	} else if dir, _, found := strings.Cut(path, "/"); found {
		tag = dir
	}

	id = path[strings.LastIndex(path, "/")+1:]
	if v, ok := meta["id"]; ok && v != nil {
		id = document.ValueOf(v).Str()
	}
	return tag, id
}

func definition(id string, meta map[string]any, body string) *document.Config {
	fields := make(map[string]any, len(meta)+1)
	for k, v := range meta {
		if k != "tag" {
			fields[k] = v
		}
	}
	fields["id"] = id
	if body = strings.TrimSpace(body); body != "" {
		if _, ok := fields["description"]; !ok {
			fields["description"] = body
		}
	}
	return document.FromMap(fields)
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return strings.TrimSuffix(id, ext)
	}
	return id
}
